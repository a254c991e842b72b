package internal

import "time"

// CreateSessions splits a chronological message list into sessions. A message
// joins the current session when the elapsed time since the previous message
// is strictly below the threshold; otherwise it opens a new one.
func CreateSessions(messages []Message, thresholdMinutes int) []Session {
	if len(messages) == 0 {
		return nil
	}

	threshold := time.Duration(thresholdMinutes) * time.Minute

	var sessions []Session
	var current Session
	for _, msg := range messages {
		if len(current) > 0 {
			prev := current[len(current)-1]
			if msg.Timestamp.Sub(prev.Timestamp) >= threshold {
				sessions = append(sessions, current)
				current = nil
			}
		}
		current = append(current, msg)
	}

	// Flush remaining.
	if len(current) > 0 {
		sessions = append(sessions, current)
	}

	return sessions
}
