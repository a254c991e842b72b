package internal

import "time"

// daysPerMonth is the fixed month length used for the retention window
const daysPerMonth = 30

// Cutoff returns the earliest instant kept by a window of the given months
func Cutoff(now time.Time, months int) time.Time {
	return now.Add(-time.Duration(months*daysPerMonth) * 24 * time.Hour)
}

// FilterByDate keeps messages strictly newer than cutoff and drops chats left
// with no messages. Input chats are not modified.
func FilterByDate(chats []Chat, cutoff time.Time) []Chat {
	filtered := make([]Chat, 0, len(chats))
	for _, chat := range chats {
		messages := make([]Message, 0, len(chat.Messages))
		for _, msg := range chat.Messages {
			if msg.Timestamp.After(cutoff) {
				messages = append(messages, msg)
			}
		}
		if len(messages) == 0 {
			continue
		}
		chat.Messages = messages
		chat.Sessions = nil
		filtered = append(filtered, chat)
	}
	return filtered
}

// FilterSessions keeps sessions in which target authored at least one message
// after the first. The first message never counts since no prior turn exists.
func FilterSessions(sessions []Session, target string) []Session {
	if target == "" {
		return nil
	}

	var kept []Session
	for _, session := range sessions {
		if hasTargetReply(session, target) {
			kept = append(kept, session)
		}
	}
	return kept
}

func hasTargetReply(session Session, target string) bool {
	for i := 1; i < len(session); i++ {
		if session[i].Author == target {
			return true
		}
	}
	return false
}
