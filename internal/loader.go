package internal

import (
	"io"
	"os"
)

// LoadChats reads an export file and returns its chats and the detected target
func LoadChats(path string) ([]Chat, Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Target{}, &StorageError{Path: path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	return LoadChatsFromReader(f, path)
}

// LoadChatsFromReader parses an export from r. source names the input in errors
// and logs.
func LoadChatsFromReader(r io.Reader, source string) ([]Chat, Target, error) {
	LogInfo("Loading chats from '%s'...", source)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Target{}, &StorageError{Path: source, Op: "read", Err: err}
	}

	export, err := ParseRawExport(data)
	if err != nil {
		return nil, Target{}, &ParseError{Source: "export", Key: source, Err: err}
	}

	normalizer := NewNormalizer()
	var (
		chats  []Chat
		target Target
	)
	for i := range export.Chats.List {
		raw := &export.Chats.List[i]
		switch raw.Classify() {
		case EntrySelf:
			target = normalizer.DetectTarget(raw)
		case EntryDeleted:
			LogDebug("Skipping deleted account chat %d", raw.ID)
		case EntryChat:
			chat, err := normalizer.NormalizeChat(raw, i)
			if err != nil {
				if _, known := ParseChatKind(raw.Type); !known {
					LogWarn("Skipping chat '%s': %v", raw.Name.Value, err)
				} else {
					LogDebug("Skipping chat '%s': %v", raw.Name.Value, err)
				}
				continue
			}
			chats = append(chats, *chat)
		}
	}

	Log().Info().
		Int("chats", len(chats)).
		Int("skipped_messages", normalizer.Skipped()).
		Msgf("Found %d chats in file '%s'", len(chats), source)
	if !target.Resolved() {
		LogWarn("Was not able to detect target name from 'Saved Messages'!")
	}

	return chats, target, nil
}
