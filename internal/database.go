package internal

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS chats (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	kind     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	chat_position INTEGER NOT NULL REFERENCES chats(position),
	seq           INTEGER NOT NULL,
	ts            INTEGER NOT NULL,
	author        TEXT NOT NULL,
	text          TEXT NOT NULL,
	PRIMARY KEY (chat_position, seq)
);`

// OpenDatabase opens (creating if needed) a SQLite database and ensures the
// chat schema exists
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// WriteChats replaces the stored chats in a single transaction
func WriteChats(db *sql.DB, chats []Chat) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("clear messages failed: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chats"); err != nil {
		return fmt.Errorf("clear chats failed: %w", err)
	}

	chatStmt, err := tx.Prepare("INSERT INTO chats (position, name, kind) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer chatStmt.Close()

	msgStmt, err := tx.Prepare("INSERT INTO messages (chat_position, seq, ts, author, text) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer msgStmt.Close()

	for _, chat := range chats {
		if _, err := chatStmt.Exec(chat.Position, chat.Name, string(chat.Kind)); err != nil {
			return fmt.Errorf("insert chat %q failed: %w", chat.Name, err)
		}
		for seq, msg := range chat.Messages {
			if _, err := msgStmt.Exec(chat.Position, seq, msg.Timestamp.UnixNano(), msg.Author, msg.Text); err != nil {
				return fmt.Errorf("insert message failed: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ReadChats loads all stored chats in source order
func ReadChats(db *sql.DB) ([]Chat, error) {
	rows, err := db.Query("SELECT position, name, kind FROM chats ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	index := make(map[int]int)
	for rows.Next() {
		var chat Chat
		var kind string
		if err := rows.Scan(&chat.Position, &chat.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		chat.Kind = ChatKind(kind)
		index[chat.Position] = len(chats)
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	msgRows, err := db.Query("SELECT chat_position, ts, author, text FROM messages ORDER BY chat_position, seq")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer msgRows.Close()

	for msgRows.Next() {
		var position int
		var ts int64
		var msg Message
		if err := msgRows.Scan(&position, &ts, &msg.Author, &msg.Text); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		i, ok := index[position]
		if !ok {
			continue
		}
		msg.Timestamp = time.Unix(0, ts)
		chats[i].Messages = append(chats[i].Messages, msg)
	}
	if err := msgRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return chats, nil
}

// TableCounts returns the row count of every user table in db
func TableCounts(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tables = append(tables, name)
	}
	_ = rows.Close()

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		// Names come from sqlite_master, quoting guards odd identifiers
		query := fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, strings.ReplaceAll(table, `"`, `""`))
		if err := db.QueryRow(query).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s failed: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
