package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Chat methods
func (s *SQLiteStore) CreateChat(userID int64, mode string, title *string) (*Chat, error) {
	chatID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO chats (id, user_id, mode, title, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.Exec(chatID, userID, mode, title, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, UserID: userID, Mode: mode, Title: title, CreatedAt: now}, nil
}

func scanChat(row interface{ Scan(...any) error }) (*Chat, error) {
	var chat Chat
	var title, shareToken sql.NullString
	if err := row.Scan(&chat.ID, &chat.UserID, &chat.Mode, &title, &shareToken, &chat.IsPublic, &chat.CreatedAt); err != nil {
		return nil, err
	}
	if title.Valid {
		chat.Title = &title.String
	}
	if shareToken.Valid {
		chat.ShareToken = &shareToken.String
	}
	return &chat, nil
}

func (s *SQLiteStore) GetChatByID(chatID string, userID int64) (*Chat, error) {
	row := s.db.QueryRow("SELECT id, user_id, mode, title, share_token, is_public, created_at FROM chats WHERE id = ? AND user_id = ?", chatID, userID)
	chat, err := scanChat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

func (s *SQLiteStore) GetChatByShareToken(token string) (*Chat, error) {
	row := s.db.QueryRow("SELECT id, user_id, mode, title, share_token, is_public, created_at FROM chats WHERE share_token = ? AND is_public = TRUE", token)
	chat, err := scanChat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get shared chat: %w", err)
	}
	return chat, nil
}

func (s *SQLiteStore) GetChatsByUserID(userID int64) ([]Chat, error) {
	rows, err := s.db.Query("SELECT id, user_id, mode, title, share_token, is_public, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, *chat)
	}
	return chats, nil
}

func (s *SQLiteStore) UpdateChatTitle(chatID string, userID int64, title string) error {
	res, err := s.db.Exec("UPDATE chats SET title = ? WHERE id = ? AND user_id = ?", title, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to execute chat title update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("chat not found or not owned by user, title not updated")
	}
	return nil
}

// ShareChat mints a share token for the chat and marks it public. An existing
// token is kept so shared links stay stable.
func (s *SQLiteStore) ShareChat(chatID string, userID int64) (string, error) {
	chat, err := s.GetChatByID(chatID, userID)
	if err != nil {
		return "", err
	}
	if chat == nil {
		return "", sql.ErrNoRows
	}
	if chat.ShareToken != nil {
		if !chat.IsPublic {
			if _, err := s.db.Exec("UPDATE chats SET is_public = TRUE WHERE id = ?", chatID); err != nil {
				return "", fmt.Errorf("failed to mark chat public: %w", err)
			}
		}
		return *chat.ShareToken, nil
	}

	token := uuid.NewString()
	_, err = s.db.Exec("UPDATE chats SET share_token = ?, is_public = TRUE WHERE id = ? AND user_id = ?", token, chatID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to set share token: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) DeleteChat(chatID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM chats WHERE id = ? AND user_id = ?", chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Message methods
func (s *SQLiteStore) CreateMessage(msg *Message) error {
	msg.ID = uuid.NewString() // Ensure ID is set
	msg.CreatedAt = time.Now()

	var sourcesJSON *string
	if len(msg.Sources) > 0 {
		b, err := json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("failed to marshal sources: %w", err)
		}
		str := string(b)
		sourcesJSON = &str
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, chat_id, role, content, sources_json, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.ChatID, msg.Role, msg.Content, sourcesJSON, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var msg Message
		var sourcesJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &sourcesJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &msg.Sources); err != nil {
				log.Printf("Warning: failed to unmarshal sources for message %s: %v", msg.ID, err)
				msg.Sources = nil
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *SQLiteStore) GetMessagesByChatID(chatID string, limit int, offset int) ([]Message, error) {
	query := "SELECT id, chat_id, role, content, sources_json, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// GetLastNMessagesByChatID returns the n most recent messages, oldest first,
// so callers can feed them to the gateway in conversation order.
func (s *SQLiteStore) GetLastNMessagesByChatID(chatID string, n int) ([]Message, error) {
	query := `
        SELECT id, chat_id, role, content, sources_json, created_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `

	rows, err := s.db.Query(query, chatID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
