package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Chat modes. QueryNet chats answer from uploaded documents, LifeSync chats
// act as a reflective coach over the user's daily logs.
const (
	ChatModeQueryNet = "querynet"
	ChatModeLifeSync = "lifesync"
)

type Chat struct {
	ID         string    `json:"id"` // UUID
	UserID     int64     `json:"user_id"`
	Mode       string    `json:"mode"`
	Title      *string   `json:"title"` // Nullable
	ShareToken *string   `json:"share_token,omitempty"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	ID        string    `json:"id"` // UUID
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Source points at the document excerpt an assistant reply drew on.
type Source struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
}

type Document struct {
	ID         string    `json:"id"` // UUID
	UserID     int64     `json:"user_id"`
	Filename   string    `json:"filename"`
	BlobKey    string    `json:"blob_key"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentChunk struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"` // zero-based, preserves original order
	Content    string `json:"content"`
}

// DailyLog is one check-in per user per calendar date. Numeric fields are
// nullable; a skipped field is stored as NULL, not 0.
type DailyLog struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	LogDate    string   `json:"log_date"` // YYYY-MM-DD
	Mood       *int     `json:"mood"`     // 1-10
	Energy     *int     `json:"energy"`   // 1-10
	SleepHours *float64 `json:"sleep_hours"`
	FocusHours *float64 `json:"focus_hours"`
	Notes      string   `json:"notes"`
}

const (
	TaskStatusPending   = "pending"
	TaskStatusActive    = "active"
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	ProjectID *string   `json:"project_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	DueDate   *string   `json:"due_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Status    string    `json:"status"` // "active" or "archived"
	CreatedAt time.Time `json:"created_at"`
}

type Routine struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	Status    string    `json:"status"` // "active" or "paused"
	CreatedAt time.Time `json:"created_at"`
}

type TimelineEvent struct {
	ID          string    `json:"id"` // UUID
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   string    `json:"event_date"` // YYYY-MM-DD
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type DecisionLog struct {
	ID        string     `json:"id"` // UUID
	UserID    int64      `json:"user_id"`
	Title     string     `json:"title"`
	Options   []string   `json:"options"`
	Outcome   *string    `json:"outcome"`
	DecidedAt *time.Time `json:"decided_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type SenseReading struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}
