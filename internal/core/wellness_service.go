package core

import (
	"fmt"
	"time"

	"godwithyou.app/server/internal/store"
)

// WellnessService owns daily check-ins and their derived statistics.
type WellnessService struct {
	dbStore *store.SQLiteStore
}

func NewWellnessService(db *store.SQLiteStore) *WellnessService {
	return &WellnessService{dbStore: db}
}

// SubmitCheckIn upserts the log for (user, date). Concurrent submissions for
// the same date resolve last-write-wins at the row level.
func (s *WellnessService) SubmitCheckIn(logEntry *store.DailyLog) error {
	if _, err := time.Parse("2006-01-02", logEntry.LogDate); err != nil {
		return fmt.Errorf("invalid log date %q, expected YYYY-MM-DD", logEntry.LogDate)
	}
	if logEntry.Mood != nil && (*logEntry.Mood < 1 || *logEntry.Mood > 10) {
		return fmt.Errorf("mood must be between 1 and 10")
	}
	if logEntry.Energy != nil && (*logEntry.Energy < 1 || *logEntry.Energy > 10) {
		return fmt.Errorf("energy must be between 1 and 10")
	}
	return s.dbStore.UpsertDailyLog(logEntry)
}

// GetLogs returns up to limit logs, most recent first.
func (s *WellnessService) GetLogs(userID int64, limit int) ([]store.DailyLog, error) {
	if limit <= 0 || limit > 365 {
		limit = 90
	}
	return s.dbStore.GetDailyLogs(userID, limit)
}

// GetSummary derives streak, averages, and trends for the given window size.
// Enough history is loaded to cover the comparison window as well.
func (s *WellnessService) GetSummary(userID int64, windowDays int, now time.Time) (StatsSummary, error) {
	if windowDays != 7 && windowDays != 30 {
		windowDays = 7
	}

	// A year of logs covers both comparison windows and any plausible streak.
	logs, err := s.dbStore.GetDailyLogs(userID, 365)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("failed to load logs for summary: %w", err)
	}

	return Summarize(logs, now, windowDays, NullAsZero), nil
}
