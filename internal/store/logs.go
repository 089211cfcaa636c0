package store

import (
	"database/sql"
	"fmt"
)

// UpsertDailyLog writes the check-in for (user, date). At most one row exists
// per user and calendar date; a second submission for the same date replaces
// the first (last write wins).
func (s *SQLiteStore) UpsertDailyLog(logEntry *DailyLog) error {
	query := `
        INSERT INTO daily_logs (user_id, log_date, mood, energy, sleep_hours, focus_hours, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id, log_date) DO UPDATE SET
            mood = excluded.mood,
            energy = excluded.energy,
            sleep_hours = excluded.sleep_hours,
            focus_hours = excluded.focus_hours,
            notes = excluded.notes
    `
	_, err := s.db.Exec(query, logEntry.UserID, logEntry.LogDate, logEntry.Mood, logEntry.Energy, logEntry.SleepHours, logEntry.FocusHours, logEntry.Notes)
	if err != nil {
		return fmt.Errorf("failed to upsert daily log: %w", err)
	}

	return s.db.QueryRow("SELECT id FROM daily_logs WHERE user_id = ? AND log_date = ?", logEntry.UserID, logEntry.LogDate).Scan(&logEntry.ID)
}

func (s *SQLiteStore) GetDailyLogByDate(userID int64, logDate string) (*DailyLog, error) {
	row := s.db.QueryRow(
		"SELECT id, user_id, log_date, mood, energy, sleep_hours, focus_hours, notes FROM daily_logs WHERE user_id = ? AND log_date = ?",
		userID, logDate,
	)
	logEntry, err := scanDailyLog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return logEntry, nil
}

// GetDailyLogs returns up to limit logs, most recent date first.
func (s *SQLiteStore) GetDailyLogs(userID int64, limit int) ([]DailyLog, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, log_date, mood, energy, sleep_hours, focus_hours, notes FROM daily_logs WHERE user_id = ? ORDER BY log_date DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily logs: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		logEntry, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log row: %w", err)
		}
		logs = append(logs, *logEntry)
	}
	return logs, nil
}

// GetDailyLogsInRange returns logs with from <= log_date <= to, most recent
// date first.
func (s *SQLiteStore) GetDailyLogsInRange(userID int64, from, to string) ([]DailyLog, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, log_date, mood, energy, sleep_hours, focus_hours, notes FROM daily_logs WHERE user_id = ? AND log_date >= ? AND log_date <= ? ORDER BY log_date DESC",
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily logs in range: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		logEntry, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log row: %w", err)
		}
		logs = append(logs, *logEntry)
	}
	return logs, nil
}

func scanDailyLog(row interface{ Scan(...any) error }) (*DailyLog, error) {
	var logEntry DailyLog
	var mood, energy sql.NullInt64
	var sleepHours, focusHours sql.NullFloat64
	if err := row.Scan(&logEntry.ID, &logEntry.UserID, &logEntry.LogDate, &mood, &energy, &sleepHours, &focusHours, &logEntry.Notes); err != nil {
		return nil, err
	}
	if mood.Valid {
		m := int(mood.Int64)
		logEntry.Mood = &m
	}
	if energy.Valid {
		e := int(energy.Int64)
		logEntry.Energy = &e
	}
	if sleepHours.Valid {
		logEntry.SleepHours = &sleepHours.Float64
	}
	if focusHours.Valid {
		logEntry.FocusHours = &focusHours.Float64
	}
	return &logEntry, nil
}
