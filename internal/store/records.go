package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task methods
func (s *SQLiteStore) CreateTask(task *Task) error {
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now()
	if task.Status == "" {
		task.Status = TaskStatusPending
	}
	_, err := s.db.Exec(
		"INSERT INTO tasks (id, user_id, project_id, title, notes, status, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.UserID, task.ProjectID, task.Title, task.Notes, task.Status, task.DueDate, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTasksByUserID(userID int64) ([]Task, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, project_id, title, notes, status, due_date, created_at FROM tasks WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		var projectID, dueDate sql.NullString
		if err := rows.Scan(&task.ID, &task.UserID, &projectID, &task.Title, &task.Notes, &task.Status, &dueDate, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		if projectID.Valid {
			task.ProjectID = &projectID.String
		}
		if dueDate.Valid {
			task.DueDate = &dueDate.String
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *SQLiteStore) UpdateTask(task *Task) error {
	res, err := s.db.Exec(
		"UPDATE tasks SET project_id = ?, title = ?, notes = ?, status = ?, due_date = ? WHERE id = ? AND user_id = ?",
		task.ProjectID, task.Title, task.Notes, task.Status, task.DueDate, task.ID, task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(taskID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Project methods
func (s *SQLiteStore) CreateProject(project *Project) error {
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	if project.Status == "" {
		project.Status = "active"
	}
	_, err := s.db.Exec(
		"INSERT INTO projects (id, user_id, name, color, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		project.ID, project.UserID, project.Name, project.Color, project.Status, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProjectsByUserID(userID int64) ([]Project, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, color, status, created_at FROM projects WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var project Project
		if err := rows.Scan(&project.ID, &project.UserID, &project.Name, &project.Color, &project.Status, &project.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (s *SQLiteStore) UpdateProject(project *Project) error {
	res, err := s.db.Exec(
		"UPDATE projects SET name = ?, color = ?, status = ? WHERE id = ? AND user_id = ?",
		project.Name, project.Color, project.Status, project.ID, project.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(projectID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Routine methods
func (s *SQLiteStore) CreateRoutine(routine *Routine) error {
	routine.ID = uuid.NewString()
	routine.CreatedAt = time.Now()
	if routine.Status == "" {
		routine.Status = "active"
	}
	_, err := s.db.Exec(
		"INSERT INTO routines (id, user_id, name, schedule, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		routine.ID, routine.UserID, routine.Name, routine.Schedule, routine.Status, routine.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert routine: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRoutinesByUserID(userID int64) ([]Routine, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, schedule, status, created_at FROM routines WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query routines: %w", err)
	}
	defer rows.Close()

	var routines []Routine
	for rows.Next() {
		var routine Routine
		if err := rows.Scan(&routine.ID, &routine.UserID, &routine.Name, &routine.Schedule, &routine.Status, &routine.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan routine row: %w", err)
		}
		routines = append(routines, routine)
	}
	return routines, nil
}

func (s *SQLiteStore) UpdateRoutine(routine *Routine) error {
	res, err := s.db.Exec(
		"UPDATE routines SET name = ?, schedule = ?, status = ? WHERE id = ? AND user_id = ?",
		routine.Name, routine.Schedule, routine.Status, routine.ID, routine.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update routine: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLiteStore) DeleteRoutine(routineID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM routines WHERE id = ? AND user_id = ?", routineID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TimelineEvent methods
func (s *SQLiteStore) CreateTimelineEvent(event *TimelineEvent) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	_, err := s.db.Exec(
		"INSERT INTO timeline_events (id, user_id, title, description, event_date, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.UserID, event.Title, event.Description, event.EventDate, event.Category, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTimelineEventsByUserID(userID int64) ([]TimelineEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, description, event_date, category, created_at FROM timeline_events WHERE user_id = ? ORDER BY event_date DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline events: %w", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var event TimelineEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.Title, &event.Description, &event.EventDate, &event.Category, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event row: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *SQLiteStore) DeleteTimelineEvent(eventID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM timeline_events WHERE id = ? AND user_id = ?", eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete timeline event: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DecisionLog methods
func (s *SQLiteStore) CreateDecisionLog(decision *DecisionLog) error {
	decision.ID = uuid.NewString()
	decision.CreatedAt = time.Now()
	optionsJSON, err := json.Marshal(decision.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal decision options: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO decision_logs (id, user_id, title, options_json, outcome, decided_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		decision.ID, decision.UserID, decision.Title, string(optionsJSON), decision.Outcome, decision.DecidedAt, decision.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert decision log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDecisionLogsByUserID(userID int64) ([]DecisionLog, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, options_json, outcome, decided_at, created_at FROM decision_logs WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision logs: %w", err)
	}
	defer rows.Close()

	var decisions []DecisionLog
	for rows.Next() {
		var decision DecisionLog
		var optionsJSON string
		var outcome sql.NullString
		var decidedAt sql.NullTime
		if err := rows.Scan(&decision.ID, &decision.UserID, &decision.Title, &optionsJSON, &outcome, &decidedAt, &decision.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision log row: %w", err)
		}
		if optionsJSON != "" {
			if err := json.Unmarshal([]byte(optionsJSON), &decision.Options); err != nil {
				decision.Options = nil
			}
		}
		if outcome.Valid {
			decision.Outcome = &outcome.String
		}
		if decidedAt.Valid {
			decision.DecidedAt = &decidedAt.Time
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

// ResolveDecision records the chosen outcome and the time of the decision.
func (s *SQLiteStore) ResolveDecision(decisionID string, userID int64, outcome string) error {
	res, err := s.db.Exec(
		"UPDATE decision_logs SET outcome = ?, decided_at = ? WHERE id = ? AND user_id = ?",
		outcome, time.Now(), decisionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve decision: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SenseReading methods
func (s *SQLiteStore) CreateSenseReading(reading *SenseReading) error {
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now()
	}
	res, err := s.db.Exec(
		"INSERT INTO sense_readings (user_id, kind, value, recorded_at) VALUES (?, ?, ?, ?)",
		reading.UserID, reading.Kind, reading.Value, reading.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sense reading: %w", err)
	}
	reading.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetSenseReadingsByUserID(userID int64, kind string, limit int) ([]SenseReading, error) {
	query := "SELECT id, user_id, kind, value, recorded_at FROM sense_readings WHERE user_id = ?"
	args := []any{userID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY recorded_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sense readings: %w", err)
	}
	defer rows.Close()

	var readings []SenseReading
	for rows.Next() {
		var reading SenseReading
		if err := rows.Scan(&reading.ID, &reading.UserID, &reading.Kind, &reading.Value, &reading.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sense reading row: %w", err)
		}
		readings = append(readings, reading)
	}
	return readings, nil
}
