package core

import (
	"database/sql"
	"errors"
	"fmt"

	"godwithyou.app/server/internal/store"
)

// ErrRecordNotFound is returned when a per-user record does not exist or is
// not owned by the requesting user.
var ErrRecordNotFound = errors.New("record not found")

// RecordsService is plain CRUD over the independent per-user records: tasks,
// projects, routines, timeline events, decision logs, and sense readings.
// Status fields change only by direct user action.
type RecordsService struct {
	dbStore *store.SQLiteStore
}

func NewRecordsService(db *store.SQLiteStore) *RecordsService {
	return &RecordsService{dbStore: db}
}

func validStatus(status string, allowed ...string) bool {
	for _, a := range allowed {
		if status == a {
			return true
		}
	}
	return false
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}

// Tasks

func (s *RecordsService) CreateTask(task *store.Task) error {
	if task.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if task.Status != "" && !validStatus(task.Status, store.TaskStatusPending, store.TaskStatusActive, store.TaskStatusCompleted) {
		return fmt.Errorf("invalid task status %q", task.Status)
	}
	return s.dbStore.CreateTask(task)
}

func (s *RecordsService) GetTasks(userID int64) ([]store.Task, error) {
	return s.dbStore.GetTasksByUserID(userID)
}

func (s *RecordsService) UpdateTask(task *store.Task) error {
	if !validStatus(task.Status, store.TaskStatusPending, store.TaskStatusActive, store.TaskStatusCompleted) {
		return fmt.Errorf("invalid task status %q", task.Status)
	}
	return mapNotFound(s.dbStore.UpdateTask(task))
}

func (s *RecordsService) DeleteTask(taskID string, userID int64) error {
	return mapNotFound(s.dbStore.DeleteTask(taskID, userID))
}

// Projects

func (s *RecordsService) CreateProject(project *store.Project) error {
	if project.Name == "" {
		return fmt.Errorf("project name is required")
	}
	return s.dbStore.CreateProject(project)
}

func (s *RecordsService) GetProjects(userID int64) ([]store.Project, error) {
	return s.dbStore.GetProjectsByUserID(userID)
}

func (s *RecordsService) UpdateProject(project *store.Project) error {
	if !validStatus(project.Status, "active", "archived") {
		return fmt.Errorf("invalid project status %q", project.Status)
	}
	return mapNotFound(s.dbStore.UpdateProject(project))
}

func (s *RecordsService) DeleteProject(projectID string, userID int64) error {
	return mapNotFound(s.dbStore.DeleteProject(projectID, userID))
}

// Routines

func (s *RecordsService) CreateRoutine(routine *store.Routine) error {
	if routine.Name == "" {
		return fmt.Errorf("routine name is required")
	}
	return s.dbStore.CreateRoutine(routine)
}

func (s *RecordsService) GetRoutines(userID int64) ([]store.Routine, error) {
	return s.dbStore.GetRoutinesByUserID(userID)
}

func (s *RecordsService) UpdateRoutine(routine *store.Routine) error {
	if !validStatus(routine.Status, "active", "paused") {
		return fmt.Errorf("invalid routine status %q", routine.Status)
	}
	return mapNotFound(s.dbStore.UpdateRoutine(routine))
}

func (s *RecordsService) DeleteRoutine(routineID string, userID int64) error {
	return mapNotFound(s.dbStore.DeleteRoutine(routineID, userID))
}

// Timeline events

func (s *RecordsService) CreateTimelineEvent(event *store.TimelineEvent) error {
	if event.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if event.EventDate == "" {
		return fmt.Errorf("event date is required")
	}
	return s.dbStore.CreateTimelineEvent(event)
}

func (s *RecordsService) GetTimelineEvents(userID int64) ([]store.TimelineEvent, error) {
	return s.dbStore.GetTimelineEventsByUserID(userID)
}

func (s *RecordsService) DeleteTimelineEvent(eventID string, userID int64) error {
	return mapNotFound(s.dbStore.DeleteTimelineEvent(eventID, userID))
}

// Decision logs

func (s *RecordsService) CreateDecisionLog(decision *store.DecisionLog) error {
	if decision.Title == "" {
		return fmt.Errorf("decision title is required")
	}
	return s.dbStore.CreateDecisionLog(decision)
}

func (s *RecordsService) GetDecisionLogs(userID int64) ([]store.DecisionLog, error) {
	return s.dbStore.GetDecisionLogsByUserID(userID)
}

func (s *RecordsService) ResolveDecision(decisionID string, userID int64, outcome string) error {
	if outcome == "" {
		return fmt.Errorf("decision outcome is required")
	}
	return mapNotFound(s.dbStore.ResolveDecision(decisionID, userID, outcome))
}

// Sense readings

func (s *RecordsService) CreateSenseReading(reading *store.SenseReading) error {
	if reading.Kind == "" {
		return fmt.Errorf("reading kind is required")
	}
	return s.dbStore.CreateSenseReading(reading)
}

func (s *RecordsService) GetSenseReadings(userID int64, kind string, limit int) ([]store.SenseReading, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.dbStore.GetSenseReadingsByUserID(userID, kind, limit)
}
