package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"godwithyou.app/server/internal/core"
	"godwithyou.app/server/internal/store"
)

func (h *APIHandler) respondRecordError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, core.ErrRecordNotFound) {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	log.Printf("Error %s: %v", action, err)
	http.Error(w, "Failed to "+action, http.StatusInternalServerError)
}

// Tasks

func (h *APIHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var task store.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	task.UserID = userID

	if err := h.recordsService.CreateTask(&task); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *APIHandler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	tasks, err := h.recordsService.GetTasks(userID)
	if err != nil {
		h.respondRecordError(w, err, "list tasks")
		return
	}
	json.NewEncoder(w).Encode(tasks)
}

func (h *APIHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	taskID := chi.URLParam(r, "taskID")

	var task store.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	task.ID = taskID
	task.UserID = userID

	if err := h.recordsService.UpdateTask(&task); err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(task)
}

func (h *APIHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	taskID := chi.URLParam(r, "taskID")

	if err := h.recordsService.DeleteTask(taskID, userID); err != nil {
		h.respondRecordError(w, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Projects

func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var project store.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	project.UserID = userID

	if err := h.recordsService.CreateProject(&project); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	projects, err := h.recordsService.GetProjects(userID)
	if err != nil {
		h.respondRecordError(w, err, "list projects")
		return
	}
	json.NewEncoder(w).Encode(projects)
}

func (h *APIHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	projectID := chi.URLParam(r, "projectID")

	var project store.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	project.ID = projectID
	project.UserID = userID

	if err := h.recordsService.UpdateProject(&project); err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(project)
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	projectID := chi.URLParam(r, "projectID")

	if err := h.recordsService.DeleteProject(projectID, userID); err != nil {
		h.respondRecordError(w, err, "delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routines

func (h *APIHandler) CreateRoutineHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var routine store.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	routine.UserID = userID

	if err := h.recordsService.CreateRoutine(&routine); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(routine)
}

func (h *APIHandler) ListRoutinesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	routines, err := h.recordsService.GetRoutines(userID)
	if err != nil {
		h.respondRecordError(w, err, "list routines")
		return
	}
	json.NewEncoder(w).Encode(routines)
}

func (h *APIHandler) UpdateRoutineHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	routineID := chi.URLParam(r, "routineID")

	var routine store.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	routine.ID = routineID
	routine.UserID = userID

	if err := h.recordsService.UpdateRoutine(&routine); err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			http.Error(w, "Routine not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(routine)
}

func (h *APIHandler) DeleteRoutineHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	routineID := chi.URLParam(r, "routineID")

	if err := h.recordsService.DeleteRoutine(routineID, userID); err != nil {
		h.respondRecordError(w, err, "delete routine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Timeline events

func (h *APIHandler) CreateTimelineEventHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var event store.TimelineEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	event.UserID = userID

	if err := h.recordsService.CreateTimelineEvent(&event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (h *APIHandler) ListTimelineEventsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	events, err := h.recordsService.GetTimelineEvents(userID)
	if err != nil {
		h.respondRecordError(w, err, "list timeline events")
		return
	}
	json.NewEncoder(w).Encode(events)
}

func (h *APIHandler) DeleteTimelineEventHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	eventID := chi.URLParam(r, "eventID")

	if err := h.recordsService.DeleteTimelineEvent(eventID, userID); err != nil {
		h.respondRecordError(w, err, "delete timeline event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Decision logs

func (h *APIHandler) CreateDecisionLogHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var decision store.DecisionLog
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	decision.UserID = userID

	if err := h.recordsService.CreateDecisionLog(&decision); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(decision)
}

func (h *APIHandler) ListDecisionLogsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	decisions, err := h.recordsService.GetDecisionLogs(userID)
	if err != nil {
		h.respondRecordError(w, err, "list decision logs")
		return
	}
	json.NewEncoder(w).Encode(decisions)
}

type ResolveDecisionRequest struct {
	Outcome string `json:"outcome"`
}

func (h *APIHandler) ResolveDecisionHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	decisionID := chi.URLParam(r, "decisionID")

	var req ResolveDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.recordsService.ResolveDecision(decisionID, userID, req.Outcome); err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			http.Error(w, "Decision not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sense readings

func (h *APIHandler) CreateSenseReadingHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var reading store.SenseReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	reading.UserID = userID

	if err := h.recordsService.CreateSenseReading(&reading); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reading)
}

func (h *APIHandler) ListSenseReadingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	readings, err := h.recordsService.GetSenseReadings(userID, r.URL.Query().Get("kind"), limit)
	if err != nil {
		h.respondRecordError(w, err, "list sense readings")
		return
	}
	json.NewEncoder(w).Encode(readings)
}
