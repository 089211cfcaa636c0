package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"godwithyou.app/server/internal/store"
)

type CheckInRequest struct {
	LogDate    string   `json:"log_date"` // YYYY-MM-DD
	Mood       *int     `json:"mood"`
	Energy     *int     `json:"energy"`
	SleepHours *float64 `json:"sleep_hours"`
	FocusHours *float64 `json:"focus_hours"`
	Notes      string   `json:"notes"`
}

func (h *APIHandler) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.LogDate == "" {
		req.LogDate = time.Now().UTC().Format("2006-01-02")
	}

	logEntry := store.DailyLog{
		UserID:     userID,
		LogDate:    req.LogDate,
		Mood:       req.Mood,
		Energy:     req.Energy,
		SleepHours: req.SleepHours,
		FocusHours: req.FocusHours,
		Notes:      req.Notes,
	}
	if err := h.wellnessService.SubmitCheckIn(&logEntry); err != nil {
		if strings.Contains(err.Error(), "must be between") || strings.Contains(err.Error(), "invalid log date") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error upserting daily log for user %d: %v", userID, err)
		http.Error(w, "Failed to save check-in", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(logEntry)
}

func (h *APIHandler) ListLogsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.wellnessService.GetLogs(userID, limit)
	if err != nil {
		log.Printf("Error listing daily logs for user %d: %v", userID, err)
		http.Error(w, "Failed to list logs", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(logs)
}

func (h *APIHandler) LogsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window"))
	summary, err := h.wellnessService.GetSummary(userID, windowDays, time.Now().UTC())
	if err != nil {
		log.Printf("Error deriving log summary for user %d: %v", userID, err)
		http.Error(w, "Failed to derive summary", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}
