package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"godwithyou.app/server/internal/config"
	"godwithyou.app/server/internal/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)       // Basic request logging
	r.Use(chimiddleware.Recoverer)    // Recover from panics
	r.Use(chimiddleware.StripSlashes) // Ensure consistent path handling
	r.Use(middleware.CORS(strings.Split(config.AppConfig.AllowedOrigins, ",")))

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/shared/{token}", apiHandler.GetSharedChatHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Chat routes
			r.Post("/chats", apiHandler.CreateChatHandler)
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Get("/chats/{chatID}", apiHandler.GetChatDetailsHandler)
			r.Delete("/chats/{chatID}", apiHandler.DeleteChatHandler)
			r.Post("/chats/{chatID}/messages", apiHandler.PostMessageHandler)
			r.Post("/chats/{chatID}/share", apiHandler.ShareChatHandler)

			// Document routes
			r.Post("/documents", apiHandler.UploadDocumentHandler)
			r.Get("/documents", apiHandler.ListDocumentsHandler)
			r.Get("/documents/{documentID}", apiHandler.GetDocumentHandler)

			// Daily log routes
			r.Post("/logs", apiHandler.CheckInHandler)
			r.Get("/logs", apiHandler.ListLogsHandler)
			r.Get("/logs/summary", apiHandler.LogsSummaryHandler)

			// Task routes
			r.Post("/tasks", apiHandler.CreateTaskHandler)
			r.Get("/tasks", apiHandler.ListTasksHandler)
			r.Put("/tasks/{taskID}", apiHandler.UpdateTaskHandler)
			r.Delete("/tasks/{taskID}", apiHandler.DeleteTaskHandler)

			// Project routes
			r.Post("/projects", apiHandler.CreateProjectHandler)
			r.Get("/projects", apiHandler.ListProjectsHandler)
			r.Put("/projects/{projectID}", apiHandler.UpdateProjectHandler)
			r.Delete("/projects/{projectID}", apiHandler.DeleteProjectHandler)

			// Routine routes
			r.Post("/routines", apiHandler.CreateRoutineHandler)
			r.Get("/routines", apiHandler.ListRoutinesHandler)
			r.Put("/routines/{routineID}", apiHandler.UpdateRoutineHandler)
			r.Delete("/routines/{routineID}", apiHandler.DeleteRoutineHandler)

			// Timeline routes
			r.Post("/timeline", apiHandler.CreateTimelineEventHandler)
			r.Get("/timeline", apiHandler.ListTimelineEventsHandler)
			r.Delete("/timeline/{eventID}", apiHandler.DeleteTimelineEventHandler)

			// Decision routes
			r.Post("/decisions", apiHandler.CreateDecisionLogHandler)
			r.Get("/decisions", apiHandler.ListDecisionLogsHandler)
			r.Post("/decisions/{decisionID}/resolve", apiHandler.ResolveDecisionHandler)

			// Sense reading routes
			r.Post("/readings", apiHandler.CreateSenseReadingHandler)
			r.Get("/readings", apiHandler.ListSenseReadingsHandler)
		})
	})

	return r
}
