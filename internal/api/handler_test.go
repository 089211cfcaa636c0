package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"godwithyou.app/server/internal/blob"
	"godwithyou.app/server/internal/config"
	"godwithyou.app/server/internal/core"
	"godwithyou.app/server/internal/store"
)

// newTestServer wires the full stack against a fake gateway and returns the
// router plus a bearer token for a signed-up user.
func newTestServer(t *testing.T, gateway http.HandlerFunc) (http.Handler, string) {
	t.Helper()

	config.AppConfig = config.Config{
		JWTSecret:      "test-secret",
		AllowedOrigins: "*",
	}

	dbStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { dbStore.Close() })

	blobStore, err := blob.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init blob store: %v", err)
	}

	gatewayServer := httptest.NewServer(gateway)
	t.Cleanup(gatewayServer.Close)
	llmService := core.NewLLMServiceWithClient(gatewayServer.Client(), gatewayServer.URL, "test-key", "test-model")

	handler := NewAPIHandler(
		core.NewChatService(dbStore, llmService),
		core.NewDocumentService(dbStore, blobStore),
		core.NewWellnessService(dbStore),
		core.NewRecordsService(dbStore),
		dbStore,
	)
	router := NewRouter(handler)

	// Sign up and log in a user for the authenticated routes.
	signup := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"email":"api-tester@example.com","password":"secret"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, signup)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed with status %d: %s", w.Code, w.Body.String())
	}

	login := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"api-tester@example.com","password":"secret"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, login)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var loginResp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return router, loginResp["token"]
}

func streamingGateway(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", reply)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t, streamingGateway("ok"))

	w := doJSON(t, router, http.MethodGet, "/api/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	router, _ := newTestServer(t, streamingGateway("ok"))

	for _, path := range []string{"/api/chats", "/api/logs", "/api/tasks", "/api/documents"} {
		w := doJSON(t, router, http.MethodGet, path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, w.Code)
		}
	}
}

func TestChatMessageFlow(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("A thoughtful reply."))

	w := doJSON(t, router, http.MethodPost, "/api/chats", token, `{"mode":"querynet"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create chat failed with %d: %s", w.Code, w.Body.String())
	}
	var chat store.Chat
	if err := json.NewDecoder(w.Body).Decode(&chat); err != nil {
		t.Fatalf("failed to decode chat: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/chats/"+chat.ID+"/messages", token, `{"content":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("post message failed with %d: %s", w.Code, w.Body.String())
	}
	var msg store.Message
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if msg.Role != "assistant" || msg.Content != "A thoughtful reply." {
		t.Errorf("unexpected assistant message: %+v", msg)
	}

	// Empty content is rejected before any side effect.
	w = doJSON(t, router, http.MethodPost, "/api/chats/"+chat.ID+"/messages", token, `{"content":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty content: expected 400, got %d", w.Code)
	}
}

func TestPostMessageRateLimitMapsTo429(t *testing.T) {
	router, token := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	w := doJSON(t, router, http.MethodPost, "/api/chats", token, `{"mode":"querynet"}`)
	var chat store.Chat
	if err := json.NewDecoder(w.Body).Decode(&chat); err != nil {
		t.Fatalf("failed to decode chat: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/chats/"+chat.ID+"/messages", token, `{"content":"hello"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "rate limit") {
		t.Errorf("expected a rate-limit-specific message, got %q", w.Body.String())
	}
}

func TestCreateChatRejectsUnknownMode(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("ok"))

	w := doJSON(t, router, http.MethodPost, "/api/chats", token, `{"mode":"astral"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown mode, got %d", w.Code)
	}
}

func TestCheckInAndSummaryFlow(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("ok"))

	w := doJSON(t, router, http.MethodPost, "/api/logs", token, `{"log_date":"2026-08-30","mood":7,"energy":6,"sleep_hours":7.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("check-in failed with %d: %s", w.Code, w.Body.String())
	}

	// Resubmitting the same date must not create a second row.
	w = doJSON(t, router, http.MethodPost, "/api/logs", token, `{"log_date":"2026-08-30","mood":9}`)
	if w.Code != http.StatusOK {
		t.Fatalf("second check-in failed with %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/logs", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list logs failed with %d", w.Code)
	}
	var logs []store.DailyLog
	if err := json.NewDecoder(w.Body).Decode(&logs); err != nil {
		t.Fatalf("failed to decode logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log row, got %d", len(logs))
	}
	if logs[0].Mood == nil || *logs[0].Mood != 9 {
		t.Errorf("expected the later mood value 9, got %v", logs[0].Mood)
	}

	w = doJSON(t, router, http.MethodGet, "/api/logs/summary?window=7", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary failed with %d: %s", w.Code, w.Body.String())
	}
	var summary core.StatsSummary
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.WindowDays != 7 {
		t.Errorf("expected window 7, got %d", summary.WindowDays)
	}
}

func TestCheckInValidation(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("ok"))

	w := doJSON(t, router, http.MethodPost, "/api/logs", token, `{"log_date":"2026-08-30","mood":11}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("mood 11: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/logs", token, `{"log_date":"August 30"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", w.Code)
	}
}

func TestDocumentUploadFlow(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("ok"))

	var paragraphs []string
	for i := 0; i < 25; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("Paragraph %02d is long enough to clear the fifty character floor easily.", i))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "journal.txt")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte(strings.Join(paragraphs, "\n\n")))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed with %d: %s", w.Code, w.Body.String())
	}
	var doc store.Document
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	if doc.ChunkCount != 20 {
		t.Errorf("expected 20 chunks from 25 paragraphs, got %d", doc.ChunkCount)
	}

	w2 := doJSON(t, router, http.MethodGet, "/api/documents/"+doc.ID, token, "")
	if w2.Code != http.StatusOK {
		t.Fatalf("get document failed with %d", w2.Code)
	}
	var resp struct {
		Chunks []store.DocumentChunk `json:"chunks"`
	}
	if err := json.NewDecoder(w2.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode document response: %v", err)
	}
	if len(resp.Chunks) != 20 {
		t.Fatalf("expected 20 chunks, got %d", len(resp.Chunks))
	}
	for i, chunk := range resp.Chunks {
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d has index %d, original order lost", i, chunk.ChunkIndex)
		}
	}
}

func TestTaskCRUDFlow(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("ok"))

	w := doJSON(t, router, http.MethodPost, "/api/tasks", token, `{"title":"write tests","status":"pending"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task failed with %d: %s", w.Code, w.Body.String())
	}
	var task store.Task
	if err := json.NewDecoder(w.Body).Decode(&task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}

	w = doJSON(t, router, http.MethodPut, "/api/tasks/"+task.ID, token, `{"title":"write tests","status":"completed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update task failed with %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/tasks", token, "")
	var tasks []store.Task
	if err := json.NewDecoder(w.Body).Decode(&tasks); err != nil {
		t.Fatalf("failed to decode tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != store.TaskStatusCompleted {
		t.Errorf("unexpected tasks after update: %+v", tasks)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/tasks/"+task.ID, token, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete task: expected 204, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/tasks/"+task.ID, token, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing task: expected 404, got %d", w.Code)
	}
}

func TestSharedChatPublicAccess(t *testing.T) {
	router, token := newTestServer(t, streamingGateway("shared wisdom"))

	w := doJSON(t, router, http.MethodPost, "/api/chats", token, `{"mode":"querynet"}`)
	var chat store.Chat
	if err := json.NewDecoder(w.Body).Decode(&chat); err != nil {
		t.Fatalf("failed to decode chat: %v", err)
	}
	doJSON(t, router, http.MethodPost, "/api/chats/"+chat.ID+"/messages", token, `{"content":"hello"}`)

	w = doJSON(t, router, http.MethodPost, "/api/chats/"+chat.ID+"/share", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("share failed with %d: %s", w.Code, w.Body.String())
	}
	var shareResp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&shareResp); err != nil {
		t.Fatalf("failed to decode share response: %v", err)
	}

	// Public fetch needs no token.
	w = doJSON(t, router, http.MethodGet, "/api/shared/"+shareResp["share_token"], "", "")
	if w.Code != http.StatusOK {
		t.Errorf("public shared fetch: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/shared/bogus", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("bogus share token: expected 404, got %d", w.Code)
	}
}
