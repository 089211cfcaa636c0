package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseBody(deltas ...string) string {
	body := ""
	for _, d := range deltas {
		body += fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", d)
	}
	return body + "data: [DONE]\n\n"
}

func newFakeGateway(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMServiceWithClient(server.Client(), server.URL, "test-key", "test-model")
}

func TestStreamChatCompletionAccumulatesDeltas(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.True(t, req.Stream)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody("Hello", ", ", "world", "!"))
	})

	reply, err := svc.StreamChatCompletion(context.Background(), []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "greet me"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", reply)
}

func TestStreamChatCompletionIgnoresMalformedLines(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"keep\"}}]}\n\n")
		fmt.Fprint(w, "data: {this is not json}\n\n")
		fmt.Fprint(w, ": comment line\n\n")
		fmt.Fprint(w, "event: ping\n\n")
		fmt.Fprint(w, "data: {\"choices\":[]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" this\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	reply, err := svc.StreamChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "keep this", reply)
}

func TestStreamChatCompletionStopsAtDone(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"before\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" after\"}}]}\n\n")
	})

	reply, err := svc.StreamChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "before", reply)
}

func TestStreamChatCompletionErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectedErr error
	}{
		{name: "429 maps to rate limited", status: http.StatusTooManyRequests, expectedErr: ErrRateLimited},
		{name: "402 maps to quota exhausted", status: http.StatusPaymentRequired, expectedErr: ErrQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := svc.StreamChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestStreamChatCompletionGenericErrorEmbedsStatus(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := svc.StreamChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStreamChatCompletionRejectsEmptyHistory(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway should not be called with empty history")
	})

	_, err := svc.StreamChatCompletion(context.Background(), nil)
	require.Error(t, err)
}

func TestGenerateTitleForChatTrimsDecoration(t *testing.T) {
	svc := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody("\"Morning Reflections.\""))
	})

	title, err := svc.GenerateTitleForChat(context.Background(), "I journaled about my morning")
	require.NoError(t, err)
	assert.Equal(t, "Morning Reflections", title)
}
