package core

import (
	"fmt"
	"strings"
	"time"

	"godwithyou.app/server/internal/store"
)

const (
	// chunkLimit caps how many document chunks are folded into the prompt.
	// Retrieval is positional: the first chunks in original order, no ranking.
	chunkLimit = 5
	// historyLimit caps how many recent messages are replayed to the gateway.
	historyLimit = 10
	// logSummaryDays is the daily-log window summarized for lifesync chats.
	logSummaryDays = 7

	querynetSystemInstruction = "You are QueryNet, a precise research assistant. Answer questions using the provided " +
		"document context when it is present. If the answer is not found in the context, say so clearly instead of " +
		"guessing. Keep answers concise and directly related to the question."

	lifesyncSystemInstruction = "You are a warm, reflective life coach inside the GodwithYou app. You help the user " +
		"notice patterns in their mood, energy, sleep, and focus, and suggest small, kind next steps. Never diagnose. " +
		"Recent check-ins from the user's journal are summarized below.\n\n%s"
)

// retrieveDocumentContext fetches up to chunkLimit chunks of the document in
// original order and concatenates them into a context block, along with the
// sources list persisted on the assistant reply.
func (s *ChatService) retrieveDocumentContext(documentID string, userID int64) (string, []store.Source, error) {
	doc, err := s.dbStore.GetDocumentByID(documentID, userID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up document: %w", err)
	}
	if doc == nil {
		return "", nil, fmt.Errorf("document %s not found", documentID)
	}

	chunks, err := s.dbStore.GetDocumentChunks(documentID, chunkLimit)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch document chunks: %w", err)
	}
	if len(chunks) == 0 {
		return "", nil, nil
	}

	var contextBuilder strings.Builder
	sources := make([]store.Source, 0, len(chunks))
	for _, chunk := range chunks {
		contextBuilder.WriteString(chunk.Content)
		contextBuilder.WriteString("\n\n")
		sources = append(sources, store.Source{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			ChunkIndex: chunk.ChunkIndex,
		})
	}

	return strings.TrimSpace(contextBuilder.String()), sources, nil
}

// buildPrompt assembles [system, ...history] for the gateway. The system
// persona depends on the chat mode; querynet chats get the document context
// appended, lifesync chats get a summary of recent daily logs substituted in.
func (s *ChatService) buildPrompt(chat *store.Chat, history []store.Message, contextBlock string) ([]ChatMessage, error) {
	var system string
	switch chat.Mode {
	case store.ChatModeQueryNet:
		system = querynetSystemInstruction
		if contextBlock != "" {
			system = fmt.Sprintf("%s\n\n--- CONTEXT START ---\n%s\n--- CONTEXT END ---", querynetSystemInstruction, contextBlock)
		}
	case store.ChatModeLifeSync:
		summary := s.recentLogSummary(chat.UserID)
		system = fmt.Sprintf(lifesyncSystemInstruction, summary)
	default:
		return nil, fmt.Errorf("unknown chat mode %q", chat.Mode)
	}

	prompt := make([]ChatMessage, 0, len(history)+1)
	prompt = append(prompt, ChatMessage{Role: "system", Content: system})
	for _, msg := range history {
		prompt = append(prompt, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return prompt, nil
}

// recentLogSummary formats the user's last week of check-ins for the lifesync
// persona. Missing logs are fine; the coach just sees fewer lines.
func (s *ChatService) recentLogSummary(userID int64) string {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -logSummaryDays).Format("2006-01-02")
	to := now.Format("2006-01-02")

	logs, err := s.dbStore.GetDailyLogsInRange(userID, from, to)
	if err != nil || len(logs) == 0 {
		return "No recent check-ins available."
	}

	var b strings.Builder
	for _, l := range logs {
		b.WriteString(l.LogDate)
		b.WriteString(":")
		if l.Mood != nil {
			fmt.Fprintf(&b, " mood %d/10", *l.Mood)
		}
		if l.Energy != nil {
			fmt.Fprintf(&b, " energy %d/10", *l.Energy)
		}
		if l.SleepHours != nil {
			fmt.Fprintf(&b, " sleep %.1fh", *l.SleepHours)
		}
		if l.FocusHours != nil {
			fmt.Fprintf(&b, " focus %.1fh", *l.FocusHours)
		}
		if l.Notes != "" {
			fmt.Fprintf(&b, " notes: %s", l.Notes)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
