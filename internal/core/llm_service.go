package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"godwithyou.app/server/internal/config"
)

// Gateway business errors. 429 and 402 carry distinct meaning for the caller;
// nothing is retried at any layer.
var (
	ErrRateLimited    = errors.New("llm gateway rate limit exceeded, please try again later")
	ErrQuotaExhausted = errors.New("llm gateway credits exhausted, please add funds to your workspace")
)

// ChatMessage is one turn in the gateway request body.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// LLMService talks to the hosted chat-completion gateway over HTTPS. Requests
// ask for a server-sent-event token stream and accumulate it into one string.
type LLMService struct {
	httpClient *http.Client
	gatewayURL string
	apiKey     string
	model      string
}

func NewLLMService() *LLMService {
	return &LLMService{
		// No client timeout: streamed completions can run long; cancellation
		// rides the request context instead.
		httpClient: &http.Client{},
		gatewayURL: config.AppConfig.GatewayURL,
		apiKey:     config.AppConfig.GatewayAPIKey,
		model:      config.AppConfig.ChatModel,
	}
}

// NewLLMServiceWithClient is used by tests to point the service at a fake
// gateway.
func NewLLMServiceWithClient(client *http.Client, gatewayURL, apiKey, model string) *LLMService {
	return &LLMService{
		httpClient: client,
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// StreamChatCompletion submits the message array to the gateway and
// accumulates the streamed reply into a single string. Malformed stream lines
// are skipped silently and never abort the response.
func (s *LLMService) StreamChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("message history is empty for chat completion")
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrQuotaExhausted
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	return accumulateStream(resp.Body)
}

// accumulateStream consumes a text/event-stream body, concatenating the
// choices[0].delta.content fragments until "data: [DONE]" or EOF.
func accumulateStream(r io.Reader) (string, error) {
	var reply strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Malformed line; ignore and keep reading.
			continue
		}
		if len(chunk.Choices) > 0 {
			reply.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed reading gateway stream: %w", err)
	}

	return reply.String(), nil
}

const titleSystemInstruction = "You are a helpful assistant that generates concise titles for chat conversations. " +
	"The title should be 3-5 words maximum. Just return the title itself, nothing else."

// GenerateTitleForChat asks the gateway for a short conversation title.
func (s *LLMService) GenerateTitleForChat(ctx context.Context, chatSummary string) (string, error) {
	prompt := fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a conversation that starts with or is about: %q.", chatSummary)

	title, err := s.StreamChatCompletion(ctx, []ChatMessage{
		{Role: "system", Content: titleSystemInstruction},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("title generation request failed: %w", err)
	}

	title = strings.Trim(title, "\"'\n\r\t .")
	if title == "" {
		log.Println("Gateway generated an empty title string, falling back to default")
		return "Chat", nil
	}
	return title, nil
}
