package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"godwithyou.app/server/internal/store"
)

// ErrChatNotFound is returned when a chat does not exist or is not owned by
// the requesting user.
var ErrChatNotFound = errors.New("chat not found")

type ChatService struct {
	dbStore    *store.SQLiteStore
	llmService *LLMService
}

func NewChatService(db *store.SQLiteStore, llm *LLMService) *ChatService {
	return &ChatService{
		dbStore:    db,
		llmService: llm,
	}
}

func (s *ChatService) CreateChat(userID int64, mode string, title *string) (*store.Chat, error) {
	if mode != store.ChatModeQueryNet && mode != store.ChatModeLifeSync {
		return nil, fmt.Errorf("unknown chat mode %q", mode)
	}
	chat, err := s.dbStore.CreateChat(userID, mode, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}
	return chat, nil
}

func (s *ChatService) GetChats(userID int64) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserID(userID)
}

func (s *ChatService) GetChatDetails(chatID string, userID int64) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, nil, nil // Not found
	}

	messages, err := s.dbStore.GetMessagesByChatID(chatID, 100, 0) // Get up to 100 messages
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

func (s *ChatService) DeleteChat(chatID string, userID int64) error {
	err := s.dbStore.DeleteChat(chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrChatNotFound
	}
	return err
}

// ShareChat marks a chat public and returns its share token.
func (s *ChatService) ShareChat(chatID string, userID int64) (string, error) {
	token, err := s.dbStore.ShareChat(chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrChatNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to share chat: %w", err)
	}
	return token, nil
}

// GetSharedChat fetches a public chat and its messages by share token. No
// authentication is required; only chats explicitly marked public resolve.
func (s *ChatService) GetSharedChat(token string) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByShareToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get shared chat: %w", err)
	}
	if chat == nil {
		return nil, nil, nil // Not found
	}
	messages, err := s.dbStore.GetMessagesByChatID(chat.ID, 100, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for shared chat: %w", err)
	}
	return chat, messages, nil
}

// SendMessage runs the full request/response cycle: persist the user message,
// assemble the prompt (document context for querynet chats, recent daily-log
// summary for lifesync chats), stream a completion, and persist the reply.
//
// The user message is persisted before the gateway is called, so a gateway
// failure leaves it in the conversation and writes no assistant message.
func (s *ChatService) SendMessage(ctx context.Context, chatID string, userID int64, content string, documentID string) (*store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	// Store user message unconditionally.
	userMsg := store.Message{
		ChatID:  chatID,
		Role:    "user",
		Content: content,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	var contextBlock string
	var sources []store.Source
	if documentID != "" {
		contextBlock, sources, err = s.retrieveDocumentContext(documentID, userID)
		if err != nil {
			// Context retrieval failing should not sink the whole exchange.
			log.Printf("Failed to retrieve document context for chat %s: %v", chatID, err)
			contextBlock, sources = "", nil
		}
	}

	history, err := s.dbStore.GetLastNMessagesByChatID(chatID, historyLimit)
	if err != nil {
		log.Printf("Error getting chat history for chat %s: %v. Proceeding without history.", chatID, err)
		history = []store.Message{userMsg}
	}

	prompt, err := s.buildPrompt(chat, history, contextBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	reply, err := s.llmService.StreamChatCompletion(ctx, prompt)
	if err != nil {
		// Rate-limit and quota errors pass through untouched so the API layer
		// can map them to their own statuses.
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrQuotaExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get gateway completion: %w", err)
	}

	assistantMsg := store.Message{
		ChatID:  chatID,
		Role:    "assistant",
		Content: reply,
		Sources: sources,
	}
	if err := s.dbStore.CreateMessage(&assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	if chat.Title == nil || *chat.Title == "" {
		go s.generateAndSaveChatTitle(chatID, userID, content)
	}

	return &assistantMsg, nil
}

func (s *ChatService) generateAndSaveChatTitle(chatID string, userID int64, basisContent string) {
	log.Printf("Attempting to generate title for chat %s", chatID)
	title, err := s.llmService.GenerateTitleForChat(context.Background(), basisContent)
	if err != nil {
		log.Printf("Failed to generate title for chat %s: %v", chatID, err)
		return
	}

	err = s.dbStore.UpdateChatTitle(chatID, userID, title)
	if err != nil {
		log.Printf("Failed to save generated title '%s' for chat %s: %v", title, chatID, err)
	} else {
		log.Printf("Successfully generated and saved title '%s' for chat %s", title, chatID)
	}
}
