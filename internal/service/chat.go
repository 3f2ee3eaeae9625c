package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/idx"
)

const (
	maxTitleLength   = 200
	maxMessageLength = 8000
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrNotSessionOwner = errors.New("chat session belongs to another user")
	ErrEmptyMessage    = errors.New("message content is empty")
	ErrMessageTooLong  = errors.New("message content is too long")
)

// ChatService owns legal-assistance conversations. Every operation is
// scoped to the calling user; a session is only ever visible to its owner.
type ChatService struct {
	Store store.Store

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateSession opens a conversation. An empty title gets a default.
func (s *ChatService) CreateSession(ctx context.Context, userID, title string) (domain.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New conversation"
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength])
	}

	now := s.now()
	session := domain.ChatSession{
		ID:        idx.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.ChatSessions().CreateSession(ctx, session); err != nil {
		return domain.ChatSession{}, err
	}
	return session, nil
}

// ListSessions returns the user's conversations, most recently active first.
func (s *ChatService) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	return s.Store.ChatSessions().ListSessionsByUser(ctx, userID)
}

// GetSession returns one conversation, enforcing ownership.
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID string) (domain.ChatSession, error) {
	session, err := s.Store.ChatSessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ChatSession{}, ErrSessionNotFound
		}
		return domain.ChatSession{}, err
	}
	if session.UserID != userID {
		// hide the existence of other users' sessions
		return domain.ChatSession{}, ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession removes a conversation and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.Store.ChatSessions().DeleteSession(ctx, sessionID)
}

// PostMessage appends a user message to a session and bumps its activity
// timestamp.
func (s *ChatService) PostMessage(ctx context.Context, userID, sessionID, sender, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return domain.ChatMessage{}, ErrMessageTooLong
	}
	if sender != domain.SenderUser && sender != domain.SenderAssistant {
		sender = domain.SenderUser
	}

	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	now := s.now()
	message := domain.ChatMessage{
		ID:        idx.New().String(),
		SessionID: session.ID,
		UserID:    userID,
		Sender:    sender,
		Content:   content,
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ChatMessages().CreateMessage(ctx, message); err != nil {
			return err
		}
		return tx.ChatSessions().TouchSession(ctx, session.ID, now)
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return message, nil
}

// ListMessages returns a session's messages oldest first, enforcing ownership.
func (s *ChatService) ListMessages(ctx context.Context, userID, sessionID string) ([]domain.ChatMessage, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.Store.ChatMessages().ListMessagesBySession(ctx, sessionID)
}
