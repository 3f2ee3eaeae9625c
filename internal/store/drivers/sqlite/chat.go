package sqlite

import (
	"context"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
)

type chatSessionsRepo struct {
	db dbtx
}

func (r *chatSessionsRepo) CreateSession(ctx context.Context, s domain.ChatSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Title, s.CreatedAt, s.UpdatedAt)
	return mapConstraint(err)
}

func (r *chatSessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.ChatSession, error) {
	var s domain.ChatSession
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.ChatSession{}, mapNotFound(err)
	}
	return s, nil
}

func (r *chatSessionsRepo) ListSessionsByUser(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ChatSession{}
	for rows.Next() {
		var s domain.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *chatSessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, at, id)
	return err
}

func (r *chatSessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_sessions WHERE id = ?`, id)
	return err
}

type chatMessagesRepo struct {
	db dbtx
}

func (r *chatMessagesRepo) CreateMessage(ctx context.Context, m domain.ChatMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, user_id, sender, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.UserID, m.Sender, m.Content, m.CreatedAt)
	return mapConstraint(err)
}

func (r *chatMessagesRepo) ListMessagesBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, user_id, sender, content, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
