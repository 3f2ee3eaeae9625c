package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lawhelp/lawhelp/internal/service"
	"github.com/lawhelp/lawhelp/pkg/httpx"
	"github.com/lawhelp/lawhelp/pkg/slogx"
)

// ChatHandler handles legal-assistance chat sessions and messages.
type ChatHandler struct {
	ChatService *service.ChatService
}

type createSessionRequest struct {
	Title string `json:"title"`
}

type postMessageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// HandleCreateSession handles POST /v1/chat/sessions
//
//	@Summary	Create a chat session
//	@Tags		Chat
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createSessionRequest	true	"Session title (optional)"
//	@Success	201		{object}	domain.ChatSession
//	@Failure	401		{object}	httpx.ErrorBody	"Invalid or missing session token"
//	@Router		/v1/chat/sessions [post].
func (h *ChatHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	session, err := h.ChatService.CreateSession(ctx, userID, req.Title)
	if err != nil {
		log.Error("failed to create chat session", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, session)
}

// HandleListSessions handles GET /v1/chat/sessions
//
//	@Summary	List chat sessions
//	@Tags		Chat
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		domain.ChatSession
//	@Failure	401	{object}	httpx.ErrorBody	"Invalid or missing session token"
//	@Router		/v1/chat/sessions [get].
func (h *ChatHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	sessions, err := h.ChatService.ListSessions(ctx, userID)
	if err != nil {
		log.Error("failed to list chat sessions", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessions)
}

// HandleGetSession handles GET /v1/chat/sessions/{id}
//
//	@Summary	Get one chat session
//	@Tags		Chat
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	domain.ChatSession
//	@Failure	404	{object}	httpx.ErrorBody	"Session not found"
//	@Router		/v1/chat/sessions/{id} [get].
func (h *ChatHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	session, err := h.ChatService.GetSession(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeChatError(w, ctx, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, session)
}

// HandleDeleteSession handles DELETE /v1/chat/sessions/{id}
//
//	@Summary	Delete a chat session
//	@Tags		Chat
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Session ID"
//	@Success	204	"Session and its messages deleted"
//	@Failure	404	{object}	httpx.ErrorBody	"Session not found"
//	@Router		/v1/chat/sessions/{id} [delete].
func (h *ChatHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	if err := h.ChatService.DeleteSession(ctx, userID, r.PathValue("id")); err != nil {
		writeChatError(w, ctx, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePostMessage handles POST /v1/chat/sessions/{id}/messages
//
//	@Summary	Post a message
//	@Tags		Chat
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Session ID"
//	@Param		request	body		postMessageRequest	true	"Message"
//	@Success	201		{object}	domain.ChatMessage
//	@Failure	400		{object}	httpx.ErrorBody	"Empty or oversized message"
//	@Failure	404		{object}	httpx.ErrorBody	"Session not found"
//	@Router		/v1/chat/sessions/{id}/messages [post].
func (h *ChatHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	message, err := h.ChatService.PostMessage(ctx, userID, r.PathValue("id"), req.Sender, req.Content)
	if err != nil {
		writeChatError(w, ctx, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, message)
}

// HandleListMessages handles GET /v1/chat/sessions/{id}/messages
//
//	@Summary	List messages
//	@Tags		Chat
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{array}		domain.ChatMessage
//	@Failure	404	{object}	httpx.ErrorBody	"Session not found"
//	@Router		/v1/chat/sessions/{id}/messages [get].
func (h *ChatHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	messages, err := h.ChatService.ListMessages(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeChatError(w, ctx, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messages)
}

func writeChatError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		httpx.WriteError(w, http.StatusNotFound, "session_not_found", "Chat session not found")
	case errors.Is(err, service.ErrEmptyMessage):
		httpx.WriteError(w, http.StatusBadRequest, "empty_message", "Message content is empty")
	case errors.Is(err, service.ErrMessageTooLong):
		httpx.WriteError(w, http.StatusBadRequest, "message_too_long", "Message content is too long")
	default:
		slogx.FromContext(ctx).Error("chat operation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
