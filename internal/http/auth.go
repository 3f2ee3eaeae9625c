package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/service"
	"github.com/lawhelp/lawhelp/pkg/httpx"
	"github.com/lawhelp/lawhelp/pkg/slogx"
)

// AuthHandler handles registration, login, and email verification.
type AuthHandler struct {
	IdentityService *service.IdentityService
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Lawyer   bool   `json:"lawyer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type sessionResponse struct {
	Token     string            `json:"token"`
	ExpiresAt int64             `json:"expires_at"`
	User      domain.PublicUser `json:"user"`
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register an account
//	@Description	Creates an account, emails a verification code, and returns a session token right away. Verification gates later actions, not login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	sessionResponse
//	@Failure		400		{object}	httpx.ErrorBody	"Weak password or invalid email"
//	@Failure		409		{object}	httpx.ErrorBody	"Email already registered"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, session, err := h.IdentityService.Register(ctx, req.Email, req.Name, req.Password, req.Lawyer)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", "An account with this email already exists")
		return
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, "weak_password", "Password does not meet the minimum requirements")
		return
	case errors.Is(err, service.ErrBadEmail):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_email", "Email address is not valid")
		return
	default:
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
		User:      user.Public(),
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in
//	@Description	Checks credentials. Returns either a session token, or a two-factor challenge when 2FA is enabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	sessionResponse	"Session token (no 2FA) or challenge"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid email or password"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	result, err := h.IdentityService.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	default:
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	if result.Challenge != nil {
		httpx.WriteJSON(w, http.StatusOK, result.Challenge)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		Token:     result.Session.Token,
		ExpiresAt: result.Session.ExpiresAt.Unix(),
		User:      result.User,
	})
}

// HandleVerifyEmail handles POST /v1/auth/verify-email
//
//	@Summary		Verify email address
//	@Description	Consumes the emailed code and marks the account verified. Codes are single use.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	verifyEmailRequest	true	"Email and code"
//	@Success		204		"Email verified"
//	@Failure		400		{object}	httpx.ErrorBody	"Invalid, expired, or already-used code"
//	@Router			/v1/auth/verify-email [post].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.IdentityService.VerifyEmail(ctx, req.Email, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, service.ErrCodeExpired),
		errors.Is(err, service.ErrCodeMismatch):
		// one uniform response so a guesser learns nothing
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid or expired verification code")
		return
	default:
		log.Error("email verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResendVerification handles POST /v1/auth/resend-verification
//
//	@Summary		Resend verification code
//	@Description	Issues a fresh code, superseding the old one. Responds 204 whether or not the email exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	verifyEmailRequest	true	"Email (code field ignored)"
//	@Success		204		"Code issued if the account exists"
//	@Router			/v1/auth/resend-verification [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.IdentityService.ResendVerification(ctx, req.Email); err != nil {
		log.Error("resend verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
