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

// TwoFactorHandler handles TOTP enrollment and login challenge completion.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

type totpCodeRequest struct {
	Code string `json:"code"`
}

type completeChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
	Method      string `json:"method"` // totp | backup_code
	Code        string `json:"code"`
}

type backupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

// HandleSetup handles POST /v1/auth/2fa/setup
//
//	@Summary		Start TOTP enrollment
//	@Description	Generates a TOTP secret, otpauth URL, and the backup codes. All are shown exactly once; 2FA is not active until confirmed with a valid code.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.TwoFactorSetup	"Secret, QR code URL, and backup codes (shown once)"
//	@Failure		400	{object}	httpx.ErrorBody			"2FA already enabled"
//	@Failure		401	{object}	httpx.ErrorBody			"Invalid or missing session token"
//	@Router			/v1/auth/2fa/setup [post].
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	setup, err := h.TwoFactorService.Setup(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTwoFactorAlreadyEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "already_enabled", "Two-factor authentication is already enabled")
		return
	default:
		log.Error("2fa setup failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, setup)
}

// HandleConfirm handles POST /v1/auth/2fa/confirm
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Validates the first TOTP code against the pending secret and enables 2FA.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	totpCodeRequest	true	"TOTP code"
//	@Success		204		"2FA enabled"
//	@Failure		400		{object}	httpx.ErrorBody	"Invalid code, no pending setup, or setup expired"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid or missing session token"
//	@Router			/v1/auth/2fa/confirm [post].
func (h *TwoFactorHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.TwoFactorService.Confirm(ctx, userID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTwoFactorAlreadyEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "already_enabled", "Two-factor authentication is already enabled")
		return
	case errors.Is(err, service.ErrNoPendingSetup):
		httpx.WriteError(w, http.StatusBadRequest, "no_pending_setup", "No two-factor setup in progress")
		return
	case errors.Is(err, service.ErrPendingSetupExpired):
		httpx.WriteError(w, http.StatusBadRequest, "setup_expired", "Two-factor setup has expired; start again")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid TOTP code")
		return
	default:
		log.Error("2fa confirm failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleComplete handles POST /v1/auth/2fa/complete
//
//	@Summary		Complete a login challenge
//	@Description	Finishes a two-step login with a TOTP code or a backup code and returns the session token.
//	@Tags			TwoFactor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		completeChallengeRequest	true	"Challenge reference, method, and code"
//	@Success		200		{object}	sessionResponse
//	@Failure		400		{object}	httpx.ErrorBody	"Unsupported method"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid code, expired challenge, or too many attempts"
//	@Router			/v1/auth/2fa/complete [post].
func (h *TwoFactorHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req completeChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	session, user, err := h.TwoFactorService.CompleteChallenge(
		ctx, req.ChallengeID, domain.TwoFactorMethod(req.Method), req.Code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnsupportedMethod):
		httpx.WriteError(w, http.StatusBadRequest, "unsupported_method", "Unsupported second-factor method")
		return
	case errors.Is(err, service.ErrChallengeNotFound):
		httpx.WriteError(w, http.StatusUnauthorized, "challenge_not_found", "Login challenge not found or expired")
		return
	case errors.Is(err, service.ErrTooManyAttempts):
		httpx.WriteError(w, http.StatusUnauthorized, "too_many_attempts", "Too many failed attempts; log in again")
		return
	case errors.Is(err, service.ErrBackupCodesExhausted):
		httpx.WriteError(w, http.StatusUnauthorized, "backup_codes_exhausted", "No backup codes remain; use TOTP and regenerate them")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode), errors.Is(err, service.ErrBackupCodeInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_code", "Invalid second-factor code")
		return
	default:
		log.Error("2fa challenge completion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
		User:      user,
	})
}

// HandleRegenerateBackupCodes handles POST /v1/auth/2fa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces all backup codes after a valid TOTP code. Old codes stop working immediately.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		totpCodeRequest		true	"TOTP code"
//	@Success		200		{object}	backupCodesResponse	"New backup codes (shown once)"
//	@Failure		400		{object}	httpx.ErrorBody		"Invalid code or 2FA not enabled"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing session token"
//	@Router			/v1/auth/2fa/backup-codes [post].
func (h *TwoFactorHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	codes, err := h.TwoFactorService.RegenerateBackupCodes(ctx, userID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTwoFactorNotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "not_enabled", "Two-factor authentication is not enabled")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid TOTP code")
		return
	default:
		log.Error("backup code regeneration failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, backupCodesResponse{BackupCodes: codes})
}

// HandleDisable handles DELETE /v1/auth/2fa
//
//	@Summary		Disable two-factor authentication
//	@Description	Turns 2FA off after a valid TOTP code and deletes the remaining backup codes.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	totpCodeRequest	true	"TOTP code"
//	@Success		204		"2FA disabled"
//	@Failure		400		{object}	httpx.ErrorBody	"Invalid code or 2FA not enabled"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid or missing session token"
//	@Router			/v1/auth/2fa [delete].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.TwoFactorService.Disable(ctx, userID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTwoFactorNotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, "not_enabled", "Two-factor authentication is not enabled")
		return
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "Invalid TOTP code")
		return
	default:
		log.Error("2fa disable failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
