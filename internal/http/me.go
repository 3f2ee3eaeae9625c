package http

import (
	"net/http"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/service"
	"github.com/lawhelp/lawhelp/pkg/httpx"
	"github.com/lawhelp/lawhelp/pkg/slogx"
)

// MeHandler returns the authenticated user's own profile.
type MeHandler struct {
	IdentityService  *service.IdentityService
	TwoFactorService *service.TwoFactorService
}

type meResponse struct {
	domain.PublicUser
	BackupCodesRemaining int `json:"backup_codes_remaining"`
}

// ServeHTTP handles GET /v1/me
//
//	@Summary		Current user
//	@Description	Returns the authenticated user's profile and how many backup codes remain.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	meResponse
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing session token"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	user, err := h.IdentityService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	resp := meResponse{PublicUser: user.Public()}
	if user.TwoFactorEnabled {
		if remaining, err := h.TwoFactorService.BackupCodesRemaining(ctx, userID); err == nil {
			resp.BackupCodesRemaining = remaining
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
