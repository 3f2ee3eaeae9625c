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

// LawyersHandler serves the public lawyer directory.
type LawyersHandler struct {
	LawyerService *service.LawyerService
}

type publishProfileRequest struct {
	Name            string  `json:"name"`
	Specialty       string  `json:"specialty"`
	Location        string  `json:"location"`
	YearsExperience int     `json:"years_experience"`
	Rating          float64 `json:"rating"`
}

// HandleList handles GET /v1/lawyers
//
//	@Summary	List lawyers
//	@Description	Public directory listing, filterable by specialty and location.
//	@Tags		Lawyers
//	@Produce	json
//	@Param		specialty	query		string	false	"Filter by specialty"
//	@Param		location	query		string	false	"Filter by location"
//	@Success	200			{array}		domain.LawyerProfile
//	@Router		/v1/lawyers [get].
func (h *LawyersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	filter := domain.LawyerFilter{
		Specialty: r.URL.Query().Get("specialty"),
		Location:  r.URL.Query().Get("location"),
	}

	profiles, err := h.LawyerService.List(ctx, filter)
	if err != nil {
		log.Error("failed to list lawyers", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profiles)
}

// HandleGet handles GET /v1/lawyers/{id}
//
//	@Summary	Get one lawyer profile
//	@Tags		Lawyers
//	@Produce	json
//	@Param		id	path		string	true	"Lawyer user ID"
//	@Success	200	{object}	domain.LawyerProfile
//	@Failure	404	{object}	httpx.ErrorBody	"Profile not found"
//	@Router		/v1/lawyers/{id} [get].
func (h *LawyersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profile, err := h.LawyerService.GetProfile(ctx, r.PathValue("id"))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrProfileNotFound):
		httpx.WriteError(w, http.StatusNotFound, "profile_not_found", "Lawyer profile not found")
		return
	default:
		log.Error("failed to load lawyer profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}

// HandlePublish handles PUT /v1/lawyers/me
//
//	@Summary	Publish or update own directory entry
//	@Tags		Lawyers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		publishProfileRequest	true	"Profile details"
//	@Success	200		{object}	domain.LawyerProfile
//	@Failure	403		{object}	httpx.ErrorBody	"Account is not flagged as a lawyer"
//	@Router		/v1/lawyers/me [put].
func (h *LawyersHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Missing or invalid session token")
		return
	}

	var req publishProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	profile, err := h.LawyerService.PublishProfile(ctx, userID, domain.LawyerProfile{
		Name:            req.Name,
		Specialty:       req.Specialty,
		Location:        req.Location,
		YearsExperience: req.YearsExperience,
		Rating:          req.Rating,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotALawyer):
		httpx.WriteError(w, http.StatusForbidden, "not_a_lawyer", "Account is not flagged as a lawyer")
		return
	default:
		log.Error("failed to publish lawyer profile", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}
