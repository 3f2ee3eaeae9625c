package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lawhelp/lawhelp/internal/observability/metrics"
	"github.com/lawhelp/lawhelp/internal/service"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/pkg/httpx"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
	"github.com/lawhelp/lawhelp/pkg/slogx"

	_ "github.com/lawhelp/lawhelp/api" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Recorder

	store            store.Store
	IdentityService  *service.IdentityService
	TwoFactorService *service.TwoFactorService
	ChatService      *service.ChatService
	LawyerService    *service.LawyerService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      recorder,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if recorder != nil {
		r.middlewares = append(r.middlewares, recorder.Middleware)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTwoFactor()
	r.registerMe()
	r.registerChat()
	r.registerLawyers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			LawHelp API
//	@version		0.1.0
//	@description	Legal assistance platform backend: account registration with email
//	@description	verification, TOTP two-factor authentication with backup codes,
//	@description	legal chat sessions, and a lawyer directory.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{IdentityService: r.IdentityService}

	// POST /auth/register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/verify-email - strict rate limit by IP (code guessing)
	r.Mux.Handle("POST /v1/auth/verify-email",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/resend-verification - strict rate limit by IP (mail flood)
	r.Mux.Handle("POST /v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactorService: r.TwoFactorService}

	// POST /auth/2fa/setup - moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/2fa/setup",
		httpx.Chain(http.HandlerFunc(h.HandleSetup),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /auth/2fa/confirm - strict rate limit by user (TOTP brute force)
	r.Mux.Handle("POST /v1/auth/2fa/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// POST /auth/2fa/complete - strict rate limit by IP (pre-session endpoint)
	r.Mux.Handle("POST /v1/auth/2fa/complete",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/2fa/backup-codes - moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/2fa/backup-codes",
		httpx.Chain(http.HandlerFunc(h.HandleRegenerateBackupCodes),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// DELETE /auth/2fa - moderate rate limit by user
	r.Mux.Handle("DELETE /v1/auth/2fa",
		httpx.Chain(http.HandlerFunc(h.HandleDisable),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{
		IdentityService:  r.IdentityService,
		TwoFactorService: r.TwoFactorService,
	}

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerChat() {
	h := &ChatHandler{ChatService: r.ChatService}

	authed := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /v1/chat/sessions", authed(h.HandleCreateSession))
	r.Mux.Handle("GET /v1/chat/sessions", authed(h.HandleListSessions))
	r.Mux.Handle("GET /v1/chat/sessions/{id}", authed(h.HandleGetSession))
	r.Mux.Handle("DELETE /v1/chat/sessions/{id}", authed(h.HandleDeleteSession))
	r.Mux.Handle("POST /v1/chat/sessions/{id}/messages", authed(h.HandlePostMessage))
	r.Mux.Handle("GET /v1/chat/sessions/{id}/messages", authed(h.HandleListMessages))
}

func (r *Router) registerLawyers() {
	h := &LawyersHandler{LawyerService: r.LawyerService}

	// Public directory listing - lenient rate limit by IP
	r.Mux.Handle("GET /v1/lawyers",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/lawyers/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Publishing requires a session
	r.Mux.Handle("PUT /v1/lawyers/me",
		httpx.Chain(http.HandlerFunc(h.HandlePublish),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
