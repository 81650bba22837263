// Package handler is the thin HTTP layer over the ledger service. It
// parses hex-encoded identities at the boundary, delegates to the service,
// and translates domain errors to JSON envelopes; no business rules live
// here.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"humanproof/internal/ledger/record"
	"humanproof/internal/ledger/service"
	"humanproof/internal/platform/metrics"
	"humanproof/internal/platform/middleware"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

// Service defines the ledger operations the HTTP layer exposes.
type Service interface {
	Initialize(ctx context.Context, caller domain.Wallet, params service.InitializeParams) (record.Registry, error)
	GetRegistry(ctx context.Context) (record.Registry, error)
	GetStats(ctx context.Context) (service.Stats, error)
	RegisterHuman(ctx context.Context, caller domain.Wallet, params service.RegisterParams) (record.HumanRecord, error)
	VerifyHuman(ctx context.Context, verifier, wallet domain.Wallet, params service.VerifyParams) (record.HumanRecord, error)
	GetHuman(ctx context.Context, wallet domain.Wallet) (record.HumanRecord, error)
	CreateSession(ctx context.Context, caller domain.Wallet, params service.CreateSessionParams) (record.Session, error)
	CloseSession(ctx context.Context, caller domain.Wallet, index uint64) (record.Session, error)
	ExtendSession(ctx context.Context, caller domain.Wallet, index uint64, additional int64) (record.Session, error)
	RecordInteraction(ctx context.Context, caller domain.Wallet, sessionIndex uint64, params service.InteractionParams) (record.Interaction, error)
	GetSession(ctx context.Context, wallet domain.Wallet, index uint64) (record.Session, error)
	GetInteraction(ctx context.Context, wallet domain.Wallet, sessionIndex uint64, interactionIndex uint32) (record.Interaction, error)
	Deposit(ctx context.Context, caller, wallet domain.Wallet, amount uint64) error
	GetBalance(ctx context.Context, wallet domain.Wallet) (uint64, error)
}

// Handler handles the ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	svc       Service
	metrics   *metrics.Metrics
	validator middleware.WalletValidator
}

// New creates a new ledger Handler.
func New(svc Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.WalletValidator) *Handler {
	return &Handler{
		logger:    logger,
		svc:       svc,
		metrics:   m,
		validator: validator,
	}
}

// Register registers all ledger routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Observe(h.metrics))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// public reads
	r.Get("/registry", h.handleGetRegistry)
	r.Get("/stats", h.handleGetStats)
	r.Get("/humans/{wallet}", h.handleGetHuman)

	// authenticated mutations and caller-scoped reads
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))

		r.Post("/registry", h.handleInitialize)
		r.Post("/humans", h.handleRegisterHuman)
		r.Post("/humans/{wallet}/verify", h.handleVerifyHuman)
		r.Post("/sessions", h.handleCreateSession)
		r.Get("/sessions/{index}", h.handleGetSession)
		r.Post("/sessions/{index}/close", h.handleCloseSession)
		r.Post("/sessions/{index}/extend", h.handleExtendSession)
		r.Post("/sessions/{index}/interactions", h.handleRecordInteraction)
		r.Get("/sessions/{index}/interactions/{interaction}", h.handleGetInteraction)
		r.Post("/funds/deposit", h.handleDeposit)
		r.Get("/funds/balance", h.handleGetBalance)
	})
}

// caller pulls the authenticated wallet out of the context. A miss means
// the auth middleware was not applied to the route.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Wallet, bool) {
	wallet, ok := middleware.GetWallet(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "wallet missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.Wallet{}, false
	}
	return wallet, true
}
