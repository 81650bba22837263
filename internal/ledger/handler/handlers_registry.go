package handler

import (
	"net/http"

	"humanproof/internal/ledger/service"
	"humanproof/internal/platform/middleware"
)

type initializeRequest struct {
	VerificationFee           uint64 `json:"verification_fee"`
	MinBehavioralScore        uint8  `json:"min_behavioral_score"`
	MaxSessionDuration        int64  `json:"max_session_duration"`
	MaxInteractionsPerSession uint32 `json:"max_interactions_per_session"`
}

// handleInitialize creates the registry with the caller as authority.
func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req initializeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reg, err := h.svc.Initialize(ctx, caller, service.InitializeParams{
		VerificationFee:           req.VerificationFee,
		MinBehavioralScore:        req.MinBehavioralScore,
		MaxSessionDuration:        req.MaxSessionDuration,
		MaxInteractionsPerSession: req.MaxInteractionsPerSession,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "initialize rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistryResponse(reg))
}

func (h *Handler) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.GetRegistry(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistryResponse(reg))
}

func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}
