package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"humanproof/internal/ledger/service"
	"humanproof/internal/platform/middleware"
	"humanproof/pkg/domain"
)

type registerHumanRequest struct {
	ChallengeNonce  string `json:"challenge_nonce"`
	FingerprintHash string `json:"fingerprint_hash"`
	FeeReceiver     string `json:"fee_receiver"`
}

func (h *Handler) handleRegisterHuman(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req registerHumanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	nonce, err := domain.ParseHash32(req.ChallengeNonce)
	if err != nil {
		writeError(w, err)
		return
	}
	fingerprint, err := domain.ParseHash32(req.FingerprintHash)
	if err != nil {
		writeError(w, err)
		return
	}
	receiver, err := domain.ParseWallet(req.FeeReceiver)
	if err != nil {
		writeError(w, err)
		return
	}

	human, err := h.svc.RegisterHuman(ctx, caller, service.RegisterParams{
		ChallengeNonce:  nonce,
		FingerprintHash: fingerprint,
		FeeReceiver:     receiver,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHumanResponse(human))
}

type verifyHumanRequest struct {
	ChallengeResponse string `json:"challenge_response"`
	BehavioralScore   uint8  `json:"behavioral_score"`
	VerificationLevel uint8  `json:"verification_level"`
}

func (h *Handler) handleVerifyHuman(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	verifier, ok := h.caller(w, r)
	if !ok {
		return
	}
	wallet, err := domain.ParseWallet(chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req verifyHumanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	response, err := domain.ParseHash32(req.ChallengeResponse)
	if err != nil {
		writeError(w, err)
		return
	}

	human, err := h.svc.VerifyHuman(ctx, verifier, wallet, service.VerifyParams{
		ChallengeResponse: response,
		BehavioralScore:   req.BehavioralScore,
		VerificationLevel: req.VerificationLevel,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "verification rejected",
			"request_id", middleware.GetRequestID(ctx),
			"wallet", wallet.String(),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHumanResponse(human))
}

func (h *Handler) handleGetHuman(w http.ResponseWriter, r *http.Request) {
	wallet, err := domain.ParseWallet(chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, err)
		return
	}
	human, err := h.svc.GetHuman(r.Context(), wallet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHumanResponse(human))
}
