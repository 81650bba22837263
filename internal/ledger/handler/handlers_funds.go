package handler

import (
	"net/http"

	"humanproof/internal/platform/middleware"
	"humanproof/pkg/domain"
)

type depositRequest struct {
	Wallet string `json:"wallet"`
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Wallet  string `json:"wallet"`
	Balance uint64 `json:"balance"`
}

// handleDeposit credits a wallet. The service rejects callers other than
// the registry authority.
func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req depositRequest
	if !decodeBody(w, r, &req) {
		return
	}
	wallet, err := domain.ParseWallet(req.Wallet)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Deposit(ctx, caller, wallet, req.Amount); err != nil {
		h.logger.WarnContext(ctx, "deposit rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	balance, err := h.svc.GetBalance(ctx, wallet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Wallet: wallet.String(), Balance: balance})
}

// handleGetBalance returns the caller's own balance.
func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	balance, err := h.svc.GetBalance(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Wallet: caller.String(), Balance: balance})
}
