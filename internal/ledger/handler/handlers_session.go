package handler

import (
	"net/http"

	"humanproof/internal/ledger/service"
	"humanproof/internal/platform/middleware"
	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

type createSessionRequest struct {
	PersonalityID uint8  `json:"personality_id"`
	InitialTopic  string `json:"initial_topic"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	topic, err := domain.ParseHash32(req.InitialTopic)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.svc.CreateSession(ctx, caller, service.CreateSessionParams{
		PersonalityID: req.PersonalityID,
		InitialTopic:  topic,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "session creation rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	index, ok := pathUint64(w, r, "index")
	if !ok {
		return
	}

	sess, err := h.svc.CloseSession(r.Context(), caller, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

type extendSessionRequest struct {
	AdditionalSeconds int64 `json:"additional_seconds"`
}

func (h *Handler) handleExtendSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	index, ok := pathUint64(w, r, "index")
	if !ok {
		return
	}

	var req extendSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AdditionalSeconds <= 0 {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "additional_seconds must be positive"))
		return
	}

	sess, err := h.svc.ExtendSession(r.Context(), caller, index, req.AdditionalSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

type recordInteractionRequest struct {
	ContentHash     string `json:"content_hash"`
	InteractionType uint8  `json:"interaction_type"`
	Score           uint8  `json:"score"`
	DurationSeconds uint32 `json:"duration_seconds"`
}

func (h *Handler) handleRecordInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	index, ok := pathUint64(w, r, "index")
	if !ok {
		return
	}

	var req recordInteractionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	contentHash, err := domain.ParseHash32(req.ContentHash)
	if err != nil {
		writeError(w, err)
		return
	}

	interaction, err := h.svc.RecordInteraction(ctx, caller, index, service.InteractionParams{
		ContentHash:     contentHash,
		InteractionType: req.InteractionType,
		Score:           req.Score,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "interaction rejected",
			"request_id", middleware.GetRequestID(ctx),
			"session_index", index,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInteractionResponse(interaction))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	index, ok := pathUint64(w, r, "index")
	if !ok {
		return
	}

	sess, err := h.svc.GetSession(r.Context(), caller, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) handleGetInteraction(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	index, ok := pathUint64(w, r, "index")
	if !ok {
		return
	}
	interactionIndex, ok := pathUint64(w, r, "interaction")
	if !ok {
		return
	}
	if interactionIndex > uint64(^uint32(0)) {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid interaction"))
		return
	}

	interaction, err := h.svc.GetInteraction(r.Context(), caller, index, uint32(interactionIndex))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInteractionResponse(interaction))
}
