package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/segyhp/settlement-engine/internal/ctxkeys"
	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/pkg/response"
)

// RecruitmentService is the conversion guard used by RecruitmentHandler
type RecruitmentService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error)
	Update(ctx context.Context, id uuid.UUID, request *domain.UpdateRecruitmentRequest, actorID uuid.UUID) (*domain.Recruitment, error)
	ConvertToAgent(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*domain.ConversionResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecruitmentHandler struct {
	service   RecruitmentService
	validator *validator.Validate
	timeout   time.Duration
}

func NewRecruitmentHandler(service RecruitmentService, timeout time.Duration) *RecruitmentHandler {
	return &RecruitmentHandler{
		service:   service,
		validator: NewValidator(),
		timeout:   timeout,
	}
}

// Get handles GET /recruitments/{id}
func (h *RecruitmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rec, err := h.service.Get(ctx, id)
	if err != nil {
		writeError(r.Context(), w, err, "get recruitment")
		return
	}

	response.Success(w, "Recruitment retrieved", rec)
}

// Update handles PUT /recruitments/{id}
func (h *RecruitmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateRecruitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rec, err := h.service.Update(ctx, id, &req, ctxkeys.GetUserID(r.Context()))
	if err != nil {
		writeError(r.Context(), w, err, "update recruitment")
		return
	}

	response.Success(w, "Recruitment updated", rec)
}

// Convert handles POST /recruitments/{id}/convert
func (h *RecruitmentHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.ConvertToAgent(ctx, id, ctxkeys.GetUserID(r.Context()))
	if err != nil {
		writeError(r.Context(), w, err, "convert recruitment")
		return
	}

	response.Success(w, "Recruitment converted to agent", result)
}

// Delete handles DELETE /recruitments/{id}
func (h *RecruitmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		writeError(r.Context(), w, err, "delete recruitment")
		return
	}

	response.Success(w, "Recruitment deleted", nil)
}
