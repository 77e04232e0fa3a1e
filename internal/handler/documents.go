package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/settlement-engine/internal/ctxkeys"
	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/logger"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
	"github.com/segyhp/settlement-engine/pkg/response"
)

// DocumentService is the document lifecycle used by DocumentHandler
type DocumentService interface {
	Create(ctx context.Context, request *domain.CreateDocumentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error)
	List(ctx context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error)
	Update(ctx context.Context, id uuid.UUID, request *domain.UpdateDocumentRequest) (*domain.EndOfWorkDocument, error)
	CalculateFinancialRights(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error)
	RecordPayment(ctx context.Context, id uuid.UUID, request *domain.RecordPaymentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error)
	Payments(ctx context.Context, id uuid.UUID) ([]*domain.SettlementPayment, error)
	RenderData(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Renderer produces the printable form of a fully resolved document
type Renderer interface {
	Render(ctx context.Context, doc *domain.EndOfWorkDocument) ([]byte, error)
}

type DocumentHandler struct {
	service   DocumentService
	renderer  Renderer
	validator *validator.Validate
	timeout   time.Duration
}

// NewDocumentHandler creates a handler. renderer may be nil, in which case
// the PDF route answers 501.
func NewDocumentHandler(service DocumentService, renderer Renderer, timeout time.Duration) *DocumentHandler {
	return &DocumentHandler{
		service:   service,
		renderer:  renderer,
		validator: NewValidator(),
		timeout:   timeout,
	}
}

// Create handles POST /end-of-work-documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDocumentRequest
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

	doc, err := h.service.Create(ctx, &req, ctxkeys.GetUserID(r.Context()))
	if err != nil {
		writeError(r.Context(), w, err, "create document")
		return
	}

	response.Created(w, "End-of-work document created", doc)
}

// List handles GET /end-of-work-documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.DocumentFilter{}

	if raw := query.Get("agentId"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "agentId must be a UUID")
			return
		}
		filter.AgentID = &agentID
	}

	if raw := query.Get("paymentStatus"); raw != "" {
		status := domain.PaymentStatus(raw)
		switch status {
		case domain.PaymentStatusPending, domain.PaymentStatusPartial, domain.PaymentStatusCompleted:
			filter.PaymentStatus = status
		default:
			response.BadRequest(w, "paymentStatus must be one of pending, partial, completed")
			return
		}
	}

	var err error
	if filter.Page, err = intParam(query.Get("page")); err != nil {
		response.BadRequest(w, "page must be a number")
		return
	}
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		response.BadRequest(w, "limit must be a number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := h.service.List(ctx, filter)
	if err != nil {
		writeError(r.Context(), w, err, "list documents")
		return
	}

	response.Paginated(w, "End-of-work documents retrieved", page.Documents, response.Pagination{
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Pages: page.Pages,
	})
}

// Get handles GET /end-of-work-documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, err := h.service.Get(ctx, id)
	if err != nil {
		writeError(r.Context(), w, err, "get document")
		return
	}

	response.Success(w, "End-of-work document retrieved", doc)
}

// Update handles PUT /end-of-work-documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateDocumentRequest
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

	doc, err := h.service.Update(ctx, id, &req)
	if err != nil {
		writeError(r.Context(), w, err, "update document")
		return
	}

	response.Success(w, "End-of-work document updated", doc)
}

// CalculateFinancialRights handles POST /end-of-work-documents/{id}/calculate-financial-rights
func (h *DocumentHandler) CalculateFinancialRights(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, err := h.service.CalculateFinancialRights(ctx, id)
	if err != nil {
		writeError(r.Context(), w, err, "calculate financial rights")
		return
	}

	response.Success(w, "Financial rights calculated", doc)
}

// RecordPayment handles POST /end-of-work-documents/{id}/payment
func (h *DocumentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.RecordPaymentRequest
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

	doc, err := h.service.RecordPayment(ctx, id, &req, ctxkeys.GetUserID(r.Context()))
	if err != nil {
		writeError(r.Context(), w, err, "record payment")
		return
	}

	response.Success(w, "Payment recorded", doc)
}

// Payments handles GET /end-of-work-documents/{id}/payments
func (h *DocumentHandler) Payments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payments, err := h.service.Payments(ctx, id)
	if err != nil {
		writeError(r.Context(), w, err, "list payments")
		return
	}

	response.Success(w, "Payments retrieved", payments)
}

// PDF handles GET /end-of-work-documents/{id}/pdf.
// ?download=true sends an attachment, anything else renders inline.
func (h *DocumentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if h.renderer == nil {
		response.Error(w, http.StatusNotImplemented, "PDF rendering is not configured", "PDF_UNAVAILABLE")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, err := h.service.RenderData(ctx, id)
	if err != nil {
		writeError(r.Context(), w, err, "load document for rendering")
		return
	}

	body, err := h.renderer.Render(ctx, doc)
	if err != nil {
		writeError(r.Context(), w, err, "render document")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s.pdf", pdfDisposition(r.URL.Query()), doc.DocumentNumber))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// pdfDisposition serves inline unless download=true or view=false is asked for
func pdfDisposition(query url.Values) string {
	if download, _ := strconv.ParseBool(query.Get("download")); download {
		return "attachment"
	}
	if view, err := strconv.ParseBool(query.Get("view")); err == nil && !view {
		return "attachment"
	}
	return "inline"
}

// Delete handles DELETE /end-of-work-documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		writeError(r.Context(), w, err, "delete document")
		return
	}

	response.Success(w, "End-of-work document deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// writeError maps err to its HTTP status and logs anything unexpected
func writeError(ctx context.Context, w http.ResponseWriter, err error, action string) {
	status := customError.HTTPStatus(err)
	code := ""
	var be *customError.BusinessError
	if errors.As(err, &be) {
		code = be.Code
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(ctx).Error().Err(err).Str("action", action).Msg("request failed")
	}

	response.Error(w, status, customError.Message(err), code)
}
