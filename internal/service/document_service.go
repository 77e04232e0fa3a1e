package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/internal/config"
	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/logger"
	"github.com/segyhp/settlement-engine/internal/repository"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
	"github.com/segyhp/settlement-engine/pkg/utils"
)

type DocumentService struct {
	DocumentRepo repository.DocumentRepository
	ContractRepo repository.ContractRepository
	AgentRepo    repository.AgentRepository
	sequences    repository.SequenceAllocator
	config       *config.Config
	now          func() time.Time
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	contractRepo repository.ContractRepository,
	agentRepo repository.AgentRepository,
	sequences repository.SequenceAllocator,
	config *config.Config,
) *DocumentService {
	return &DocumentService{
		DocumentRepo: documentRepo,
		ContractRepo: contractRepo,
		AgentRepo:    agentRepo,
		sequences:    sequences,
		config:       config,
		now:          time.Now,
	}
}

// sequenceError classifies a failed number allocation by the backend serving it
func (s *DocumentService) sequenceError(err error) error {
	if s.config.Business.SequenceBackend == config.SequenceBackendRedis {
		return customError.WrapCacheError(err)
	}
	return customError.WrapDatabaseError(err)
}

// Create persists a new end-of-work document on behalf of actorID
func (s *DocumentService) Create(ctx context.Context, request *domain.CreateDocumentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error) {
	// 1. Resolve references before a number is spent on them
	agent, err := s.AgentRepo.GetByID(ctx, request.AgentID)
	if err != nil {
		return nil, agentError(err, request.AgentID)
	}
	if _, err := s.ContractRepo.GetByID(ctx, request.WorkContractID); err != nil {
		return nil, contractError(err, request.WorkContractID)
	}

	settlement := domain.FinancialSettlement{}
	if request.FinancialSettlement != nil {
		settlement = request.FinancialSettlement.ToSettlement()
	}
	if err := settlement.Validate(); err != nil {
		return nil, customError.WrapValidation(err.Error(), err)
	}

	now := s.now()

	// 2. Assign a document number
	number := strings.TrimSpace(request.DocumentNumber)
	if utils.IsBlank(number) {
		year := now.Year()
		sequence, err := s.sequences.Next(ctx, year)
		if err != nil {
			return nil, s.sequenceError(err)
		}
		number = utils.FormatDocumentNumber(year, sequence)
	} else {
		exists, err := s.DocumentRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		if exists {
			return nil, customError.WrapDuplicateDocumentNumber(number)
		}
	}

	doc := &domain.EndOfWorkDocument{
		ID:                  uuid.New(),
		DocumentNumber:      number,
		AgentID:             request.AgentID,
		WorkContractID:      request.WorkContractID,
		TerminationType:     request.TerminationType,
		TerminationDate:     request.TerminationDate,
		LastWorkingDay:      request.LastWorkingDay,
		NoticePeriodStart:   request.NoticePeriodStart,
		NoticePeriodEnd:     request.NoticePeriodEnd,
		Reason:              request.Reason,
		SeniorityPeriod:     request.SeniorityPeriod,
		MonthsWorked:        request.MonthsWorked,
		FinancialSettlement: settlement,
		PaymentStatus:       domain.PaymentStatusPending,
		ReturnedItems:       request.ReturnedItems,
		DocumentsReturned:   request.DocumentsReturned,
		AdministrativeNotes: request.AdministrativeNotes,
		CreatedBy:           actorID,
		Version:             1,
		CreatedAt:           now,
	}
	if doc.ReturnedItems == nil {
		doc.ReturnedItems = []domain.ReturnedItem{}
	}
	if doc.DocumentsReturned == nil {
		doc.DocumentsReturned = []string{}
	}
	doc.Touch(now)

	// 3. Save; the unique index settles any race on the number
	if err := s.DocumentRepo.Create(ctx, doc); err != nil {
		if errors.Is(err, customError.ErrDuplicateKey) {
			return nil, customError.WrapDuplicateDocumentNumber(number)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	doc.AgentName = agent.DisplayName()
	return doc, nil
}

// List returns one page of documents, newest termination first
func (s *DocumentService) List(ctx context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error) {
	filter.Page, filter.Limit = utils.NormalizePage(
		filter.Page, filter.Limit,
		s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize,
	)

	docs, total, err := s.DocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if docs == nil {
		docs = []*domain.EndOfWorkDocument{}
	}

	return &domain.DocumentPage{
		Documents: docs,
		Page:      filter.Page,
		Limit:     filter.Limit,
		Total:     total,
		Pages:     utils.TotalPages(total, filter.Limit),
	}, nil
}

// Get returns a document with its agent and contract resolved
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	doc, err := s.DocumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, documentError(err, id)
	}

	agent, err := s.AgentRepo.GetByID(ctx, doc.AgentID)
	switch {
	case err == nil:
		doc.Agent = agent
		doc.AgentName = agent.DisplayName()
	case !errors.Is(err, customError.ErrAgentNotFound):
		return nil, customError.WrapDatabaseError(err)
	}

	contract, err := s.ContractRepo.GetByID(ctx, doc.WorkContractID)
	switch {
	case err == nil:
		doc.Contract = contract
	case !errors.Is(err, customError.ErrContractNotFound):
		return nil, customError.WrapDatabaseError(err)
	}

	return doc, nil
}

// Update merges the allow-listed fields of request into the document
func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateDocumentRequest) (*domain.EndOfWorkDocument, error) {
	doc, err := s.DocumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, documentError(err, id)
	}

	now := s.now()
	expected := doc.Version
	request.Apply(doc, now)
	doc.Touch(now)

	if err := s.DocumentRepo.Update(ctx, doc, expected); err != nil {
		return nil, documentError(err, id)
	}
	return doc, nil
}

// CalculateFinancialRights rebuilds the settlement from the linked contract.
// Whether recorded payments survive depends on the recalculation policy.
func (s *DocumentService) CalculateFinancialRights(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	doc, err := s.DocumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, documentError(err, id)
	}

	contract, err := s.ContractRepo.GetByID(ctx, doc.WorkContractID)
	if err != nil {
		return nil, contractError(err, doc.WorkContractID)
	}

	fresh := CalculateSettlement(contract.FinancialRights, contract.Salary.BaseSalary, s.config.Business.LeaveMonthDays)
	doc.FinancialSettlement = ApplyRecalculation(doc.FinancialSettlement, fresh, s.config.Business.RecalculationPolicy)
	doc.PaymentStatus = RecalculatedStatus(doc.FinancialSettlement)

	now := s.now()
	expected := doc.Version
	doc.Touch(now)

	if err := s.DocumentRepo.Update(ctx, doc, expected); err != nil {
		return nil, documentError(err, id)
	}
	return doc, nil
}

// RecordPayment adds a payment to the document and journals it.
// A concurrent write is detected by the version check and the payment is
// reapplied on a fresh copy, up to the configured number of retries.
func (s *DocumentService) RecordPayment(ctx context.Context, id uuid.UUID, request *domain.RecordPaymentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) || !utils.IsWholeCents(request.Amount) {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	log := logger.FromContext(ctx)
	attempts := s.config.Business.PaymentRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		doc, err := s.DocumentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, documentError(err, id)
		}

		now := s.now()
		expected := doc.Version
		if err := ApplyPayment(doc, request.Amount, request.PaymentMethod, request.PaymentReference, now, s.config.Business.OverpaymentPolicy); err != nil {
			return nil, err
		}

		payment := &domain.SettlementPayment{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			Amount:     request.Amount,
			Method:     request.PaymentMethod,
			Reference:  request.PaymentReference,
			PaidAt:     now,
			RecordedBy: actorID,
		}

		err = s.DocumentRepo.RecordPayment(ctx, doc, expected, payment)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, customError.ErrVersionConflict) {
			return nil, documentError(err, id)
		}

		log.Debug().
			Str("document_id", id.String()).
			Int("attempt", attempt).
			Msg("payment lost a version race, retrying")
	}

	return nil, customError.WrapConcurrentModification(id.String())
}

// Payments returns the payment journal of a document
func (s *DocumentService) Payments(ctx context.Context, id uuid.UUID) ([]*domain.SettlementPayment, error) {
	if _, err := s.DocumentRepo.GetByID(ctx, id); err != nil {
		return nil, documentError(err, id)
	}

	payments, err := s.DocumentRepo.ListPayments(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// RenderData returns the fully resolved document handed to a PDF renderer
func (s *DocumentService) RenderData(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	return s.Get(ctx, id)
}

// Delete hard-deletes a document whatever its payment status
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.DocumentRepo.Delete(ctx, id); err != nil {
		return documentError(err, id)
	}
	return nil
}

// RecalculatedStatus is the payment status after a recalculation. A wiped
// settlement goes back to pending.
func RecalculatedStatus(settlement domain.FinancialSettlement) domain.PaymentStatus {
	if !settlement.PaidAmount.IsPositive() {
		return domain.PaymentStatusPending
	}
	return domain.DerivePaymentStatus(settlement.TotalAmount, settlement.PaidAmount)
}

func documentError(err error, id uuid.UUID) error {
	var be *customError.BusinessError
	switch {
	case errors.As(err, &be):
		return err
	case errors.Is(err, customError.ErrDocumentNotFound):
		return customError.WrapDocumentNotFound(id.String())
	case errors.Is(err, customError.ErrVersionConflict):
		return customError.WrapConcurrentModification(id.String())
	default:
		return customError.WrapDatabaseError(err)
	}
}

func contractError(err error, id uuid.UUID) error {
	if errors.Is(err, customError.ErrContractNotFound) {
		return customError.WrapContractNotFound(id.String())
	}
	return customError.WrapDatabaseError(err)
}

func agentError(err error, id uuid.UUID) error {
	if errors.Is(err, customError.ErrAgentNotFound) {
		return customError.WrapAgentNotFound(id.String())
	}
	return customError.WrapDatabaseError(err)
}
