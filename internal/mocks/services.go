package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/settlement-engine/internal/domain"
)

// DocumentService is a mock of handler.DocumentService
type DocumentService struct {
	mock.Mock
}

func (m *DocumentService) Create(ctx context.Context, request *domain.CreateDocumentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, request, actorID)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) List(ctx context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentPage), args.Error(1)
}

func (m *DocumentService) Get(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateDocumentRequest) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id, request)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) CalculateFinancialRights(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) RecordPayment(ctx context.Context, id uuid.UUID, request *domain.RecordPaymentRequest, actorID uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id, request, actorID)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) Payments(ctx context.Context, id uuid.UUID) ([]*domain.SettlementPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SettlementPayment), args.Error(1)
}

func (m *DocumentService) RenderData(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id)
	return documentOrNil(args.Get(0)), args.Error(1)
}

func (m *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func documentOrNil(v interface{}) *domain.EndOfWorkDocument {
	if v == nil {
		return nil
	}
	return v.(*domain.EndOfWorkDocument)
}

// RecruitmentService is a mock of handler.RecruitmentService
type RecruitmentService struct {
	mock.Mock
}

func (m *RecruitmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recruitment), args.Error(1)
}

func (m *RecruitmentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateRecruitmentRequest, actorID uuid.UUID) (*domain.Recruitment, error) {
	args := m.Called(ctx, id, request, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recruitment), args.Error(1)
}

func (m *RecruitmentService) ConvertToAgent(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*domain.ConversionResult, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionResult), args.Error(1)
}

func (m *RecruitmentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Renderer is a mock of handler.Renderer
type Renderer struct {
	mock.Mock
}

func (m *Renderer) Render(ctx context.Context, doc *domain.EndOfWorkDocument) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
