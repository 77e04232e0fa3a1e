package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/repository"
)

var (
	_ repository.DocumentRepository    = (*DocumentRepository)(nil)
	_ repository.SequenceAllocator     = (*SequenceAllocator)(nil)
	_ repository.ContractRepository    = (*ContractRepository)(nil)
	_ repository.AgentRepository       = (*AgentRepository)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.RecruitmentRepository = (*RecruitmentRepository)(nil)
)

// DocumentRepository is a mock of repository.DocumentRepository
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Create(ctx context.Context, doc *domain.EndOfWorkDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EndOfWorkDocument), args.Error(1)
}

func (m *DocumentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *DocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.EndOfWorkDocument, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.EndOfWorkDocument), args.Get(1).(int64), args.Error(2)
}

func (m *DocumentRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DocumentRepository) Update(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64) error {
	args := m.Called(ctx, doc, expectedVersion)
	return args.Error(0)
}

func (m *DocumentRepository) RecordPayment(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64, payment *domain.SettlementPayment) error {
	args := m.Called(ctx, doc, expectedVersion, payment)
	return args.Error(0)
}

func (m *DocumentRepository) ListPayments(ctx context.Context, documentID uuid.UUID) ([]*domain.SettlementPayment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SettlementPayment), args.Error(1)
}

func (m *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DocumentRepository) FindInconsistent(ctx context.Context) ([]*domain.EndOfWorkDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EndOfWorkDocument), args.Error(1)
}

// SequenceAllocator is a mock of repository.SequenceAllocator
type SequenceAllocator struct {
	mock.Mock
}

func (m *SequenceAllocator) Next(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SequenceAllocator) Ensure(ctx context.Context, year int) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

// ContractRepository is a mock of repository.ContractRepository
type ContractRepository struct {
	mock.Mock
}

func (m *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkContract), args.Error(1)
}

// AgentRepository is a mock of repository.AgentRepository
type AgentRepository struct {
	mock.Mock
}

func (m *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *AgentRepository) FindByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

// UserRepository is a mock of repository.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RecruitmentRepository is a mock of repository.RecruitmentRepository
type RecruitmentRepository struct {
	mock.Mock
}

func (m *RecruitmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recruitment), args.Error(1)
}

func (m *RecruitmentRepository) Update(ctx context.Context, rec *domain.Recruitment) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *RecruitmentRepository) MarkConverted(ctx context.Context, rec *domain.Recruitment) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *RecruitmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
