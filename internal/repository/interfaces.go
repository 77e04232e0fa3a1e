package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/settlement-engine/internal/domain"
)

// DocumentRepository defines the interface for end-of-work document data operations
type DocumentRepository interface {
	// Create inserts a new document. A taken document number yields ErrDuplicateKey.
	Create(ctx context.Context, doc *domain.EndOfWorkDocument) error

	// GetByID retrieves a document by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error)

	// ExistsByNumber reports whether a document number is already assigned
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// List returns one page of documents ordered by termination date, newest first, and the total count
	List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.EndOfWorkDocument, int64, error)

	// CountByYear counts documents whose number belongs to the given year
	CountByYear(ctx context.Context, year int) (int64, error)

	// Update overwrites a document if its version still equals expectedVersion,
	// bumping the version. A stale version yields ErrVersionConflict.
	Update(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64) error

	// RecordPayment saves the settlement of doc and journals payment in one transaction,
	// guarded by expectedVersion like Update.
	RecordPayment(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64, payment *domain.SettlementPayment) error

	// ListPayments returns the payment journal of a document, oldest first
	ListPayments(ctx context.Context, documentID uuid.UUID) ([]*domain.SettlementPayment, error)

	// Delete hard-deletes a document
	Delete(ctx context.Context, id uuid.UUID) error

	// FindInconsistent returns documents whose remaining amount drifted from total - paid
	FindInconsistent(ctx context.Context) ([]*domain.EndOfWorkDocument, error)
}

// SequenceAllocator hands out per-year document sequence values atomically
type SequenceAllocator interface {
	// Next returns the next sequence value for year, starting at 1
	Next(ctx context.Context, year int) (int64, error)

	// Ensure makes sure a counter exists for year without advancing it
	Ensure(ctx context.Context, year int) error
}

// ContractRepository reads work contracts
type ContractRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkContract, error)
}

// AgentRepository defines the interface for agent data operations
type AgentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)

	// FindByEmail returns ErrAgentNotFound when no agent uses email
	FindByEmail(ctx context.Context, email string) (*domain.Agent, error)

	// Create inserts an agent. A taken email yields ErrDuplicateKey.
	Create(ctx context.Context, agent *domain.Agent) error
}

// UserRepository defines the interface for user account data operations
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create inserts a user. A taken email yields ErrDuplicateKey.
	Create(ctx context.Context, user *domain.User) error

	// Delete removes a user no agent points at. Otherwise it yields ErrUserNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecruitmentRepository defines the interface for recruitment data operations
type RecruitmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error)

	// Update overwrites a recruitment unless it is converted
	Update(ctx context.Context, rec *domain.Recruitment) error

	// MarkConverted stamps the conversion only if the recruitment is still
	// accepted and unlinked; it reports whether a row was changed.
	MarkConverted(ctx context.Context, rec *domain.Recruitment) (bool, error)

	// Delete removes a recruitment unless it is converted; it reports whether a row was removed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
