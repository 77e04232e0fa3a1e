package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/segyhp/settlement-engine/internal/repository"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

// Maintenance holds the background jobs run by the scheduler
type Maintenance struct {
	DocumentRepo repository.DocumentRepository
	sequences    repository.SequenceAllocator
	log          zerolog.Logger
	now          func() time.Time
}

func NewMaintenance(documentRepo repository.DocumentRepository, sequences repository.SequenceAllocator, log zerolog.Logger) *Maintenance {
	return &Maintenance{
		DocumentRepo: documentRepo,
		sequences:    sequences,
		log:          log,
		now:          time.Now,
	}
}

// AuditSettlements repairs documents whose remaining amount no longer equals
// total - paid. It returns the number of documents repaired.
func (m *Maintenance) AuditSettlements(ctx context.Context) (int, error) {
	docs, err := m.DocumentRepo.FindInconsistent(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	repaired := 0
	for _, doc := range docs {
		if doc.FinancialSettlement.Consistent() {
			// Nothing to repair
			continue
		}
		drifted := doc.FinancialSettlement.RemainingAmount

		expected := doc.Version
		doc.Touch(m.now())

		if err := m.DocumentRepo.Update(ctx, doc, expected); err != nil {
			if errors.Is(err, customError.ErrVersionConflict) || errors.Is(err, customError.ErrDocumentNotFound) {
				// Changed or removed since the scan; the writer recomputed it
				continue
			}
			return repaired, customError.WrapDatabaseError(err)
		}

		repaired++
		m.log.Warn().
			Str("document_id", doc.ID.String()).
			Str("document_number", doc.DocumentNumber).
			Str("stored_remaining", drifted.String()).
			Str("remaining", doc.FinancialSettlement.RemainingAmount.String()).
			Msg("repaired settlement remaining amount")
	}

	return repaired, nil
}

// WarmSequences creates next year's document counter ahead of the rollover
func (m *Maintenance) WarmSequences(ctx context.Context) error {
	year := m.now().Year() + 1
	if err := m.sequences.Ensure(ctx, year); err != nil {
		return customError.WrapDatabaseError(err)
	}
	m.log.Info().Int("year", year).Msg("document sequence ready")
	return nil
}
