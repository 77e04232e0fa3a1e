package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/mocks"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

func newMaintenance(documents *mocks.DocumentRepository, sequences *mocks.SequenceAllocator) *Maintenance {
	m := NewMaintenance(documents, sequences, zerolog.Nop())
	m.now = func() time.Time { return fixedNow }
	return m
}

func TestMaintenance_AuditSettlements(t *testing.T) {
	documents := new(mocks.DocumentRepository)
	ctx := context.Background()

	drifted := storedDocument(500000, 200000)
	drifted.FinancialSettlement.RemainingAmount = decimal.NewFromInt(500000)

	raced := storedDocument(1000, 0)
	raced.FinancialSettlement.RemainingAmount = decimal.NewFromInt(1)

	documents.On("FindInconsistent", ctx).Return([]*domain.EndOfWorkDocument{drifted, raced}, nil)
	documents.On("Update", ctx, drifted, int64(4)).Return(nil)
	documents.On("Update", ctx, raced, int64(4)).Return(customError.ErrVersionConflict)

	repaired, err := newMaintenance(documents, new(mocks.SequenceAllocator)).AuditSettlements(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.True(t, decimal.NewFromInt(300000).Equal(drifted.FinancialSettlement.RemainingAmount))
	documents.AssertExpectations(t)
}

func TestMaintenance_AuditSettlements_SkipsConsistentRows(t *testing.T) {
	documents := new(mocks.DocumentRepository)
	ctx := context.Background()

	// Equal values stored with different scales
	healthy := storedDocument(500000, 200000)
	healthy.FinancialSettlement.RemainingAmount = decimal.RequireFromString("300000.00")

	documents.On("FindInconsistent", ctx).Return([]*domain.EndOfWorkDocument{healthy}, nil)

	repaired, err := newMaintenance(documents, new(mocks.SequenceAllocator)).AuditSettlements(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
	assert.Equal(t, int64(4), healthy.Version)
	documents.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaintenance_AuditSettlements_StorageFailure(t *testing.T) {
	documents := new(mocks.DocumentRepository)
	ctx := context.Background()

	documents.On("FindInconsistent", ctx).Return(nil, errors.New("connection refused"))

	_, err := newMaintenance(documents, new(mocks.SequenceAllocator)).AuditSettlements(ctx)

	require.Error(t, err)
	assert.Equal(t, customError.KindUnexpected, customError.KindOf(err))
}

func TestMaintenance_WarmSequences(t *testing.T) {
	sequences := new(mocks.SequenceAllocator)
	ctx := context.Background()

	sequences.On("Ensure", ctx, 2026).Return(nil)

	require.NoError(t, newMaintenance(new(mocks.DocumentRepository), sequences).WarmSequences(ctx))
	sequences.AssertExpectations(t)
}
