package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", WrapDocumentNotFound("d1"), http.StatusNotFound},
		{"invalid state", WrapRecruitmentNotAccepted("r1", "pending"), http.StatusBadRequest},
		{"already converted", WrapAlreadyConverted("r1", "a1"), http.StatusBadRequest},
		{"conflict", WrapConcurrentModification("d1"), http.StatusBadRequest},
		{"validation", WrapInvalidPaymentAmount("0"), http.StatusBadRequest},
		{"status regression", WrapStatusRegression("d1", "completed", "partial"), http.StatusBadRequest},
		{"database", WrapDatabaseError(errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped business error", fmt.Errorf("loading: %w", WrapAgentNotFound("a1")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestBusinessError_Unwrap(t *testing.T) {
	err := WrapConcurrentModification("d1")

	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "conflict", KindOf(err).String())
	assert.Contains(t, err.Error(), ErrCodeConcurrentModification)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Document number DFT-2025-000001 already exists", Message(WrapDuplicateDocumentNumber("DFT-2025-000001")))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestWrapValidation_DefaultsCause(t *testing.T) {
	assert.True(t, errors.Is(WrapValidation("bad input", nil), ErrValidation))

	cause := errors.New("amount must be positive")
	assert.True(t, errors.Is(WrapValidation("bad input", cause), cause))
}
