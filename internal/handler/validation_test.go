package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/settlement-engine/internal/domain"
)

func TestNewValidator_DecimalTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   domain.SettlementInput
		wantErr string
	}{
		{
			name:  "zero amounts are allowed",
			input: domain.SettlementInput{},
		},
		{
			name:  "full percentage",
			input: domain.SettlementInput{ServiceRenderedPercentage: decimal.NewFromInt(100), TotalAmount: decimal.RequireFromString("1250.50")},
		},
		{
			name:    "percentage above 100",
			input:   domain.SettlementInput{ServiceRenderedPercentage: decimal.RequireFromString("100.01")},
			wantErr: "serviceRenderedPercentage failed decimal_lte=100",
		},
		{
			name:    "negative indemnity",
			input:   domain.SettlementInput{AnnualLeaveIndemnity: decimal.NewFromInt(-3)},
			wantErr: "annualLeaveIndemnity failed decimal_gte=0",
		},
		{
			name:    "fraction of a cent",
			input:   domain.SettlementInput{TotalAmount: decimal.RequireFromString("1250.505")},
			wantErr: "totalAmount failed decimal_scale=2",
		},
		{
			name:  "trailing zeros",
			input: domain.SettlementInput{TotalAmount: decimal.RequireFromString("1250.500")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, validationMessage(err), tt.wantErr)
		})
	}
}

func TestNewValidator_PaymentAmount(t *testing.T) {
	v := NewValidator()

	err := v.Struct(&domain.RecordPaymentRequest{Amount: decimal.Zero, PaymentMethod: domain.PaymentMethodCash})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: amount failed decimal_gt=0", validationMessage(err))

	assert.NoError(t, v.Struct(&domain.RecordPaymentRequest{Amount: decimal.RequireFromString("0.01"), PaymentMethod: domain.PaymentMethodCash}))
}

func TestNewValidator_PaymentAmountScale(t *testing.T) {
	v := NewValidator()

	err := v.Struct(&domain.RecordPaymentRequest{Amount: decimal.RequireFromString("0.005"), PaymentMethod: domain.PaymentMethodCash})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: amount failed decimal_scale=2", validationMessage(err))
}
