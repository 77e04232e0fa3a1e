package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name        string
		total, paid int64
		expected    PaymentStatus
	}{
		{"nothing paid", 500000, 0, PaymentStatusPending},
		{"partially paid", 500000, 200000, PaymentStatusPartial},
		{"fully paid", 500000, 500000, PaymentStatusCompleted},
		{"overpaid", 500000, 600000, PaymentStatusCompleted},
		{"zero total", 0, 0, PaymentStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DerivePaymentStatus(decimal.NewFromInt(tt.total), decimal.NewFromInt(tt.paid)))
		})
	}
}

func TestPaymentStatus_Precedes(t *testing.T) {
	assert.True(t, PaymentStatusPending.Precedes(PaymentStatusPartial))
	assert.True(t, PaymentStatusPartial.Precedes(PaymentStatusCompleted))
	assert.True(t, PaymentStatusPartial.Precedes(PaymentStatusPartial))
	assert.False(t, PaymentStatusCompleted.Precedes(PaymentStatusPartial))
	assert.False(t, PaymentStatusPartial.Precedes(PaymentStatusPending))
}

func TestFinancialSettlement_Recompute(t *testing.T) {
	s := FinancialSettlement{
		TotalAmount:     decimal.NewFromInt(500000),
		PaidAmount:      decimal.NewFromInt(600000),
		RemainingAmount: decimal.NewFromInt(7),
	}
	assert.False(t, s.Consistent())

	s.Recompute()

	assert.True(t, s.Consistent())
	assert.True(t, decimal.NewFromInt(-100000).Equal(s.RemainingAmount))
}

func TestFinancialSettlement_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FinancialSettlement)
		wantErr string
	}{
		{"valid", func(s *FinancialSettlement) {}, ""},
		{"negative remaining is allowed", func(s *FinancialSettlement) { s.RemainingAmount = decimal.NewFromInt(-5) }, ""},
		{"negative deductions", func(s *FinancialSettlement) { s.Deductions = decimal.NewFromInt(-1) }, "deductions must not be negative"},
		{"percentage above 100", func(s *FinancialSettlement) { s.ServiceRenderedPercentage = decimal.NewFromInt(101) }, "serviceRenderedPercentage"},
		{"negative percentage", func(s *FinancialSettlement) { s.ServiceRenderedPercentage = decimal.NewFromInt(-1) }, "serviceRenderedPercentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FinancialSettlement{
				MonthlySalary:             decimal.NewFromInt(150000),
				ServiceRenderedPercentage: decimal.NewFromInt(50),
				TotalAmount:               decimal.NewFromInt(500000),
			}
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSettlementInput_ToSettlement(t *testing.T) {
	s := SettlementInput{
		MonthlySalary: decimal.NewFromInt(150000),
		TotalAmount:   decimal.NewFromInt(36000),
	}.ToSettlement()

	assert.True(t, s.PaidAmount.IsZero())
	assert.True(t, decimal.NewFromInt(36000).Equal(s.RemainingAmount))
}

func TestSettlementInput_ToSettlementRoundsToCents(t *testing.T) {
	s := SettlementInput{
		MonthlySalary:             decimal.RequireFromString("150000.125"),
		ServiceRenderedPercentage: decimal.RequireFromString("33.333"),
		TotalAmount:               decimal.RequireFromString("0.005"),
	}.ToSettlement()

	assert.True(t, decimal.RequireFromString("150000.13").Equal(s.MonthlySalary))
	assert.True(t, decimal.RequireFromString("33.33").Equal(s.ServiceRenderedPercentage))
	assert.True(t, decimal.RequireFromString("0.01").Equal(s.TotalAmount))
	assert.True(t, s.TotalAmount.Equal(s.RemainingAmount))
	assert.True(t, s.Consistent())
}

func TestUpdateDocumentRequest_Apply(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	earlier := now.Add(-24 * time.Hour)
	approver := uuid.New()
	reason := "contract ended"
	ack := true

	doc := &EndOfWorkDocument{
		DocumentNumber: "DFT-2025-000003",
		Reason:         "draft",
		PaymentStatus:  PaymentStatusPartial,
		FinancialSettlement: FinancialSettlement{
			PaidAmount: decimal.NewFromInt(1000),
		},
	}

	UpdateDocumentRequest{Reason: &reason, Acknowledged: &ack, ApprovedBy: &approver}.Apply(doc, now)

	assert.Equal(t, reason, doc.Reason)
	assert.True(t, doc.Acknowledged)
	assert.Equal(t, now, *doc.AcknowledgedAt)
	assert.Equal(t, approver, *doc.ApprovedBy)
	assert.Equal(t, "DFT-2025-000003", doc.DocumentNumber)
	assert.Equal(t, PaymentStatusPartial, doc.PaymentStatus)
	assert.True(t, decimal.NewFromInt(1000).Equal(doc.FinancialSettlement.PaidAmount))

	// Re-acknowledging keeps the first timestamp
	UpdateDocumentRequest{Acknowledged: &ack}.Apply(doc, earlier)
	assert.Equal(t, now, *doc.AcknowledgedAt)

	withdrawn := false
	UpdateDocumentRequest{Acknowledged: &withdrawn}.Apply(doc, now)
	assert.False(t, doc.Acknowledged)
	assert.Nil(t, doc.AcknowledgedAt)
}

func TestDocumentFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, DocumentFilter{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 0, DocumentFilter{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, DocumentFilter{Page: 3, Limit: 20}.Offset())
}

func TestRecruitment_IsConverted(t *testing.T) {
	agentID := uuid.New()

	assert.False(t, (&Recruitment{Status: RecruitmentStatusAccepted}).IsConverted())
	assert.True(t, (&Recruitment{Status: RecruitmentStatusConverted}).IsConverted())
	assert.True(t, (&Recruitment{Status: RecruitmentStatusAccepted, ConvertedToAgent: &agentID}).IsConverted())
}

func TestAgent_DisplayName(t *testing.T) {
	assert.Equal(t, "Awa Diallo", (&Agent{FirstName: "Awa", LastName: "Diallo"}).DisplayName())
	assert.Equal(t, "Awa", (&Agent{FirstName: "Awa"}).DisplayName())
}
