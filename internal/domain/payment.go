package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementPayment is one immutable entry of a document's payment journal.
type SettlementPayment struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	DocumentID uuid.UUID       `json:"documentId" db:"document_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Method     PaymentMethod   `json:"paymentMethod" db:"method"`
	Reference  string          `json:"paymentReference,omitempty" db:"reference"`
	PaidAt     time.Time       `json:"paidAt" db:"paid_at"`
	RecordedBy uuid.UUID       `json:"recordedBy" db:"recorded_by"`
}

type RecordPaymentRequest struct {
	Amount           decimal.Decimal `json:"amount" validate:"decimal_gt=0,decimal_scale=2"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod" validate:"required,oneof=cash bank_transfer check mobile_money other"`
	PaymentReference string          `json:"paymentReference" validate:"max=128"`
}
