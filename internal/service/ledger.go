package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/internal/config"
	"github.com/segyhp/settlement-engine/internal/domain"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
	"github.com/segyhp/settlement-engine/pkg/utils"
)

// ApplyPayment adds amount to the document's paid amount and derives the new
// payment status. Amounts must be positive whole cents and the status only
// moves forward. doc is left untouched when an error is returned.
func ApplyPayment(
	doc *domain.EndOfWorkDocument,
	amount decimal.Decimal,
	method domain.PaymentMethod,
	reference string,
	now time.Time,
	overpaymentPolicy string,
) error {
	if amount.LessThanOrEqual(decimal.Zero) || !utils.IsWholeCents(amount) {
		return customError.WrapInvalidPaymentAmount(amount.String())
	}

	settlement := &doc.FinancialSettlement
	remaining := utils.RemainingAmount(settlement.TotalAmount, settlement.PaidAmount)
	if overpaymentPolicy == config.OverpaymentReject && amount.GreaterThan(remaining) {
		return customError.WrapOverpayment(amount.String(), remaining.String())
	}

	paid := settlement.PaidAmount.Add(amount)
	status := domain.DerivePaymentStatus(settlement.TotalAmount, paid)
	if doc.PaymentStatus != "" && !doc.PaymentStatus.Precedes(status) {
		return customError.WrapStatusRegression(doc.ID.String(), string(doc.PaymentStatus), string(status))
	}

	settlement.PaidAmount = paid
	settlement.Recompute()

	doc.PaymentStatus = status
	doc.PaymentMethod = method
	doc.PaymentReference = reference
	paidAt := now
	doc.PaymentDate = &paidAt
	doc.UpdatedAt = now

	return nil
}
