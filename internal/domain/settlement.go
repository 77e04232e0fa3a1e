package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/pkg/utils"
)

// TerminationType is the reason a work relationship ended.
type TerminationType string

const (
	TerminationResignation     TerminationType = "resignation"
	TerminationDismissal       TerminationType = "dismissal"
	TerminationEndOfContract   TerminationType = "end_of_contract"
	TerminationMutualAgreement TerminationType = "mutual_agreement"
	TerminationRetirement      TerminationType = "retirement"
	TerminationDeath           TerminationType = "death"
	TerminationOther           TerminationType = "other"
)

// PaymentStatus is derived from payment tracking and never set by clients.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// rank orders statuses along the forward-only lifecycle.
func (s PaymentStatus) rank() int {
	switch s {
	case PaymentStatusPartial:
		return 1
	case PaymentStatusCompleted:
		return 2
	default:
		return 0
	}
}

// Precedes reports whether moving from s to next never goes backwards.
func (s PaymentStatus) Precedes(next PaymentStatus) bool {
	return s.rank() <= next.rank()
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodOther        PaymentMethod = "other"
)

// DerivePaymentStatus computes the payment status from the settlement totals.
func DerivePaymentStatus(total, paid decimal.Decimal) PaymentStatus {
	remaining := total.Sub(paid)
	switch {
	case remaining.LessThanOrEqual(decimal.Zero):
		return PaymentStatusCompleted
	case paid.GreaterThan(decimal.Zero):
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// FinancialSettlement is the breakdown owed to a departing worker, plus
// payment tracking. It is owned by exactly one EndOfWorkDocument.
type FinancialSettlement struct {
	MonthlySalary             decimal.Decimal `json:"monthlySalary"`
	TotalSalaryForMonths      decimal.Decimal `json:"totalSalaryForMonths"`
	ServiceRenderedPercentage decimal.Decimal `json:"serviceRenderedPercentage"`
	ServiceRenderedAmount     decimal.Decimal `json:"serviceRenderedAmount"`
	AnnualLeaveIndemnity      decimal.Decimal `json:"annualLeaveIndemnity"`
	EndOfContractIndemnity    decimal.Decimal `json:"endOfContractIndemnity"`
	SocialRightsIndemnity     decimal.Decimal `json:"socialRightsIndemnity"`
	TotalAmount               decimal.Decimal `json:"totalAmount"`

	AccruedSalary     decimal.Decimal `json:"accruedSalary"`
	UnusedLeaveDays   decimal.Decimal `json:"unusedLeaveDays"`
	UnusedLeaveAmount decimal.Decimal `json:"unusedLeaveAmount"`
	NoticePay         decimal.Decimal `json:"noticePay"`
	NoticeDays        decimal.Decimal `json:"noticeDays"`
	SeverancePay      decimal.Decimal `json:"severancePay"`
	OtherBenefits     decimal.Decimal `json:"otherBenefits"`
	Deductions        decimal.Decimal `json:"deductions"`

	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// Recompute restores remainingAmount = totalAmount - paidAmount.
// Every mutating operation calls it before persisting.
func (s *FinancialSettlement) Recompute() {
	s.RemainingAmount = utils.RemainingAmount(s.TotalAmount, s.PaidAmount)
}

// Consistent reports whether the remaining amount matches total - paid.
func (s FinancialSettlement) Consistent() bool {
	return s.RemainingAmount.Equal(utils.RemainingAmount(s.TotalAmount, s.PaidAmount))
}

// NonNegativeFields lists the amounts that must never be below zero.
func (s FinancialSettlement) NonNegativeFields() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"monthlySalary":          s.MonthlySalary,
		"totalSalaryForMonths":   s.TotalSalaryForMonths,
		"serviceRenderedAmount":  s.ServiceRenderedAmount,
		"annualLeaveIndemnity":   s.AnnualLeaveIndemnity,
		"endOfContractIndemnity": s.EndOfContractIndemnity,
		"socialRightsIndemnity":  s.SocialRightsIndemnity,
		"totalAmount":            s.TotalAmount,
		"accruedSalary":          s.AccruedSalary,
		"unusedLeaveDays":        s.UnusedLeaveDays,
		"unusedLeaveAmount":      s.UnusedLeaveAmount,
		"noticePay":              s.NoticePay,
		"noticeDays":             s.NoticeDays,
		"severancePay":           s.SeverancePay,
		"otherBenefits":          s.OtherBenefits,
		"deductions":             s.Deductions,
		"paidAmount":             s.PaidAmount,
	}
}

// Validate checks amount ranges. Remaining may go negative on overpayment
// and is not checked.
func (s FinancialSettlement) Validate() error {
	for name, value := range s.NonNegativeFields() {
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if s.ServiceRenderedPercentage.IsNegative() || s.ServiceRenderedPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("serviceRenderedPercentage must be between 0 and 100")
	}
	return nil
}

// Period is an inclusive date span.
type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// ReturnedItem is company property handed back by the worker.
type ReturnedItem struct {
	Item       string     `json:"item"`
	Quantity   int        `json:"quantity"`
	Condition  string     `json:"condition,omitempty"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

// EndOfWorkDocument is the persisted settlement record of one departure.
type EndOfWorkDocument struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"documentNumber"`
	AgentID        uuid.UUID `json:"agentId"`
	WorkContractID uuid.UUID `json:"workContractId"`

	TerminationType   TerminationType `json:"terminationType"`
	TerminationDate   time.Time       `json:"terminationDate"`
	LastWorkingDay    time.Time       `json:"lastWorkingDay"`
	NoticePeriodStart *time.Time      `json:"noticePeriodStart,omitempty"`
	NoticePeriodEnd   *time.Time      `json:"noticePeriodEnd,omitempty"`
	Reason            string          `json:"reason,omitempty"`
	SeniorityPeriod   Period          `json:"seniorityPeriod"`
	MonthsWorked      int             `json:"monthsWorked"`

	FinancialSettlement FinancialSettlement `json:"financialSettlement"`

	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentMethod    PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentDate      *time.Time    `json:"paymentDate,omitempty"`
	PaymentReference string        `json:"paymentReference,omitempty"`

	ReturnedItems       []ReturnedItem `json:"returnedItems"`
	DocumentsReturned   []string       `json:"documentsReturned"`
	AdministrativeNotes string         `json:"administrativeNotes,omitempty"`

	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	ApprovedBy     *uuid.UUID `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`

	CreatedBy uuid.UUID `json:"createdBy"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Resolved references, filled by the service when requested.
	AgentName string        `json:"agentName,omitempty"`
	Agent     *Agent        `json:"agent,omitempty"`
	Contract  *WorkContract `json:"workContract,omitempty"`
}

// Touch recomputes derived settlement fields; callers invoke it before every write.
func (d *EndOfWorkDocument) Touch(now time.Time) {
	d.FinancialSettlement.Recompute()
	d.UpdatedAt = now
}

// DTOs for requests and responses

type CreateDocumentRequest struct {
	DocumentNumber      string          `json:"documentNumber" validate:"omitempty,max=32"`
	AgentID             uuid.UUID       `json:"agentId" validate:"required"`
	WorkContractID      uuid.UUID       `json:"workContractId" validate:"required"`
	TerminationType     TerminationType `json:"terminationType" validate:"required,oneof=resignation dismissal end_of_contract mutual_agreement retirement death other"`
	TerminationDate     time.Time       `json:"terminationDate" validate:"required"`
	LastWorkingDay      time.Time       `json:"lastWorkingDay" validate:"required"`
	NoticePeriodStart   *time.Time      `json:"noticePeriodStart"`
	NoticePeriodEnd     *time.Time      `json:"noticePeriodEnd"`
	Reason              string          `json:"reason" validate:"max=2000"`
	SeniorityPeriod     Period          `json:"seniorityPeriod"`
	MonthsWorked        int             `json:"monthsWorked" validate:"gte=0"`
	ReturnedItems       []ReturnedItem  `json:"returnedItems" validate:"dive"`
	DocumentsReturned   []string        `json:"documentsReturned"`
	AdministrativeNotes string          `json:"administrativeNotes" validate:"max=4000"`

	FinancialSettlement *SettlementInput `json:"financialSettlement"`
}

// SettlementInput carries the breakdown fields a client may supply at creation.
// Payment tracking is never accepted from clients.
type SettlementInput struct {
	MonthlySalary             decimal.Decimal `json:"monthlySalary" validate:"decimal_gte=0,decimal_scale=2"`
	TotalSalaryForMonths      decimal.Decimal `json:"totalSalaryForMonths" validate:"decimal_gte=0,decimal_scale=2"`
	ServiceRenderedPercentage decimal.Decimal `json:"serviceRenderedPercentage" validate:"decimal_gte=0,decimal_lte=100,decimal_scale=2"`
	ServiceRenderedAmount     decimal.Decimal `json:"serviceRenderedAmount" validate:"decimal_gte=0,decimal_scale=2"`
	AnnualLeaveIndemnity      decimal.Decimal `json:"annualLeaveIndemnity" validate:"decimal_gte=0,decimal_scale=2"`
	EndOfContractIndemnity    decimal.Decimal `json:"endOfContractIndemnity" validate:"decimal_gte=0,decimal_scale=2"`
	SocialRightsIndemnity     decimal.Decimal `json:"socialRightsIndemnity" validate:"decimal_gte=0,decimal_scale=2"`
	TotalAmount               decimal.Decimal `json:"totalAmount" validate:"decimal_gte=0,decimal_scale=2"`
}

// ToSettlement converts client input into a fresh, unpaid settlement.
// Amounts are rounded to the two places the columns store.
func (in SettlementInput) ToSettlement() FinancialSettlement {
	s := FinancialSettlement{
		MonthlySalary:             utils.RoundMoney(in.MonthlySalary),
		TotalSalaryForMonths:      utils.RoundMoney(in.TotalSalaryForMonths),
		ServiceRenderedPercentage: utils.RoundMoney(in.ServiceRenderedPercentage),
		ServiceRenderedAmount:     utils.RoundMoney(in.ServiceRenderedAmount),
		AnnualLeaveIndemnity:      utils.RoundMoney(in.AnnualLeaveIndemnity),
		EndOfContractIndemnity:    utils.RoundMoney(in.EndOfContractIndemnity),
		SocialRightsIndemnity:     utils.RoundMoney(in.SocialRightsIndemnity),
		TotalAmount:               utils.RoundMoney(in.TotalAmount),
	}
	s.Recompute()
	return s
}

// UpdateDocumentRequest is the allow-list of client-mutable fields.
// Nil pointers are left untouched.
type UpdateDocumentRequest struct {
	TerminationType     *TerminationType `json:"terminationType" validate:"omitempty,oneof=resignation dismissal end_of_contract mutual_agreement retirement death other"`
	TerminationDate     *time.Time       `json:"terminationDate"`
	LastWorkingDay      *time.Time       `json:"lastWorkingDay"`
	NoticePeriodStart   *time.Time       `json:"noticePeriodStart"`
	NoticePeriodEnd     *time.Time       `json:"noticePeriodEnd"`
	Reason              *string          `json:"reason" validate:"omitempty,max=2000"`
	SeniorityPeriod     *Period          `json:"seniorityPeriod"`
	MonthsWorked        *int             `json:"monthsWorked" validate:"omitempty,gte=0"`
	ReturnedItems       *[]ReturnedItem  `json:"returnedItems"`
	DocumentsReturned   *[]string        `json:"documentsReturned"`
	AdministrativeNotes *string          `json:"administrativeNotes" validate:"omitempty,max=4000"`
	Acknowledged        *bool            `json:"acknowledged"`
	ApprovedBy          *uuid.UUID       `json:"approvedBy"`
}

// Apply merges the allow-listed fields into doc.
func (r UpdateDocumentRequest) Apply(doc *EndOfWorkDocument, now time.Time) {
	if r.TerminationType != nil {
		doc.TerminationType = *r.TerminationType
	}
	if r.TerminationDate != nil {
		doc.TerminationDate = *r.TerminationDate
	}
	if r.LastWorkingDay != nil {
		doc.LastWorkingDay = *r.LastWorkingDay
	}
	if r.NoticePeriodStart != nil {
		doc.NoticePeriodStart = r.NoticePeriodStart
	}
	if r.NoticePeriodEnd != nil {
		doc.NoticePeriodEnd = r.NoticePeriodEnd
	}
	if r.Reason != nil {
		doc.Reason = *r.Reason
	}
	if r.SeniorityPeriod != nil {
		doc.SeniorityPeriod = *r.SeniorityPeriod
	}
	if r.MonthsWorked != nil {
		doc.MonthsWorked = *r.MonthsWorked
	}
	if r.ReturnedItems != nil {
		doc.ReturnedItems = *r.ReturnedItems
	}
	if r.DocumentsReturned != nil {
		doc.DocumentsReturned = *r.DocumentsReturned
	}
	if r.AdministrativeNotes != nil {
		doc.AdministrativeNotes = *r.AdministrativeNotes
	}
	if r.Acknowledged != nil {
		if *r.Acknowledged && !doc.Acknowledged {
			doc.AcknowledgedAt = &now
		}
		if !*r.Acknowledged {
			doc.AcknowledgedAt = nil
		}
		doc.Acknowledged = *r.Acknowledged
	}
	if r.ApprovedBy != nil {
		approver := *r.ApprovedBy
		doc.ApprovedBy = &approver
		doc.ApprovedAt = &now
	}
}

// DocumentFilter selects a page of documents.
type DocumentFilter struct {
	AgentID       *uuid.UUID
	PaymentStatus PaymentStatus
	Page          int
	Limit         int
}

// Offset returns the row offset of the filter's page.
func (f DocumentFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type DocumentPage struct {
	Documents []*EndOfWorkDocument `json:"documents"`
	Page      int                  `json:"page"`
	Limit     int                  `json:"limit"`
	Total     int64                `json:"total"`
	Pages     int                  `json:"pages"`
}
