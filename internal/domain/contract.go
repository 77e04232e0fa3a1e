package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialRights are the entitlements accrued on a work contract.
// Total is maintained by the contract owner and is not a sum of the other fields.
type FinancialRights struct {
	AccruedSalary decimal.Decimal `json:"accruedSalary"`
	PaidLeave     decimal.Decimal `json:"paidLeave"`
	NoticePay     decimal.Decimal `json:"noticePay"`
	NoticeDays    decimal.Decimal `json:"noticeDays"`
	SeverancePay  decimal.Decimal `json:"severancePay"`
	Bonuses       decimal.Decimal `json:"bonuses"`
	Total         decimal.Decimal `json:"total"`
}

type Salary struct {
	BaseSalary decimal.Decimal `json:"baseSalary"`
}

// WorkContract is read-only reference data for settlements.
type WorkContract struct {
	ID              uuid.UUID       `json:"id"`
	AgentID         uuid.UUID       `json:"agentId"`
	ContractNumber  string          `json:"contractNumber"`
	ContractType    string          `json:"contractType"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Salary          Salary          `json:"salary"`
	FinancialRights FinancialRights `json:"financialRights"`
}
