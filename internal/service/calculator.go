package service

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/internal/config"
	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/pkg/utils"
)

// CalculateSettlement derives a fresh settlement from a contract's financial rights.
//
// The total is taken verbatim from the contract rather than summed from the
// breakdown, and payment progress starts from zero.
func CalculateSettlement(rights domain.FinancialRights, baseSalary decimal.Decimal, leaveMonthDays int) domain.FinancialSettlement {
	settlement := domain.FinancialSettlement{
		MonthlySalary:     baseSalary,
		AccruedSalary:     rights.AccruedSalary,
		UnusedLeaveDays:   rights.PaidLeave,
		UnusedLeaveAmount: utils.LeaveIndemnity(rights.PaidLeave, baseSalary, leaveMonthDays),
		NoticePay:         rights.NoticePay,
		NoticeDays:        rights.NoticeDays,
		SeverancePay:      rights.SeverancePay,
		OtherBenefits:     rights.Bonuses,
		TotalAmount:       rights.Total,
		Deductions:        decimal.Zero,
		PaidAmount:        decimal.Zero,
	}
	settlement.Recompute()
	return settlement
}

// ApplyRecalculation replaces current with fresh according to policy.
// With RecalculationReset payments recorded so far are wiped from the
// settlement (the journal keeps them); with RecalculationPreserve the paid
// amount carries over.
func ApplyRecalculation(current, fresh domain.FinancialSettlement, policy string) domain.FinancialSettlement {
	// Breakdown fields owned by the detailed calculation are kept
	fresh.TotalSalaryForMonths = current.TotalSalaryForMonths
	fresh.ServiceRenderedPercentage = current.ServiceRenderedPercentage
	fresh.ServiceRenderedAmount = current.ServiceRenderedAmount
	fresh.AnnualLeaveIndemnity = current.AnnualLeaveIndemnity
	fresh.EndOfContractIndemnity = current.EndOfContractIndemnity
	fresh.SocialRightsIndemnity = current.SocialRightsIndemnity

	if policy == config.RecalculationPreserve {
		fresh.PaidAmount = current.PaidAmount
	}
	fresh.Recompute()
	return fresh
}
