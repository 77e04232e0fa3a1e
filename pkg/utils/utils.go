package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentNumberPrefix is the prefix of every end-of-work document number.
const DocumentNumberPrefix = "DFT"

// DailyRate approximates a daily salary from a monthly one
// Formula: baseSalary / monthDays
func DailyRate(baseSalary decimal.Decimal, monthDays int) decimal.Decimal {
	if monthDays <= 0 {
		return decimal.Zero
	}
	return baseSalary.Div(decimal.NewFromInt(int64(monthDays)))
}

// LeaveIndemnity values unused leave days at the daily rate
// Formula: days * (baseSalary / monthDays), rounded to 2 decimal places
func LeaveIndemnity(days decimal.Decimal, baseSalary decimal.Decimal, monthDays int) decimal.Decimal {
	return days.Mul(DailyRate(baseSalary, monthDays)).Round(2)
}

// RemainingAmount is what is still owed on a settlement.
// It is not clamped: over-payment yields a negative value.
func RemainingAmount(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// MoneyPlaces is the number of fractional digits stored for amounts.
const MoneyPlaces = 2

// RoundMoney rounds d half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// IsWholeCents reports whether d is representable without rounding.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(RoundMoney(d))
}

// FormatDocumentNumber renders DFT-<year>-<sequence padded to 6 digits>
func FormatDocumentNumber(year int, sequence int64) string {
	return fmt.Sprintf("%s-%d-%06d", DocumentNumberPrefix, year, sequence)
}

// IsBlank reports whether s is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TotalPages returns the number of pages needed for total items
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NormalizePage clamps page and limit into usable values
func NormalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
