package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/internal/domain"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

// contractRow keeps financial rights nullable; absent values read as zero
type contractRow struct {
	ID             uuid.UUID           `db:"id"`
	AgentID        uuid.UUID           `db:"agent_id"`
	ContractNumber string              `db:"contract_number"`
	ContractType   string              `db:"contract_type"`
	StartDate      time.Time           `db:"start_date"`
	EndDate        *time.Time          `db:"end_date"`
	BaseSalary     decimal.Decimal     `db:"base_salary"`
	AccruedSalary  decimal.NullDecimal `db:"fr_accrued_salary"`
	PaidLeave      decimal.NullDecimal `db:"fr_paid_leave"`
	NoticePay      decimal.NullDecimal `db:"fr_notice_pay"`
	NoticeDays     decimal.NullDecimal `db:"fr_notice_days"`
	SeverancePay   decimal.NullDecimal `db:"fr_severance_pay"`
	Bonuses        decimal.NullDecimal `db:"fr_bonuses"`
	FinancialTotal decimal.NullDecimal `db:"fr_total"`
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func (r *contractRow) toDomain() *domain.WorkContract {
	return &domain.WorkContract{
		ID:             r.ID,
		AgentID:        r.AgentID,
		ContractNumber: r.ContractNumber,
		ContractType:   r.ContractType,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Salary:         domain.Salary{BaseSalary: r.BaseSalary},
		FinancialRights: domain.FinancialRights{
			AccruedSalary: orZero(r.AccruedSalary),
			PaidLeave:     orZero(r.PaidLeave),
			NoticePay:     orZero(r.NoticePay),
			NoticeDays:    orZero(r.NoticeDays),
			SeverancePay:  orZero(r.SeverancePay),
			Bonuses:       orZero(r.Bonuses),
			Total:         orZero(r.FinancialTotal),
		},
	}
}

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkContract, error) {
	query := `
		SELECT id, agent_id, contract_number, contract_type, start_date, end_date, base_salary,
			fr_accrued_salary, fr_paid_leave, fr_notice_pay, fr_notice_days,
			fr_severance_pay, fr_bonuses, fr_total
		FROM work_contracts
		WHERE id = $1
	`

	var row contractRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, customError.ErrContractNotFound)
	}

	return row.toDomain(), nil
}
