package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/segyhp/settlement-engine/internal/domain"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

// documentRow is the flattened table shape of an EndOfWorkDocument
type documentRow struct {
	ID                uuid.UUID  `db:"id"`
	DocumentNumber    string     `db:"document_number"`
	AgentID           uuid.UUID  `db:"agent_id"`
	WorkContractID    uuid.UUID  `db:"work_contract_id"`
	TerminationType   string     `db:"termination_type"`
	TerminationDate   time.Time  `db:"termination_date"`
	LastWorkingDay    time.Time  `db:"last_working_day"`
	NoticePeriodStart *time.Time `db:"notice_period_start"`
	NoticePeriodEnd   *time.Time `db:"notice_period_end"`
	Reason            string     `db:"reason"`
	SeniorityStart    *time.Time `db:"seniority_start"`
	SeniorityEnd      *time.Time `db:"seniority_end"`
	MonthsWorked      int        `db:"months_worked"`

	MonthlySalary             decimal.Decimal `db:"monthly_salary"`
	TotalSalaryForMonths      decimal.Decimal `db:"total_salary_for_months"`
	ServiceRenderedPercentage decimal.Decimal `db:"service_rendered_percentage"`
	ServiceRenderedAmount     decimal.Decimal `db:"service_rendered_amount"`
	AnnualLeaveIndemnity      decimal.Decimal `db:"annual_leave_indemnity"`
	EndOfContractIndemnity    decimal.Decimal `db:"end_of_contract_indemnity"`
	SocialRightsIndemnity     decimal.Decimal `db:"social_rights_indemnity"`
	TotalAmount               decimal.Decimal `db:"total_amount"`
	AccruedSalary             decimal.Decimal `db:"accrued_salary"`
	UnusedLeaveDays           decimal.Decimal `db:"unused_leave_days"`
	UnusedLeaveAmount         decimal.Decimal `db:"unused_leave_amount"`
	NoticePay                 decimal.Decimal `db:"notice_pay"`
	NoticeDays                decimal.Decimal `db:"notice_days"`
	SeverancePay              decimal.Decimal `db:"severance_pay"`
	OtherBenefits             decimal.Decimal `db:"other_benefits"`
	Deductions                decimal.Decimal `db:"deductions"`
	PaidAmount                decimal.Decimal `db:"paid_amount"`
	RemainingAmount           decimal.Decimal `db:"remaining_amount"`

	PaymentStatus    string     `db:"payment_status"`
	PaymentMethod    string     `db:"payment_method"`
	PaymentDate      *time.Time `db:"payment_date"`
	PaymentReference string     `db:"payment_reference"`

	ReturnedItems       string         `db:"returned_items"`
	DocumentsReturned   pq.StringArray `db:"documents_returned"`
	AdministrativeNotes string         `db:"administrative_notes"`
	Acknowledged        bool           `db:"acknowledged"`
	AcknowledgedAt      *time.Time     `db:"acknowledged_at"`
	ApprovedBy          *uuid.UUID     `db:"approved_by"`
	ApprovedAt          *time.Time     `db:"approved_at"`

	CreatedBy uuid.UUID `db:"created_by"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const documentColumns = `id, document_number, agent_id, work_contract_id,
	termination_type, termination_date, last_working_day, notice_period_start, notice_period_end,
	reason, seniority_start, seniority_end, months_worked,
	monthly_salary, total_salary_for_months, service_rendered_percentage, service_rendered_amount,
	annual_leave_indemnity, end_of_contract_indemnity, social_rights_indemnity, total_amount,
	accrued_salary, unused_leave_days, unused_leave_amount, notice_pay, notice_days,
	severance_pay, other_benefits, deductions, paid_amount, remaining_amount,
	payment_status, payment_method, payment_date, payment_reference,
	returned_items, documents_returned, administrative_notes,
	acknowledged, acknowledged_at, approved_by, approved_at,
	created_by, version, created_at, updated_at`

// documentAssignments is the UPDATE SET list shared by Update and RecordPayment
const documentAssignments = `
	termination_type = :termination_type, termination_date = :termination_date,
	last_working_day = :last_working_day, notice_period_start = :notice_period_start,
	notice_period_end = :notice_period_end, reason = :reason,
	seniority_start = :seniority_start, seniority_end = :seniority_end, months_worked = :months_worked,
	monthly_salary = :monthly_salary, total_salary_for_months = :total_salary_for_months,
	service_rendered_percentage = :service_rendered_percentage, service_rendered_amount = :service_rendered_amount,
	annual_leave_indemnity = :annual_leave_indemnity, end_of_contract_indemnity = :end_of_contract_indemnity,
	social_rights_indemnity = :social_rights_indemnity, total_amount = :total_amount,
	accrued_salary = :accrued_salary, unused_leave_days = :unused_leave_days,
	unused_leave_amount = :unused_leave_amount, notice_pay = :notice_pay, notice_days = :notice_days,
	severance_pay = :severance_pay, other_benefits = :other_benefits, deductions = :deductions,
	paid_amount = :paid_amount, remaining_amount = :remaining_amount,
	payment_status = :payment_status, payment_method = :payment_method,
	payment_date = :payment_date, payment_reference = :payment_reference,
	returned_items = :returned_items, documents_returned = :documents_returned,
	administrative_notes = :administrative_notes, acknowledged = :acknowledged,
	acknowledged_at = :acknowledged_at, approved_by = :approved_by, approved_at = :approved_at,
	version = version + 1, updated_at = :updated_at`

func toDocumentRow(doc *domain.EndOfWorkDocument) (*documentRow, error) {
	items := doc.ReturnedItems
	if items == nil {
		items = []domain.ReturnedItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode returned items: %w", err)
	}
	returned := doc.DocumentsReturned
	if returned == nil {
		returned = []string{}
	}

	s := doc.FinancialSettlement
	return &documentRow{
		ID:                        doc.ID,
		DocumentNumber:            doc.DocumentNumber,
		AgentID:                   doc.AgentID,
		WorkContractID:            doc.WorkContractID,
		TerminationType:           string(doc.TerminationType),
		TerminationDate:           doc.TerminationDate,
		LastWorkingDay:            doc.LastWorkingDay,
		NoticePeriodStart:         doc.NoticePeriodStart,
		NoticePeriodEnd:           doc.NoticePeriodEnd,
		Reason:                    doc.Reason,
		SeniorityStart:            doc.SeniorityPeriod.Start,
		SeniorityEnd:              doc.SeniorityPeriod.End,
		MonthsWorked:              doc.MonthsWorked,
		MonthlySalary:             s.MonthlySalary,
		TotalSalaryForMonths:      s.TotalSalaryForMonths,
		ServiceRenderedPercentage: s.ServiceRenderedPercentage,
		ServiceRenderedAmount:     s.ServiceRenderedAmount,
		AnnualLeaveIndemnity:      s.AnnualLeaveIndemnity,
		EndOfContractIndemnity:    s.EndOfContractIndemnity,
		SocialRightsIndemnity:     s.SocialRightsIndemnity,
		TotalAmount:               s.TotalAmount,
		AccruedSalary:             s.AccruedSalary,
		UnusedLeaveDays:           s.UnusedLeaveDays,
		UnusedLeaveAmount:         s.UnusedLeaveAmount,
		NoticePay:                 s.NoticePay,
		NoticeDays:                s.NoticeDays,
		SeverancePay:              s.SeverancePay,
		OtherBenefits:             s.OtherBenefits,
		Deductions:                s.Deductions,
		PaidAmount:                s.PaidAmount,
		RemainingAmount:           s.RemainingAmount,
		PaymentStatus:             string(doc.PaymentStatus),
		PaymentMethod:             string(doc.PaymentMethod),
		PaymentDate:               doc.PaymentDate,
		PaymentReference:          doc.PaymentReference,
		ReturnedItems:             string(itemsJSON),
		DocumentsReturned:         pq.StringArray(returned),
		AdministrativeNotes:       doc.AdministrativeNotes,
		Acknowledged:              doc.Acknowledged,
		AcknowledgedAt:            doc.AcknowledgedAt,
		ApprovedBy:                doc.ApprovedBy,
		ApprovedAt:                doc.ApprovedAt,
		CreatedBy:                 doc.CreatedBy,
		Version:                   doc.Version,
		CreatedAt:                 doc.CreatedAt,
		UpdatedAt:                 doc.UpdatedAt,
	}, nil
}

func (r *documentRow) toDomain() (*domain.EndOfWorkDocument, error) {
	var items []domain.ReturnedItem
	if len(r.ReturnedItems) > 0 {
		if err := json.Unmarshal([]byte(r.ReturnedItems), &items); err != nil {
			return nil, fmt.Errorf("decode returned items of %s: %w", r.ID, err)
		}
	}
	if items == nil {
		items = []domain.ReturnedItem{}
	}
	returned := []string(r.DocumentsReturned)
	if returned == nil {
		returned = []string{}
	}

	return &domain.EndOfWorkDocument{
		ID:                r.ID,
		DocumentNumber:    r.DocumentNumber,
		AgentID:           r.AgentID,
		WorkContractID:    r.WorkContractID,
		TerminationType:   domain.TerminationType(r.TerminationType),
		TerminationDate:   r.TerminationDate,
		LastWorkingDay:    r.LastWorkingDay,
		NoticePeriodStart: r.NoticePeriodStart,
		NoticePeriodEnd:   r.NoticePeriodEnd,
		Reason:            r.Reason,
		SeniorityPeriod:   domain.Period{Start: r.SeniorityStart, End: r.SeniorityEnd},
		MonthsWorked:      r.MonthsWorked,
		FinancialSettlement: domain.FinancialSettlement{
			MonthlySalary:             r.MonthlySalary,
			TotalSalaryForMonths:      r.TotalSalaryForMonths,
			ServiceRenderedPercentage: r.ServiceRenderedPercentage,
			ServiceRenderedAmount:     r.ServiceRenderedAmount,
			AnnualLeaveIndemnity:      r.AnnualLeaveIndemnity,
			EndOfContractIndemnity:    r.EndOfContractIndemnity,
			SocialRightsIndemnity:     r.SocialRightsIndemnity,
			TotalAmount:               r.TotalAmount,
			AccruedSalary:             r.AccruedSalary,
			UnusedLeaveDays:           r.UnusedLeaveDays,
			UnusedLeaveAmount:         r.UnusedLeaveAmount,
			NoticePay:                 r.NoticePay,
			NoticeDays:                r.NoticeDays,
			SeverancePay:              r.SeverancePay,
			OtherBenefits:             r.OtherBenefits,
			Deductions:                r.Deductions,
			PaidAmount:                r.PaidAmount,
			RemainingAmount:           r.RemainingAmount,
		},
		PaymentStatus:       domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod:       domain.PaymentMethod(r.PaymentMethod),
		PaymentDate:         r.PaymentDate,
		PaymentReference:    r.PaymentReference,
		ReturnedItems:       items,
		DocumentsReturned:   returned,
		AdministrativeNotes: r.AdministrativeNotes,
		Acknowledged:        r.Acknowledged,
		AcknowledgedAt:      r.AcknowledgedAt,
		ApprovedBy:          r.ApprovedBy,
		ApprovedAt:          r.ApprovedAt,
		CreatedBy:           r.CreatedBy,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}, nil
}

// namedPlaceholders turns "a, b" into ":a, :b"
func namedPlaceholders(columns string) string {
	names := strings.Fields(strings.ReplaceAll(columns, ",", " "))
	return ":" + strings.Join(names, ", :")
}

func rowsToDocuments(rows []documentRow) ([]*domain.EndOfWorkDocument, error) {
	docs := make([]*domain.EndOfWorkDocument, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.EndOfWorkDocument) error {
	row, err := toDocumentRow(doc)
	if err != nil {
		return err
	}

	query := `INSERT INTO end_of_work_documents (` + documentColumns + `) VALUES (` + namedPlaceholders(documentColumns) + `)`

	_, err = r.db.NamedExecContext(ctx, query, row)
	return translate(err, customError.ErrDocumentNotFound)
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EndOfWorkDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM end_of_work_documents WHERE id = $1`

	var row documentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, customError.ErrDocumentNotFound)
	}

	return row.toDomain()
}

func (r *documentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM end_of_work_documents WHERE document_number = $1)`, number)
	return exists, err
}

func (r *documentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]*domain.EndOfWorkDocument, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.AgentID != nil {
		where += fmt.Sprintf(" AND agent_id = $%d", argIdx)
		args = append(args, *filter.AgentID)
		argIdx++
	}
	if filter.PaymentStatus != "" {
		where += fmt.Sprintf(" AND payment_status = $%d", argIdx)
		args = append(args, string(filter.PaymentStatus))
		argIdx++
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM end_of_work_documents `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM end_of_work_documents %s
		ORDER BY termination_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, documentColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	docs, err := rowsToDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *documentRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM end_of_work_documents WHERE document_number LIKE $1`,
		fmt.Sprintf("DFT-%d-%%", year))
	return count, err
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64) error {
	return r.update(ctx, r.db, doc, expectedVersion)
}

func (r *documentRepository) update(ctx context.Context, exec sqlx.ExtContext, doc *domain.EndOfWorkDocument, expectedVersion int64) error {
	row, err := toDocumentRow(doc)
	if err != nil {
		return err
	}
	row.Version = expectedVersion

	query := `UPDATE end_of_work_documents SET ` + documentAssignments + `
		WHERE id = :id AND version = :version`

	res, err := sqlx.NamedExecContext(ctx, exec, query, row)
	if err != nil {
		return translate(err, customError.ErrDocumentNotFound)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := sqlx.GetContext(ctx, exec, &exists,
			`SELECT EXISTS (SELECT 1 FROM end_of_work_documents WHERE id = $1)`, doc.ID); err != nil {
			return err
		}
		if !exists {
			return customError.ErrDocumentNotFound
		}
		return customError.ErrVersionConflict
	}

	doc.Version = expectedVersion + 1
	return nil
}

func (r *documentRepository) RecordPayment(ctx context.Context, doc *domain.EndOfWorkDocument, expectedVersion int64, payment *domain.SettlementPayment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.update(ctx, tx, doc, expectedVersion); err != nil {
		doc.Version = expectedVersion
		return err
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO settlement_payments (id, document_id, amount, method, reference, paid_at, recorded_by)
		VALUES (:id, :document_id, :amount, :method, :reference, :paid_at, :recorded_by)
	`, payment)
	if err != nil {
		doc.Version = expectedVersion
		return err
	}

	if err := tx.Commit(); err != nil {
		doc.Version = expectedVersion
		return err
	}
	return nil
}

func (r *documentRepository) ListPayments(ctx context.Context, documentID uuid.UUID) ([]*domain.SettlementPayment, error) {
	query := `
		SELECT id, document_id, amount, method, reference, paid_at, recorded_by
		FROM settlement_payments
		WHERE document_id = $1
		ORDER BY paid_at, id
	`

	payments := []*domain.SettlementPayment{}
	if err := r.db.SelectContext(ctx, &payments, query, documentID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM end_of_work_documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) FindInconsistent(ctx context.Context) ([]*domain.EndOfWorkDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM end_of_work_documents
		WHERE remaining_amount <> total_amount - paid_amount
		ORDER BY created_at`

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rowsToDocuments(rows)
}
