package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/settlement-engine/internal/domain"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

const recruitmentColumns = `id, first_name, last_name, email, phone, position, notes, status,
	reviewed_by, reviewed_at, converted_to_agent, converted_at, created_at, updated_at`

type recruitmentRepository struct {
	db *sqlx.DB
}

func NewRecruitmentRepository(db *sqlx.DB) RecruitmentRepository {
	return &recruitmentRepository{db: db}
}

func (r *recruitmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error) {
	var rec domain.Recruitment
	err := r.db.GetContext(ctx, &rec, `SELECT `+recruitmentColumns+` FROM recruitments WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, customError.ErrRecruitmentNotFound)
	}
	return &rec, nil
}

func (r *recruitmentRepository) Update(ctx context.Context, rec *domain.Recruitment) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE recruitments
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
			position = :position, notes = :notes, status = :status,
			reviewed_by = :reviewed_by, reviewed_at = :reviewed_at, updated_at = :updated_at
		WHERE id = :id AND status <> 'converted'
	`, rec)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either gone or converted in the meantime
		current, err := r.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if current.IsConverted() {
			return customError.ErrRecruitmentConverted
		}
	}
	return nil
}

func (r *recruitmentRepository) MarkConverted(ctx context.Context, rec *domain.Recruitment) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE recruitments
		SET status = 'converted', converted_to_agent = :converted_to_agent, converted_at = :converted_at,
			reviewed_by = :reviewed_by, reviewed_at = :reviewed_at, updated_at = :updated_at
		WHERE id = :id AND status = 'accepted' AND converted_to_agent IS NULL
	`, rec)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *recruitmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recruitments WHERE id = $1 AND status <> 'converted'`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
