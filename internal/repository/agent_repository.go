package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/settlement-engine/internal/domain"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

const agentColumns = `id, user_id, first_name, last_name, email, phone, status, created_at`

type agentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.db.GetContext(ctx, &agent, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, customError.ErrAgentNotFound)
	}
	return &agent, nil
}

func (r *agentRepository) FindByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.db.GetContext(ctx, &agent, `SELECT `+agentColumns+` FROM agents WHERE email = $1`,
		domain.NormalizeEmail(email))
	if err != nil {
		return nil, translate(err, customError.ErrAgentNotFound)
	}
	return &agent, nil
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	agent.Email = domain.NormalizeEmail(agent.Email)

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO agents (`+agentColumns+`)
		VALUES (:id, :user_id, :first_name, :last_name, :email, :phone, :status, :created_at)
	`, agent)
	return translate(err, customError.ErrAgentNotFound)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`,
		domain.NormalizeEmail(email))
	if err != nil {
		return nil, translate(err, customError.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (:id, :email, :password_hash, :role, :created_at)
	`, user)
	return translate(err, customError.ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM agents WHERE user_id = $1)
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrUserNotFound
	}
	return nil
}
