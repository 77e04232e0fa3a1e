package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AgentStatusActive = "active"

	UserRoleAgent = "agent"
)

// Agent is a worker placed by the company.
type Agent struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty" db:"user_id"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Phone     string     `json:"phone,omitempty" db:"phone"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// DisplayName is the agent's name as shown on documents.
func (a *Agent) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// User is a login account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// NormalizeEmail is the canonical form used for uniqueness lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
