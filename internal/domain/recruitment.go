package domain

import (
	"time"

	"github.com/google/uuid"
)

type RecruitmentStatus string

const (
	RecruitmentStatusPending   RecruitmentStatus = "pending"
	RecruitmentStatusReviewed  RecruitmentStatus = "reviewed"
	RecruitmentStatusAccepted  RecruitmentStatus = "accepted"
	RecruitmentStatusRejected  RecruitmentStatus = "rejected"
	RecruitmentStatusConverted RecruitmentStatus = "converted"
)

// Recruitment is a job application. Once converted it is read-only apart
// from the linkage fields stamped at conversion time.
type Recruitment struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	FirstName        string            `json:"firstName" db:"first_name"`
	LastName         string            `json:"lastName" db:"last_name"`
	Email            string            `json:"email" db:"email"`
	Phone            string            `json:"phone,omitempty" db:"phone"`
	Position         string            `json:"position,omitempty" db:"position"`
	Notes            string            `json:"notes,omitempty" db:"notes"`
	Status           RecruitmentStatus `json:"status" db:"status"`
	ReviewedBy       *uuid.UUID        `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt       *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ConvertedToAgent *uuid.UUID        `json:"convertedToAgent,omitempty" db:"converted_to_agent"`
	ConvertedAt      *time.Time        `json:"convertedAt,omitempty" db:"converted_at"`
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" db:"updated_at"`
}

// IsConverted reports whether the application has been promoted to an agent.
func (r *Recruitment) IsConverted() bool {
	return r.Status == RecruitmentStatusConverted || r.ConvertedToAgent != nil
}

// UpdateRecruitmentRequest is the allow-list of client-mutable fields.
// "converted" is only reachable through conversion.
type UpdateRecruitmentRequest struct {
	FirstName *string            `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string            `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email     *string            `json:"email" validate:"omitempty,email"`
	Phone     *string            `json:"phone" validate:"omitempty,max=32"`
	Position  *string            `json:"position" validate:"omitempty,max=100"`
	Notes     *string            `json:"notes" validate:"omitempty,max=4000"`
	Status    *RecruitmentStatus `json:"status" validate:"omitempty,oneof=pending reviewed accepted rejected"`
}

// ConversionResult is returned by a successful conversion.
type ConversionResult struct {
	Recruitment *Recruitment `json:"recruitment"`
	Agent       *Agent       `json:"agent"`
	AgentReused bool         `json:"agentReused"`
}
