package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/logger"
	"github.com/segyhp/settlement-engine/internal/repository"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

type RecruitmentService struct {
	RecruitmentRepo repository.RecruitmentRepository
	AgentRepo       repository.AgentRepository
	UserRepo        repository.UserRepository
	now             func() time.Time
}

func NewRecruitmentService(
	recruitmentRepo repository.RecruitmentRepository,
	agentRepo repository.AgentRepository,
	userRepo repository.UserRepository,
) *RecruitmentService {
	return &RecruitmentService{
		RecruitmentRepo: recruitmentRepo,
		AgentRepo:       agentRepo,
		UserRepo:        userRepo,
		now:             time.Now,
	}
}

func (s *RecruitmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Recruitment, error) {
	rec, err := s.RecruitmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, recruitmentError(err, id)
	}
	return rec, nil
}

// Update applies request unless the recruitment has been converted.
// Moving the status away from pending stamps the reviewer.
func (s *RecruitmentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateRecruitmentRequest, actorID uuid.UUID) (*domain.Recruitment, error) {
	rec, err := s.RecruitmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, recruitmentError(err, id)
	}
	if rec.IsConverted() {
		return nil, customError.WrapRecruitmentConverted(id.String())
	}

	now := s.now()

	if request.FirstName != nil {
		rec.FirstName = *request.FirstName
	}
	if request.LastName != nil {
		rec.LastName = *request.LastName
	}
	if request.Email != nil {
		rec.Email = *request.Email
	}
	if request.Phone != nil {
		rec.Phone = *request.Phone
	}
	if request.Position != nil {
		rec.Position = *request.Position
	}
	if request.Notes != nil {
		rec.Notes = *request.Notes
	}
	if request.Status != nil {
		status := *request.Status
		if status == domain.RecruitmentStatusConverted {
			return nil, customError.WrapValidation("status converted is only reachable through conversion", nil)
		}
		if status != rec.Status && status != domain.RecruitmentStatusPending {
			reviewer := actorID
			reviewedAt := now
			rec.ReviewedBy = &reviewer
			rec.ReviewedAt = &reviewedAt
		}
		rec.Status = status
	}
	rec.UpdatedAt = now

	if err := s.RecruitmentRepo.Update(ctx, rec); err != nil {
		return nil, recruitmentError(err, id)
	}
	return rec, nil
}

// ConvertToAgent promotes an accepted recruitment into an agent, reusing an
// agent that already holds the applicant's email.
func (s *RecruitmentService) ConvertToAgent(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*domain.ConversionResult, error) {
	rec, err := s.RecruitmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, recruitmentError(err, id)
	}
	if err := conversionGuard(rec); err != nil {
		return nil, err
	}

	agent, reused, err := s.findOrCreateAgent(ctx, rec)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reviewer := actorID
	agentID := agent.ID
	rec.Status = domain.RecruitmentStatusConverted
	rec.ConvertedToAgent = &agentID
	rec.ConvertedAt = &now
	rec.ReviewedBy = &reviewer
	rec.ReviewedAt = &now
	rec.UpdatedAt = now

	changed, err := s.RecruitmentRepo.MarkConverted(ctx, rec)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !changed {
		// Someone converted or moved it after our read
		current, err := s.RecruitmentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, recruitmentError(err, id)
		}
		if err := conversionGuard(current); err != nil {
			return nil, err
		}
		return nil, customError.WrapConcurrentModification(id.String())
	}

	logger.FromContext(ctx).Info().
		Str("recruitment_id", id.String()).
		Str("agent_id", agent.ID.String()).
		Bool("agent_reused", reused).
		Msg("recruitment converted")

	return &domain.ConversionResult{
		Recruitment: rec,
		Agent:       agent,
		AgentReused: reused,
	}, nil
}

// Delete removes a recruitment that has not been converted
func (s *RecruitmentService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.RecruitmentRepo.GetByID(ctx, id)
	if err != nil {
		return recruitmentError(err, id)
	}
	if rec.IsConverted() {
		return customError.WrapRecruitmentConverted(id.String())
	}

	deleted, err := s.RecruitmentRepo.Delete(ctx, id)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !deleted {
		current, err := s.RecruitmentRepo.GetByID(ctx, id)
		if err != nil {
			return recruitmentError(err, id)
		}
		if current.IsConverted() {
			return customError.WrapRecruitmentConverted(id.String())
		}
		return customError.WrapRecruitmentNotFound(id.String())
	}
	return nil
}

// conversionGuard checks that rec may still be converted
func conversionGuard(rec *domain.Recruitment) error {
	if rec.ConvertedToAgent != nil {
		return customError.WrapAlreadyConverted(rec.ID.String(), rec.ConvertedToAgent.String())
	}
	if rec.Status == domain.RecruitmentStatusConverted {
		return customError.WrapAlreadyConverted(rec.ID.String(), "unknown")
	}
	if rec.Status != domain.RecruitmentStatusAccepted {
		return customError.WrapRecruitmentNotAccepted(rec.ID.String(), string(rec.Status))
	}
	return nil
}

func (s *RecruitmentService) findOrCreateAgent(ctx context.Context, rec *domain.Recruitment) (*domain.Agent, bool, error) {
	agent, err := s.AgentRepo.FindByEmail(ctx, rec.Email)
	if err == nil {
		return agent, true, nil
	}
	if !errors.Is(err, customError.ErrAgentNotFound) {
		return nil, false, customError.WrapDatabaseError(err)
	}

	user, created, err := s.findOrCreateUser(ctx, rec.Email)
	if err != nil {
		return nil, false, err
	}

	userID := user.ID
	agent = &domain.Agent{
		ID:        uuid.New(),
		UserID:    &userID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Status:    domain.AgentStatusActive,
		CreatedAt: s.now(),
	}

	err = s.AgentRepo.Create(ctx, agent)
	if err == nil {
		return agent, false, nil
	}

	// The account made for this agent must not outlive a failed insert
	if created {
		s.discardUser(ctx, user)
	}

	if !errors.Is(err, customError.ErrDuplicateKey) {
		return nil, false, customError.WrapDatabaseError(err)
	}

	// A concurrent conversion created the agent first
	existing, err := s.AgentRepo.FindByEmail(ctx, rec.Email)
	switch {
	case err == nil:
		return existing, true, nil
	case errors.Is(err, customError.ErrAgentNotFound):
		// The collision was on a key other than the email
		return nil, false, customError.WrapDuplicateKey("agent")
	default:
		return nil, false, customError.WrapDatabaseError(err)
	}
}

// discardUser removes a user account nothing links to. Failure only leaves an
// unusable account behind, so it is logged rather than returned.
func (s *RecruitmentService) discardUser(ctx context.Context, user *domain.User) {
	if err := s.UserRepo.Delete(ctx, user.ID); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("could not remove unlinked user")
	}
}

// findOrCreateUser also reports whether the account was created by this call
func (s *RecruitmentService) findOrCreateUser(ctx context.Context, email string) (*domain.User, bool, error) {
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, customError.ErrUserNotFound) {
		return nil, false, customError.WrapDatabaseError(err)
	}

	// The account gets an unusable random password until it is reset
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, customError.NewBusinessError(customError.KindUnexpected, "PASSWORD_HASH_ERROR", "could not hash temporary password", err)
	}

	user = &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.UserRoleAgent,
		CreatedAt:    s.now(),
	}

	err = s.UserRepo.Create(ctx, user)
	switch {
	case err == nil:
		return user, true, nil
	case errors.Is(err, customError.ErrDuplicateKey):
		existing, err := s.UserRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, false, customError.WrapDatabaseError(err)
		}
		return existing, false, nil
	default:
		return nil, false, customError.WrapDatabaseError(err)
	}
}

func recruitmentError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, customError.ErrRecruitmentNotFound):
		return customError.WrapRecruitmentNotFound(id.String())
	case errors.Is(err, customError.ErrRecruitmentConverted):
		return customError.WrapRecruitmentConverted(id.String())
	default:
		return customError.WrapDatabaseError(err)
	}
}
