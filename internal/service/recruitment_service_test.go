package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/segyhp/settlement-engine/internal/domain"
	"github.com/segyhp/settlement-engine/internal/mocks"
	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

type recruitmentFixture struct {
	service      *RecruitmentService
	recruitments *mocks.RecruitmentRepository
	agents       *mocks.AgentRepository
	users        *mocks.UserRepository
}

func newRecruitmentFixture(t *testing.T) *recruitmentFixture {
	t.Helper()

	f := &recruitmentFixture{
		recruitments: new(mocks.RecruitmentRepository),
		agents:       new(mocks.AgentRepository),
		users:        new(mocks.UserRepository),
	}
	f.service = NewRecruitmentService(f.recruitments, f.agents, f.users)
	f.service.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		f.recruitments.AssertExpectations(t)
		f.agents.AssertExpectations(t)
		f.users.AssertExpectations(t)
	})
	return f
}

func recruitment(status domain.RecruitmentStatus) *domain.Recruitment {
	return &domain.Recruitment{
		ID:        uuid.New(),
		FirstName: "Marie",
		LastName:  "Essomba",
		Email:     "marie.essomba@example.com",
		Status:    status,
	}
}

func convertedRecruitment() *domain.Recruitment {
	rec := recruitment(domain.RecruitmentStatusConverted)
	agentID := uuid.New()
	rec.ConvertedToAgent = &agentID
	rec.ConvertedAt = &fixedNow
	return rec
}

func TestRecruitmentService_ConvertToAgent_RequiresAccepted(t *testing.T) {
	for _, status := range []domain.RecruitmentStatus{
		domain.RecruitmentStatusPending,
		domain.RecruitmentStatusReviewed,
		domain.RecruitmentStatusRejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newRecruitmentFixture(t)
			ctx := context.Background()
			rec := recruitment(status)
			f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)

			_, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, customError.ErrRecruitmentNotAccepted)
			assert.Equal(t, customError.KindInvalidState, customError.KindOf(err))
			f.agents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRecruitmentService_ConvertToAgent_CreatesUserAndAgent(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	actor := uuid.New()

	var createdUser *domain.User
	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrAgentNotFound)
	f.users.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrUserNotFound)
	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { createdUser = args.Get(1).(*domain.User) }).
		Return(nil)
	f.agents.On("Create", ctx, mock.AnythingOfType("*domain.Agent")).Return(nil)
	f.recruitments.On("MarkConverted", ctx, rec).Return(true, nil)

	result, err := f.service.ConvertToAgent(ctx, rec.ID, actor)

	require.NoError(t, err)
	assert.False(t, result.AgentReused)
	assert.Equal(t, "Marie", result.Agent.FirstName)
	assert.Equal(t, domain.AgentStatusActive, result.Agent.Status)

	require.NotNil(t, createdUser)
	require.NotNil(t, result.Agent.UserID)
	assert.Equal(t, createdUser.ID, *result.Agent.UserID)
	assert.Equal(t, domain.UserRoleAgent, createdUser.Role)
	_, err = bcrypt.Cost([]byte(createdUser.PasswordHash))
	assert.NoError(t, err, "password is stored as a bcrypt hash")

	converted := result.Recruitment
	assert.Equal(t, domain.RecruitmentStatusConverted, converted.Status)
	require.NotNil(t, converted.ConvertedToAgent)
	assert.Equal(t, result.Agent.ID, *converted.ConvertedToAgent)
	require.NotNil(t, converted.ReviewedBy)
	assert.Equal(t, actor, *converted.ReviewedBy)
	assert.Equal(t, fixedNow, *converted.ConvertedAt)
}

func TestRecruitmentService_ConvertToAgent_ReusesAgentWithSameEmail(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	existing := &domain.Agent{ID: uuid.New(), Email: rec.Email}

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(existing, nil)
	f.recruitments.On("MarkConverted", ctx, rec).Return(true, nil)

	result, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, result.AgentReused)
	assert.Equal(t, existing.ID, *result.Recruitment.ConvertedToAgent)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecruitmentService_ConvertToAgent_RecoversFromDuplicateAgent(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	user := &domain.User{ID: uuid.New(), Email: rec.Email}
	raced := &domain.Agent{ID: uuid.New(), Email: rec.Email}

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrAgentNotFound).Once()
	f.users.On("FindByEmail", ctx, rec.Email).Return(user, nil)
	f.agents.On("Create", ctx, mock.AnythingOfType("*domain.Agent")).Return(customError.ErrDuplicateKey)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(raced, nil).Once()
	f.recruitments.On("MarkConverted", ctx, rec).Return(true, nil)

	result, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, result.AgentReused)
	assert.Equal(t, raced.ID, result.Agent.ID)
	assert.Equal(t, raced.ID, *result.Recruitment.ConvertedToAgent)
	f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRecruitmentService_ConvertToAgent_DuplicateAgentDiscardsNewUser(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	racedUser := uuid.New()
	raced := &domain.Agent{ID: uuid.New(), UserID: &racedUser, Email: rec.Email}

	var createdUser *domain.User
	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrAgentNotFound).Once()
	f.users.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrUserNotFound)
	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { createdUser = args.Get(1).(*domain.User) }).
		Return(nil)
	f.agents.On("Create", ctx, mock.AnythingOfType("*domain.Agent")).Return(customError.ErrDuplicateKey)
	f.users.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()
	f.agents.On("FindByEmail", ctx, rec.Email).Return(raced, nil).Once()
	f.recruitments.On("MarkConverted", ctx, rec).Return(true, nil)

	result, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, result.AgentReused)
	assert.Equal(t, raced.ID, result.Agent.ID)
	require.NotNil(t, createdUser)
	f.users.AssertCalled(t, "Delete", ctx, createdUser.ID)
}

func TestRecruitmentService_ConvertToAgent_DuplicateOnOtherKey(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.agents.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrAgentNotFound)
	f.users.On("FindByEmail", ctx, rec.Email).Return(nil, customError.ErrUserNotFound)
	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	f.agents.On("Create", ctx, mock.AnythingOfType("*domain.Agent")).Return(customError.ErrDuplicateKey)
	// Cleanup failures are logged, not returned
	f.users.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(customError.ErrUserNotFound)

	_, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrDuplicateKey)
	assert.Equal(t, customError.KindConflict, customError.KindOf(err))
	f.recruitments.AssertNotCalled(t, "MarkConverted", mock.Anything, mock.Anything)
}

func TestRecruitmentService_ConvertToAgent_Twice(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := convertedRecruitment()

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)

	_, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrAlreadyConverted)
	assert.Equal(t, customError.KindAlreadyConverted, customError.KindOf(err))
	f.agents.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	f.agents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecruitmentService_ConvertToAgent_LostRace(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	existing := &domain.Agent{ID: uuid.New(), Email: rec.Email}

	winner := *rec
	winner.Status = domain.RecruitmentStatusConverted
	winner.ConvertedToAgent = &existing.ID

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil).Once()
	f.agents.On("FindByEmail", ctx, rec.Email).Return(existing, nil)
	f.recruitments.On("MarkConverted", ctx, rec).Return(false, nil)
	f.recruitments.On("GetByID", ctx, rec.ID).Return(&winner, nil).Once()

	_, err := f.service.ConvertToAgent(ctx, rec.ID, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrAlreadyConverted)
}

func TestRecruitmentService_ConvertToAgent_NotFound(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.recruitments.On("GetByID", ctx, id).Return(nil, customError.ErrRecruitmentNotFound)

	_, err := f.service.ConvertToAgent(ctx, id, uuid.New())

	require.Error(t, err)
	assert.Equal(t, customError.KindNotFound, customError.KindOf(err))
}

func TestRecruitmentService_Update_ConvertedIsImmutable(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := convertedRecruitment()
	notes := "late edit"

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)

	_, err := f.service.Update(ctx, rec.ID, &domain.UpdateRecruitmentRequest{Notes: &notes}, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrRecruitmentConverted)
	assert.Equal(t, customError.KindInvalidState, customError.KindOf(err))
	f.recruitments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecruitmentService_Update_StampsReviewer(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusPending)
	actor := uuid.New()
	status := domain.RecruitmentStatusAccepted

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.recruitments.On("Update", ctx, rec).Return(nil)

	got, err := f.service.Update(ctx, rec.ID, &domain.UpdateRecruitmentRequest{Status: &status}, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentStatusAccepted, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, actor, *got.ReviewedBy)
	assert.Equal(t, fixedNow, *got.ReviewedAt)
}

func TestRecruitmentService_Update_RejectsConvertedStatus(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	status := domain.RecruitmentStatusConverted

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)

	_, err := f.service.Update(ctx, rec.ID, &domain.UpdateRecruitmentRequest{Status: &status}, uuid.New())

	require.Error(t, err)
	assert.Equal(t, customError.KindValidation, customError.KindOf(err))
}

func TestRecruitmentService_Update_ConvertedMeanwhile(t *testing.T) {
	f := newRecruitmentFixture(t)
	ctx := context.Background()
	rec := recruitment(domain.RecruitmentStatusAccepted)
	notes := "call back"

	f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
	f.recruitments.On("Update", ctx, rec).Return(customError.ErrRecruitmentConverted)

	_, err := f.service.Update(ctx, rec.ID, &domain.UpdateRecruitmentRequest{Notes: &notes}, uuid.New())

	require.Error(t, err)
	assert.Equal(t, customError.KindInvalidState, customError.KindOf(err))
}

func TestRecruitmentService_Delete(t *testing.T) {
	t.Run("converted", func(t *testing.T) {
		f := newRecruitmentFixture(t)
		ctx := context.Background()
		rec := convertedRecruitment()
		f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)

		err := f.service.Delete(ctx, rec.ID)

		require.Error(t, err)
		assert.Equal(t, customError.KindInvalidState, customError.KindOf(err))
		f.recruitments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("rejected application", func(t *testing.T) {
		f := newRecruitmentFixture(t)
		ctx := context.Background()
		rec := recruitment(domain.RecruitmentStatusRejected)
		f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil)
		f.recruitments.On("Delete", ctx, rec.ID).Return(true, nil)

		assert.NoError(t, f.service.Delete(ctx, rec.ID))
	})

	t.Run("converted between read and delete", func(t *testing.T) {
		f := newRecruitmentFixture(t)
		ctx := context.Background()
		rec := recruitment(domain.RecruitmentStatusAccepted)
		f.recruitments.On("GetByID", ctx, rec.ID).Return(rec, nil).Once()
		f.recruitments.On("Delete", ctx, rec.ID).Return(false, nil)
		f.recruitments.On("GetByID", ctx, rec.ID).Return(convertedRecruitment(), nil).Once()

		err := f.service.Delete(ctx, rec.ID)

		require.Error(t, err)
		assert.ErrorIs(t, err, customError.ErrRecruitmentConverted)
	})
}
