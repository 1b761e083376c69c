package identityapp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/auth"
	"github.com/sopas/backend/internal/infrastructure/config"
	"github.com/sopas/backend/internal/infrastructure/mail"
	"github.com/sopas/backend/internal/infrastructure/otp"
	"github.com/sopas/backend/internal/infrastructure/persistence"
)

type authEnv struct {
	svc  *AuthService
	db   *gorm.DB
	otps *otp.InMemoryOTPStore
}

func setupAuth(t *testing.T) *authEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	logger := zap.NewNop()
	otps := otp.NewInMemoryOTPStore()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test",
	})

	svc := NewAuthService(
		persistence.NewGormUserRepository(db),
		persistence.NewGormSubscriptionOrderRepository(db),
		otps,
		numbering.NewAllocator(persistence.NewGormSequenceStore(db)),
		persistence.NewGormTxManager(db),
		tokens,
		mail.NewLogSender(logger, config.MailConfig{}),
		logger,
	)
	return &authEnv{svc: svc, db: db, otps: otps}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: "Asha",
		LastName:  "Nair",
		Email:     email,
		Password:  "s3cret-pass",
	}
}

func TestRegisterCreatesUserTrialAndOTP(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP001", u.EmployeeID)
	assert.True(t, u.IsSuper, "first account becomes super user")

	var trials []identity.SubscriptionOrder
	require.NoError(t, env.db.Where("user_id = ?", u.ID).Find(&trials).Error)
	require.Len(t, trials, 1)
	assert.Equal(t, identity.PlanFreeTrial, trials[0].Plan)

	code, err := env.otps.Get(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Len(t, code, identity.OTPLength)
}

func TestSecondRegistrationIsNotSuper(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerInput("first@example.com"))
	require.NoError(t, err)

	second, err := env.svc.Register(ctx, registerInput("second@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP002", second.EmployeeID)
	assert.False(t, second.IsSuper)
}

func TestRegisterDuplicateEmailRollsBackEverything(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, registerInput("asha@example.com"))
	require.Error(t, err)

	var userCount, trialCount int64
	require.NoError(t, env.db.Model(&identity.User{}).Count(&userCount).Error)
	require.NoError(t, env.db.Model(&identity.SubscriptionOrder{}).Count(&trialCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), trialCount)
}

func TestVerifyOTPMarksAccountVerified(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)

	code, err := env.otps.Get(ctx, u.Email)
	require.NoError(t, err)

	require.NoError(t, env.svc.VerifyOTP(ctx, u.Email, code))

	var stored identity.User
	require.NoError(t, env.db.First(&stored, "id = ?", u.ID).Error)
	assert.True(t, stored.IsVerified)

	// Code is consumed.
	_, err = env.otps.Get(ctx, u.Email)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)

	err = env.svc.VerifyOTP(ctx, u.Email, "0000\x00") // cannot match a digit code
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OTP_MISMATCH", domainErr.Code)
}

func TestResendOTPKeepsActiveCode(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)

	before, err := env.otps.Get(ctx, u.Email)
	require.NoError(t, err)

	require.NoError(t, env.svc.ResendOTP(ctx, u.Email))

	after, err := env.otps.Get(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoginFlow(t *testing.T) {
	env := setupAuth(t)
	ctx := context.Background()

	u, err := env.svc.Register(ctx, registerInput("asha@example.com"))
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, err = env.svc.Login(ctx, u.Email, "s3cret-pass")
	require.Error(t, err)

	code, err := env.otps.Get(ctx, u.Email)
	require.NoError(t, err)
	require.NoError(t, env.svc.VerifyOTP(ctx, u.Email, code))

	result, err := env.svc.Login(ctx, u.Email, "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	_, err = env.svc.Login(ctx, u.Email, "wrong-pass")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	refreshed, err := env.svc.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}
