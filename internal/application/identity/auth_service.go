// Package identityapp implements registration, verification and login.
package identityapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/auth"
	"github.com/sopas/backend/internal/infrastructure/mail"
)

const allocateRetries = 3

// AuthService implements the register / verify / login flows.
type AuthService struct {
	users         identity.UserRepository
	subscriptions identity.SubscriptionOrderRepository
	otps          identity.OTPStore
	alloc         *numbering.Allocator
	txm           shared.TxManager
	tokens        *auth.JWTService
	sender        mail.Sender
	logger        *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users identity.UserRepository,
	subscriptions identity.SubscriptionOrderRepository,
	otps identity.OTPStore,
	alloc *numbering.Allocator,
	txm shared.TxManager,
	tokens *auth.JWTService,
	sender mail.Sender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		subscriptions: subscriptions,
		otps:          otps,
		alloc:         alloc,
		txm:           txm,
		tokens:        tokens,
		sender:        sender,
		logger:        logger,
	}
}

// RegisterInput carries the attributes for a new account.
type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register creates a user with an allocated employee identifier and a
// free-trial subscription order in one transaction. The first account
// ever registered becomes the super user. The verification email is a
// best-effort side effect outside the transaction: a mail failure never
// rolls back the registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*identity.User, error) {
	var created *identity.User

	for attempt := 0; ; attempt++ {
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			existing, err := s.users.Count(txCtx)
			if err != nil {
				return err
			}
			id, err := s.alloc.Allocate(txCtx, numbering.KindUser, numbering.UserPrefix, s.seed())
			if err != nil {
				return err
			}
			u, err := identity.NewUser(id, input.FirstName, input.LastName, input.Email, input.Password)
			if err != nil {
				return err
			}
			u.Phone = input.Phone
			if existing == 0 {
				u.PromoteSuper()
			}
			if err := s.users.Save(txCtx, u); err != nil {
				return err
			}
			trial, err := identity.NewFreeTrialOrder(u.ID)
			if err != nil {
				return err
			}
			if err := s.subscriptions.Save(txCtx, trial); err != nil {
				return err
			}
			created = u
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, shared.ErrAlreadyExists) && attempt < allocateRetries-1 {
			// Could be an employee id collision rather than a duplicate
			// email. Resync and retry; a true duplicate fails again.
			if rErr := s.alloc.Resync(ctx, numbering.KindUser, numbering.UserPrefix, s.seed()); rErr != nil {
				return nil, rErr
			}
			continue
		}
		return nil, err
	}

	s.issueOTP(ctx, created.Email, mail.OTPMessage)
	return created, nil
}

// VerifyOTP checks a one-time password and marks the account verified.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	stored, err := s.otps.Get(ctx, u.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("OTP_EXPIRED", "OTP has expired, request a new one")
		}
		return err
	}
	if stored != code {
		return shared.NewDomainError("OTP_MISMATCH", "Incorrect OTP")
	}
	u.MarkVerified()
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, u.Email); err != nil {
		s.logger.Warn("Failed to delete consumed OTP", zap.Error(err))
	}
	return nil
}

// ResendOTP re-sends the active code, or issues a fresh one when the
// previous code expired.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Account is already verified")
	}
	s.issueOTP(ctx, u.Email, mail.OTPMessage)
	return nil
}

// RequestPasswordReset emails a reset code to the account's address.
// An unexpired code from a previous request is re-sent unchanged.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	s.issueOTP(ctx, u.Email, mail.PasswordResetMessage)
	return nil
}

// ResetPassword checks the emailed reset code and replaces the
// account's password. The code is consumed on success.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	stored, err := s.otps.Get(ctx, u.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("OTP_EXPIRED", "Reset code has expired, request a new one")
		}
		return err
	}
	if stored != code {
		return shared.NewDomainError("OTP_MISMATCH", "Incorrect reset code")
	}
	if err := u.ChangePassword(newPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, u.Email); err != nil {
		s.logger.Warn("Failed to delete consumed OTP", zap.Error(err))
	}
	return nil
}

// LoginResult carries the authenticated user and their token pair.
type LoginResult struct {
	User   *identity.User
	Tokens *auth.TokenPair
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, shared.ErrUnauthorized
	}
	if !u.IsVerified {
		return nil, shared.NewDomainError("NOT_VERIFIED", "Verify your email before logging in")
	}

	tokens, err := s.tokens.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     u.ID,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		IsSuper:    u.IsSuper,
	})
	if err != nil {
		return nil, err
	}

	u.RecordLogin()
	if err := s.users.Save(ctx, u); err != nil {
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}
	return &LoginResult{User: u, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	return s.tokens.RefreshTokenPair(refreshToken, u.Email, u.EmployeeID, u.IsSuper)
}

// GetUser returns the account for an authenticated user ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfileInput carries the editable account fields. Omitted
// fields keep their current value.
type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateProfile patches the authenticated user's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*identity.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.UpdateProfile(input.FirstName, input.LastName, input.Phone)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every account, ordered by employee identifier.
func (s *AuthService) ListUsers(ctx context.Context) ([]*identity.User, error) {
	return s.users.FindAll(ctx)
}

// issueOTP stores a code for the address and emails it with the given
// message builder. The store keeps an unexpired existing code, so
// resending within the window delivers the same code. Failures are
// logged, never surfaced.
func (s *AuthService) issueOTP(ctx context.Context, email string, build func(to, code string) mail.Message) {
	code, err := identity.GenerateOTP()
	if err != nil {
		s.logger.Error("Failed to generate OTP", zap.Error(err))
		return
	}
	if err := s.otps.Put(ctx, email, code, identity.OTPTTL); err != nil {
		s.logger.Error("Failed to store OTP", zap.Error(err))
		return
	}
	// Re-read so the email carries the effective code, not a fresh one
	// that lost to an existing unexpired entry.
	effective, err := s.otps.Get(ctx, email)
	if err != nil {
		effective = code
	}
	if err := s.sender.Send(ctx, build(email, effective)); err != nil {
		s.logger.Warn("Failed to send OTP email", zap.String("email", email), zap.Error(err))
	}
}

func (s *AuthService) seed() numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.users.MaxSequence(ctx, numbering.UserPrefix)
	}
}
