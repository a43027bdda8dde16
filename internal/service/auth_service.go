package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suprema-shop/auth-service/internal/apperrors"
	"github.com/suprema-shop/auth-service/internal/domain"
	"github.com/suprema-shop/auth-service/internal/dto"
	"github.com/suprema-shop/auth-service/internal/repository"
	"github.com/suprema-shop/auth-service/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

// authService implements AuthService
type authService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	jwtManager  *utils.JWTManager
	mailer      Mailer
	bcryptCost  int
	frontendURL string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	mailer Mailer,
	bcryptCost int,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		jwtManager:  jwtManager,
		mailer:      mailer,
		bcryptCost:  bcryptCost,
		frontendURL: frontendURL,
	}
}

// Signup creates an unverified user and sends the verification email. If the
// email cannot be delivered the freshly created user is removed again, so
// nobody ends up with an account they were never told about.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return err
	}

	verifyURL := fmt.Sprintf("%s/verify-account/%s", s.frontendURL, user.ID.Hex())
	if err := s.mailer.Send(ctx, user.Email, "Verify account from Suprema.", verificationEmail(user.Name, verifyURL)); err != nil {
		if delErr := s.userRepo.Delete(ctx, user.ID.Hex()); delErr != nil {
			return fmt.Errorf("failed to roll back user after email failure: %w", errors.Join(err, delErr))
		}
		return apperrors.EmailDelivery()
	}

	return nil
}

// AdminSignup creates a user and immediately marks it admin and verified.
// The handler guards this with an admin role check.
func (s *authService) AdminSignup(ctx context.Context, req *dto.SignupRequest) error {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return err
	}

	user.Role = domain.RoleAdmin
	user.Verified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to promote admin: %w", err)
	}

	return nil
}

func (s *authService) createUser(ctx context.Context, req *dto.SignupRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        utils.SanitizeEmail(req.Email),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Verified:     false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperrors.BadRequest(err.Error())
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user. A still-valid existing session keeps its
// refresh token and only gets a fresh access token; a revoked session cannot
// be resumed by logging in again.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidCredentials("Incorrect email or password")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials("Incorrect email or password")
	}

	if !user.Verified {
		return nil, apperrors.InvalidCredentials("Please verify your email")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	existing, err := s.tokenRepo.GetByUser(ctx, user.ID)
	switch {
	case err == nil:
		if !existing.Valid {
			return nil, apperrors.InvalidCredentials("Invalid credentials")
		}
		// Active session: reuse the stored refresh token, no rotation.
		return &AuthResult{AccessToken: accessToken, RefreshToken: existing.Token, User: user}, nil

	case errors.Is(err, repository.ErrNotFound):
		refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}

		record := &domain.RefreshToken{
			UserID:    user.ID,
			Token:     refreshToken,
			IP:        ip,
			UserAgent: userAgent,
			Valid:     true,
		}
		if err := s.tokenRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save refresh token: %w", err)
		}

		return &AuthResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil

	default:
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
}

// Logout deletes the user's refresh token record. Logging out twice is fine.
func (s *authService) Logout(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.tokenRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// Refresh rotates a presented refresh token: a new access and refresh token
// are minted and the stored record is atomically replaced, so the presented
// token can never be used twice.
func (s *authService) Refresh(ctx context.Context, presented, ip, userAgent string) (*AuthResult, error) {
	if presented == "" {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	record, err := s.tokenRepo.GetByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Refresh token is not valid")
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if !record.Valid {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	// Signature/expiry verification is independent of the store lookup;
	// both must pass.
	userID, err := s.jwtManager.ValidateRefreshToken(presented)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User does no longer exist")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	newRecord := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		IP:        ip,
		UserAgent: userAgent,
		Valid:     true,
	}
	if err := s.tokenRepo.Replace(ctx, presented, newRecord); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Someone rotated first; the presented token is dead.
			return nil, apperrors.Unauthorized("Refresh token is not valid")
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return &AuthResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// ForgotPassword stores a hashed reset token on the user and emails the
// plaintext. A failed email rolls the token back: a user must never hold a
// live reset token they were not notified about.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("There's no user with that email")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	plaintext, digest, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	user.PasswordResetToken = digest
	user.PasswordResetExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/account/reset-password/%s", s.frontendURL, plaintext)
	if err := s.mailer.Send(ctx, user.Email, "Your password reset token (valid for 10 min)", resetEmail(user.Name, resetURL)); err != nil {
		user.ClearResetToken()
		if rbErr := s.userRepo.Update(ctx, user); rbErr != nil {
			return fmt.Errorf("failed to roll back reset token after email failure: %w", errors.Join(err, rbErr))
		}
		return apperrors.EmailDelivery()
	}

	return nil
}

// ResetPassword consumes a reset token: sets the new password, clears the
// token fields, and hands back a fresh access token alongside the existing
// (unrotated) refresh token, if any.
func (s *authService) ResetPassword(ctx context.Context, token, password, confirm string) (*AuthResult, error) {
	if password != confirm {
		return nil, apperrors.BadRequest("Passwords do not match")
	}

	user, err := s.userRepo.GetByResetToken(ctx, utils.HashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidResetToken()
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.SetPassword(hash)
	user.ClearResetToken()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.reissueAccessToken(ctx, user)
}

// UpdatePassword changes the password of a logged-in user after verifying
// the old one.
func (s *authService) UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials("Incorrect password")
	}

	if req.OldPassword == req.NewPassword {
		return nil, apperrors.BadRequest("New password must be different from old one")
	}

	if req.NewPassword != req.NewPasswordConfirm {
		return nil, apperrors.BadRequest("Passwords do not match")
	}

	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.SetPassword(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.reissueAccessToken(ctx, user)
}

// reissueAccessToken mints a fresh access token and pairs it with the
// existing refresh token record, without rotating it.
func (s *authService) reissueAccessToken(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	result := &AuthResult{AccessToken: accessToken, User: user}

	record, err := s.tokenRepo.GetByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up refresh token: %w", err)
		}
		return result, nil
	}

	result.RefreshToken = record.Token
	return result, nil
}

// VerifyAccount flips the verification flag. Idempotent.
func (s *authService) VerifyAccount(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.SetVerified(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user and any refresh token record.
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.tokenRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// GetUser gets user information
func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Authenticate resolves the caller behind an access token.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User does no longer exist")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ChangedPasswordAfter(claims.Iat) {
		return nil, apperrors.NotFound("User password has already changed, please login again")
	}

	return user, nil
}
