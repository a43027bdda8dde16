package service

import (
	"context"

	"github.com/suprema-shop/auth-service/internal/domain"
	"github.com/suprema-shop/auth-service/internal/dto"
)

// AuthService orchestrates login, logout, token refresh and the password
// lifecycle.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) error
	AdminSignup(ctx context.Context, req *dto.SignupRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, presented, ip, userAgent string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*AuthResult, error)
	VerifyAccount(ctx context.Context, id string) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate resolves the identity behind an access token: signature
	// and expiry, user existence, and the password-change staleness check.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Mailer delivers out-of-band messages. Implementations must not block other
// in-flight requests beyond the passed context.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
