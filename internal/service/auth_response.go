package service

import "github.com/suprema-shop/auth-service/internal/domain"

// AuthResult is what a successful auth operation hands back to the handler:
// both tokens plus the user for sanitized serialization. RefreshToken may be
// empty on password reset/update when the user has no live session.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}
