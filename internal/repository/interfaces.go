package repository

import (
	"context"
	"time"

	"github.com/suprema-shop/auth-service/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByResetToken matches a stored reset-token digest whose expiry is
	// still after now.
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetVerified(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenRepository is the refresh token store: at most one live record per
// user.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	GetByUser(ctx context.Context, userID bson.ObjectID) (*domain.RefreshToken, error)
	// Replace atomically swaps the record holding oldToken for the new
	// record. ErrNotFound means the old token was already rotated away.
	Replace(ctx context.Context, oldToken string, token *domain.RefreshToken) error
	// Invalidate flips the validity flag without deleting, so a security
	// event can block refresh with no delete race.
	Invalidate(ctx context.Context, userID bson.ObjectID) error
	// DeleteByUser is idempotent: deleting a missing record is not an error.
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}
