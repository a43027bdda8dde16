package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suprema-shop/auth-service/internal/domain"
	"github.com/suprema-shop/auth-service/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const tokensCollection = "refresh_tokens"

// tokenRepository implements TokenRepository on MongoDB
type tokenRepository struct {
	coll *mongo.Collection
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.Mongo) TokenRepository {
	return &tokenRepository{coll: db.DB.Collection(tokensCollection)}
}

// Create inserts a refresh token record. The unique index on the user field
// enforces the one-session-per-user constraint.
func (r *tokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if token.ID.IsZero() {
		token.ID = bson.NewObjectID()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, token); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("refresh token for user %s already exists: %w", token.UserID.Hex(), ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetByToken retrieves a record by the signed token string
func (r *tokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	record := &domain.RefreshToken{}
	err := r.coll.FindOne(ctx, bson.M{"refreshToken": token}).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("refresh token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return record, nil
}

// GetByUser retrieves the single record for a user
func (r *tokenRepository) GetByUser(ctx context.Context, userID bson.ObjectID) (*domain.RefreshToken, error) {
	record := &domain.RefreshToken{}
	err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("refresh token for user %s not found: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token by user: %w", err)
	}
	return record, nil
}

// Replace swaps the record holding oldToken for the new record in a single
// findAndModify, so rotation never leaves two live tokens for one user.
func (r *tokenRepository) Replace(ctx context.Context, oldToken string, token *domain.RefreshToken) error {
	if token.ID.IsZero() {
		token.ID = bson.NewObjectID()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	err := r.coll.FindOneAndReplace(ctx, bson.M{"refreshToken": oldToken}, token).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("refresh token not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return nil
}

// Invalidate flips the validity flag on the user's record
func (r *tokenRepository) Invalidate(ctx context.Context, userID bson.ObjectID) error {
	update := bson.M{"$set": bson.M{"isValid": false}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"user": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("refresh token for user %s not found: %w", userID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteByUser removes the user's record. Absence is not an error.
func (r *tokenRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
