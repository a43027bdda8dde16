package repository

import (
	"context"
	"fmt"

	"github.com/suprema-shop/auth-service/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User  UserRepository
	Token TokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Mongo) *Repositories {
	return &Repositories{
		User:  NewUserRepository(db),
		Token: NewTokenRepository(db),
	}
}

// EnsureIndexes creates the unique indexes the invariants depend on: unique
// user name and email, one refresh token per user, and a lookup index on the
// token value.
func EnsureIndexes(ctx context.Context, db *database.Mongo) error {
	unique := options.Index().SetUnique(true)

	_, err := db.DB.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = db.DB.Collection(tokensCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "refreshToken", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("failed to create token indexes: %w", err)
	}

	return nil
}
