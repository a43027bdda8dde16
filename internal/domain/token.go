package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RefreshToken is the single active session descriptor for a user. At most
// one record exists per user (unique index on the user field); a new login
// or a rotation supersedes the previous record.
type RefreshToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    bson.ObjectID `bson:"user" json:"-"`
	Token     string        `bson:"refreshToken" json:"refreshToken"`
	IP        string        `bson:"ip" json:"-"`
	UserAgent string        `bson:"userAgent" json:"-"`
	// Valid is flipped to false instead of deleting the record when a
	// security event must block further refreshes without a delete race.
	Valid     bool      `bson:"isValid" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

// TokenClaims are the verified contents of a signed token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}
