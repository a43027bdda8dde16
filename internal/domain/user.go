package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role controls what a user may do. New accounts always start as RoleUser;
// only an authenticated admin can create another admin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the credential record. The password hash and reset-token fields
// never leave the service.
type User struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string        `bson:"name" json:"name"`
	Email                string        `bson:"email" json:"email"`
	PhoneNumber          string        `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash         string        `bson:"password" json:"-"`
	Role                 Role          `bson:"role" json:"role"`
	Verified             bool          `bson:"isVerify" json:"isVerify"`
	PasswordChangedAt    *time.Time    `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string        `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time    `bson:"passwordResetExpires,omitempty" json:"-"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time (unix seconds). Comparison is at one-second
// granularity; SetPassword backdates the change timestamp by one second so a
// token minted in the same instant as the write stays valid.
func (u *User) ChangedPasswordAfter(issuedAt int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt < u.PasswordChangedAt.Unix()
}

// SetPassword stores a new password hash and stamps the change time.
func (u *User) SetPassword(hash string) {
	u.PasswordHash = hash
	changedAt := time.Now().Add(-time.Second)
	u.PasswordChangedAt = &changedAt
}

// ClearResetToken drops any pending password-reset state.
func (u *User) ClearResetToken() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}
