package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangedPasswordAfter(t *testing.T) {
	user := &User{}

	// No recorded change: any token is fine.
	assert.False(t, user.ChangedPasswordAfter(time.Now().Unix()))

	changedAt := time.Now()
	user.PasswordChangedAt = &changedAt

	assert.True(t, user.ChangedPasswordAfter(changedAt.Add(-time.Hour).Unix()))
	assert.False(t, user.ChangedPasswordAfter(changedAt.Add(time.Hour).Unix()))

	// Same second counts as not-stale.
	assert.False(t, user.ChangedPasswordAfter(changedAt.Unix()))
}

func TestSetPasswordBackdatesChangeTime(t *testing.T) {
	user := &User{PasswordHash: "old"}

	before := time.Now()
	user.SetPassword("new")

	assert.Equal(t, "new", user.PasswordHash)
	if assert.NotNil(t, user.PasswordChangedAt) {
		// Backdated so a token minted in the same instant stays valid.
		assert.True(t, user.PasswordChangedAt.Before(before))
	}

	assert.False(t, user.ChangedPasswordAfter(before.Unix()))
}

func TestClearResetToken(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	user := &User{
		PasswordResetToken:   "digest",
		PasswordResetExpires: &expires,
	}

	user.ClearResetToken()

	assert.Empty(t, user.PasswordResetToken)
	assert.Nil(t, user.PasswordResetExpires)
}
