package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, pw := range []string{"password123", "", strings.Repeat("k", 64), "தமிழ்-passphrase"} {
		t.Run(pw, func(t *testing.T) {
			hash, err := HashPassword(pw)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))
			assert.NotEqual(t, pw, hash)
			assert.True(t, VerifyPassword(hash, pw))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_Rejects(t *testing.T) {
	hash, err := HashPassword("member-secret")
	require.NoError(t, err)

	tests := []struct {
		name string
		hash string
		pw   string
	}{
		{"wrong password", hash, "member-secret2"},
		{"empty password", hash, ""},
		{"not a bcrypt hash", "plain-text", "member-secret"},
		{"no hash stored", "", "member-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPassword(tt.hash, tt.pw))
		})
	}
}

func TestCheckPasswordPair(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{name: "matching pair", password: "password123", confirm: "password123"},
		{name: "exactly minimum length", password: "12345678", confirm: "12345678"},
		{name: "mismatch", password: "password123", confirm: "password124", wantErr: ErrPasswordMismatch},
		{name: "too short", password: "short", confirm: "short", wantErr: ErrPasswordTooShort},
		{name: "too short wins over mismatch", password: "short", confirm: "other", wantErr: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPair(tt.password, tt.confirm)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
