package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, "secret123", hashed)

	// Same password hashes to a different digest each time.
	hashed2, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, hashed, hashed2)
}

func TestVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		want     bool
	}{
		{name: "correct password", password: "secret123", digest: hashed, want: true},
		{name: "wrong password", password: "wrong", digest: hashed, want: false},
		{name: "empty digest", password: "secret123", digest: "", want: false},
		{name: "malformed digest", password: "secret123", digest: "not-a-bcrypt-hash", want: false},
		{name: "empty password against empty digest", password: "", digest: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, tt.digest))
		})
	}
}
