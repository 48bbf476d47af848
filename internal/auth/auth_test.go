package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	service, err := NewService("secret", 0, "")
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)

	_, err = NewService("", time.Hour, "")
	assert.Error(t, err)
}

func TestService_HashPassphrase(t *testing.T) {
	service, _ := NewService("secret", time.Hour, "")

	hash, err := service.HashPassphrase("pit-lane-2024")

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "pit-lane-2024", hash)
}

func TestService_CheckPassphrase(t *testing.T) {
	service, err := NewService("secret", time.Hour, "pit-lane-2024")
	require.NoError(t, err)

	assert.NoError(t, service.CheckPassphrase("pit-lane-2024"))
	assert.ErrorIs(t, service.CheckPassphrase("wrong"), ErrInvalidPassphrase)

	open, _ := NewService("secret", time.Hour, "")
	assert.ErrorIs(t, open.CheckPassphrase("anything"), ErrNoPassphrase)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := NewService("secret", time.Hour, "")

	token, exp, err := service.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	t.Run("valid token", func(t *testing.T) {
		claims, err := service.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, Subject, claims.Subject)
		assert.NotEmpty(t, claims.TokenID)
		assert.Equal(t, exp.Unix(), claims.Exp)
	})

	t.Run("bearer prefix", func(t *testing.T) {
		_, err := service.ValidateToken("Bearer " + token)
		assert.NoError(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewService("other", time.Hour, "")
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": Subject,
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = service.ValidateToken(expired)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := NewService("secret", time.Hour, "")

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer token", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
		{"missing bearer", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
