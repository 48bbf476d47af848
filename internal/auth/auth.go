package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrNoPassphrase      = errors.New("no passphrase configured")
)

// Subject is the subject of every token; the local API has a single user.
const Subject = "local"

// Service issues and checks tokens for the local API
type Service struct {
	jwtSecret      []byte
	tokenExp       time.Duration
	passphraseHash string
	now            func() time.Time
}

// NewService creates a new authentication service. The passphrase is kept
// only as a bcrypt hash; an empty passphrase disables Login.
func NewService(secret string, tokenExp time.Duration, passphrase string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if tokenExp <= 0 {
		tokenExp = 24 * time.Hour
	}
	s := &Service{
		jwtSecret: []byte(secret),
		tokenExp:  tokenExp,
		now:       time.Now,
	}
	if passphrase != "" {
		hash, err := s.HashPassphrase(passphrase)
		if err != nil {
			return nil, err
		}
		s.passphraseHash = hash
	}
	return s, nil
}

// HashPassphrase hashes a passphrase using bcrypt
func (s *Service) HashPassphrase(passphrase string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return string(bytes), nil
}

// CheckPassphrase checks a passphrase against the configured hash
func (s *Service) CheckPassphrase(passphrase string) error {
	if s.passphraseHash == "" {
		return ErrNoPassphrase
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passphraseHash), []byte(passphrase)); err != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

// GenerateToken generates a JWT token and returns it with its expiry
func (s *Service) GenerateToken() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.tokenExp)
	claims := jwt.MapClaims{
		"sub": Subject,
		"jti": uuid.NewString(),
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub != Subject {
		return nil, ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		Subject: sub,
		TokenID: jti,
		Exp:     int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
