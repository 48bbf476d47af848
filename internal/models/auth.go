package models

// LoginRequest carries the local API passphrase.
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Claims represents JWT claims
type Claims struct {
	Subject string `json:"sub"`
	TokenID string `json:"jti"`
	Exp     int64  `json:"exp"`
}
