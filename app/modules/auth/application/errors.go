package authservice

import "errors"

var (
	// ErrInvalidCredentials is returned for a wrong name or password. The two
	// cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrGenerateToken is returned when token generation fails.
	ErrGenerateToken = errors.New("failed to generate token")
)
