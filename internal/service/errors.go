package service

import (
	"errors"
	"fmt"
)

// Tipos de error estables; el transporte HTTP los traduce a kind + status.
var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrExpired            = errors.New("verification code expired")
	ErrDeliveryFailed     = errors.New("sms delivery failed")
	ErrInvalidState       = errors.New("invalid registration state")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrUsernameTaken   = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrMobileTaken     = fmt.Errorf("%w: mobile number already registered", ErrConflict)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrCodeNotFound    = fmt.Errorf("%w: no pending verification code", ErrNotFound)
	ErrNotVerified     = fmt.Errorf("%w: mobile number not verified", ErrInvalidState)
	ErrAlreadyVerified = fmt.Errorf("%w: mobile number already verified", ErrInvalidState)
	ErrPasswordNotSet  = fmt.Errorf("%w: password not set", ErrInvalidState)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
