package model

import "errors"

// Failure taxonomy shared by every layer. Callers wrap these with fmt.Errorf
// and classify with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrSoldOut         = errors.New("event is sold out")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("authentication required")
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)
