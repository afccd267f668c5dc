package application

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAdminAccessDenied       = errors.New("admin access denied")
	ErrInvalidAdminCredentials = errors.New("invalid admin credentials")
	ErrUserNotFound            = errors.New("user not found")
	ErrForbidden               = errors.New("forbidden")
	ErrProductNotFound         = errors.New("product not found")
	ErrProductUnavailable      = errors.New("product not available")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidTransition       = errors.New("invalid status transition")
)

// Failure pairs a sentinel with the message shown to the client.
type Failure struct {
	Kind error
	Msg  string
}

func (f *Failure) Error() string { return f.Msg }
func (f *Failure) Unwrap() error { return f.Kind }

func fail(kind error, format string, args ...any) error {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
