// Package errs holds the error kinds shared by every domain package.
// Domain sentinels wrap one of these so the HTTP layer can map them with errors.Is.
package errs

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidRole       = errors.New("invalid role")
	ErrPaymentGateway    = errors.New("payment gateway error")
	ErrAlreadyUsed       = errors.New("already used")
)
