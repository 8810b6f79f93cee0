package models

import "errors"

// Domain errors shared by repositories, services and handlers. Handlers match
// them with errors.Is to pick response status codes; layers in between wrap
// them with fmt.Errorf("...: %w", err) to add context.
var (
	// ErrInvalidCredentials covers every login failure. It deliberately does
	// not distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail and ErrDuplicateUsername signal registration
	// conflicts on the unique columns.
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrNotFound covers unknown parts, cart items and users, including
	// cart items that exist but belong to a different user.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a cart mutation would drive a
	// part's stock quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is surfaced after a stock-adjustment transaction lost to
	// a concurrent writer twice in a row.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrUnauthorized means the caller is authenticated but lacks the
	// required role or admin code.
	ErrUnauthorized = errors.New("unauthorized")
)
