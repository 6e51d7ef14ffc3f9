package domain

import "errors"

// Errors shared between the repository, the service and the HTTP layer.
// The HTTP layer maps each of these to a status code; anything else is
// an internal error.
var (
	ErrMissingCredentials = errors.New("missing name or password")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("wrong password")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemAlreadyOwned   = errors.New("item already owned")
	ErrItemNotOwned       = errors.New("item not owned")
	ErrInsufficientGold   = errors.New("insufficient gold")
	ErrNoChallenge        = errors.New("no active question")
	ErrWrongAnswer        = errors.New("wrong answer")
)
