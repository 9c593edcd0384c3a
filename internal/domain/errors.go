package domain

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInconsistentState marks ledger data that references something that cannot be resolved,
	// e.g. an attempt pointing at a quiz that no longer exists.
	ErrInconsistentState = errors.New("inconsistent state")
	// ErrInvalidArgument indicates a malformed request (missing ids, empty college).
	ErrInvalidArgument = errors.New("invalid argument")
)
