package project

import "errors"

var (
	// ErrProjectNotFound indicates no ledger entry matches.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
)
