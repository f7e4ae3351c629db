package domain

import "errors"

var (
	// ErrNotFound marks lookups for entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidBirthData marks birth records that fail validation before
	// they ever reach the engine.
	ErrInvalidBirthData = errors.New("invalid birth data")
)
