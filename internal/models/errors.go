package models

import "errors"

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrPickAlreadyExists   = errors.New("pick already exists for fixture")
	ErrOutcomeAlreadySet   = errors.New("outcome already settled for pick")
	ErrMalformedMarketLine = errors.New("malformed market line value")
)
