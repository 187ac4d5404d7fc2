package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrScanInProgress     = errors.New("user already has a scan in progress")
	ErrNoProvider         = errors.New("no provider configured")
	ErrVerdictUnavailable = errors.New("url verdict unavailable")
)
