// Package errors holds the sentinel errors shared by the analysis stages.
// Stages wrap them with fmt.Errorf and %w; callers branch with errors.Is.
package errors

import "errors"

// Artifact errors. These are fatal at startup.
var (
	// ErrArtifactLoad indicates a pretrained artifact is missing, unreadable or malformed.
	ErrArtifactLoad = errors.New("artifact load failed")

	// ErrUnknownLabel indicates a model declares a class outside the fixed label set.
	ErrUnknownLabel = errors.New("unknown label")
)

// Input errors.
var (
	// ErrEmptyInput indicates an operation received no usable items.
	ErrEmptyInput = errors.New("empty input")

	// ErrInsufficientData indicates the input is too small for the requested analysis.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrShapeMismatch indicates a vector dimension differs from the model dimension.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// Lookup errors.
var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")

	// ErrNoSnapshot indicates no dataset has been loaded yet.
	ErrNoSnapshot = errors.New("no dataset snapshot loaded")
)

// Topic cache errors.
var (
	// ErrCacheNotFound indicates a cache entry was not found.
	ErrCacheNotFound = errors.New("cache entry not found")

	// ErrCacheExpired indicates a cache entry has expired.
	ErrCacheExpired = errors.New("cache entry expired")
)
