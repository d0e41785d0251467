package tui

import "errors"

// ErrMissingBatchService is returned when the batch service is not provided.
var ErrMissingBatchService = errors.New("tui: batch service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
