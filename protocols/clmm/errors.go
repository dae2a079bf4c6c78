package clmm

import "errors"

// ErrInvalidInput is wrapped by every error caused by malformed caller input,
// so callers can match any of them with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
