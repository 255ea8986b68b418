// services/errors.go
package services

import "errors"

// ErrInvalidInput marks a caller bug: an out-of-range amount or an
// unrecognized categorical value. Controllers translate it to a 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrConfiguration marks a broken static table at construction time. It is
// raised once during initialization, never per-call.
var ErrConfiguration = errors.New("invalid configuration")
