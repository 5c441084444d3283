package model

import (
	"github.com/pkg/errors"
)

// The two classes of failure callers can tell apart with errors.Is. Neither
// is transient: both mean the inputs have to change.
var (
	// ErrInvalidConfig marks malformed input found before any sampling.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNumericDegeneracy marks a computation that would produce NaN or Inf
	// (non-positive variance, zero normalizer, constant series).
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)

// InvalidConfigf returns an ErrInvalidConfig with a formatted message
func InvalidConfigf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// Degeneracyf returns an ErrNumericDegeneracy with a formatted message
func Degeneracyf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNumericDegeneracy, format, args...)
}
