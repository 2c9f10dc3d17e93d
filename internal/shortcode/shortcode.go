// Package shortcode generates and allocates unique short codes.
package shortcode

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultLength is the short code length used unless configured otherwise.
// 8 characters from the 64-symbol nanoid alphabet give a ~2^48 code space.
const DefaultLength = 8

// ErrAttemptsExhausted is returned when no unused short code was found
// within the allowed number of attempts.
var ErrAttemptsExhausted = errors.New("attempts exhausted for allocating short code")

// Generator produces candidate short codes.
type Generator func() (string, error)

// NewGenerator returns a Generator producing random codes of the given length
// from the URL-safe nanoid alphabet (A-Za-z0-9_-).
func NewGenerator(length int) Generator {
	return func() (string, error) {
		return gonanoid.New(length)
	}
}

// Allocate returns the first generated candidate for which exists reports false.
// It stops after maxAttempts generated candidates and fails with ErrAttemptsExhausted.
// Errors from either callback abort the allocation immediately.
//
// Allocate performs the classic check-then-use sequence and therefore cannot rule
// out a concurrent writer claiming the same code between the check and the insert.
// Stores that enforce a uniqueness constraint should instead insert optimistically
// and regenerate on a duplicate-key error, as the shortening service does.
func Allocate(generate Generator, exists func(code string) (bool, error), maxAttempts int) (string, error) {
	const op = "shortcode.Allocate"

	for i := 0; i < maxAttempts; i++ {
		code, err := generate()
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate candidate: %w", op, err)
		}

		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("%s: failed to check candidate: %w", op, err)
		}

		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%s: %w", op, ErrAttemptsExhausted)
}
