// Package validation contains pure format checks for user-supplied input.
// Request bodies are validated at the HTTP boundary with go-playground/validator;
// these functions cover path and query parameters, which arrive outside a struct.
package validation

import (
	"errors"
	"net/url"
	"regexp"
)

var (
	// ErrInvalidURL is returned when a string is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidShortCode is returned when a string is not a well-formed short code.
	ErrInvalidShortCode = errors.New("invalid short code")
)

// Short codes are 1-20 characters from the URL-safe nanoid alphabet.
var shortCodeRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

// ValidateURL reports whether candidate parses as an absolute URL
// with scheme http or https and a non-empty host.
func ValidateURL(candidate string) error {
	u, err := url.Parse(candidate)
	if err != nil {
		return ErrInvalidURL
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// ValidateShortCode reports whether candidate is a well-formed short code.
func ValidateShortCode(candidate string) error {
	if !shortCodeRegexp.MatchString(candidate) {
		return ErrInvalidShortCode
	}

	return nil
}
