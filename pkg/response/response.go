// Package response defines the JSON envelope shared by all API responses.
package response

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Predefined responses for common failure scenarios.
var (
	EmptyRequestBodyResponse = Response{
		Error: "Request body is empty",
	}

	BadRequestResponse = Response{
		Error: "Invalid request body",
	}

	InvalidShortCodeResponse = Response{
		Error: "Invalid short code",
	}

	ResourceNotFoundResponse = Response{
		Error: "Short URL not found",
	}

	ServerErrorResponse = Response{
		Error: "Internal server error",
	}
)

// SuccessResponse wraps data in a successful envelope. An optional message
// may be attached as the second argument.
func SuccessResponse(data any, msg ...string) Response {
	resp := Response{
		Success: true,
		Data:    data,
	}

	if len(msg) > 0 {
		resp.Message = msg[0]
	}

	return resp
}

// ErrorResponse wraps a short human-readable error string in the envelope.
func ErrorResponse(err string) Response {
	return Response{
		Error: err,
	}
}

// ValidationErrorResponse constructs an envelope from a validator error,
// surfacing the message for the first failed field.
func ValidationErrorResponse(err error) Response {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return BadRequestResponse
	}

	return ErrorResponse(messageForError(errs[0]))
}

func messageForError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "url", "http_url":
		return "Please enter a valid URL"
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
