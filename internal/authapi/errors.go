package authapi

import (
	"errors"
	"fmt"
)

// MsgTokenExpired is the message the auth API answers with when a bearer
// token is no longer accepted.
const MsgTokenExpired = "Failed to authenticate token"

// APIError is a non-2xx answer of the auth API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %d: %s", e.Status, e.Message)
}

// IsTokenExpired reports whether err asks the caller to sign in again.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Message == MsgTokenExpired
}

// Message is the text shown to the user for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
