package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationUnavailable is returned when no position source is available at all.
	ErrLocationUnavailable = errors.New("geolocation is not available")

	// ErrLocationDenied is returned when the position source declined or failed to answer.
	ErrLocationDenied = errors.New("location access denied")
)

// DefaultAPIErrorMessage is used when the weather API fails without a message.
const DefaultAPIErrorMessage = "Failed to fetch weather data."

// APIError is an API-level failure: the service answered but reported a non-success status.
type APIError struct {
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return DefaultAPIErrorMessage
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NetworkError is a transport-level failure (connectivity, DNS, timeout, open circuit).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to reach weather service: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
