// Package weather implements the OpenWeather current-weather gateway.
// It is a stateless passthrough: callers validate place names and
// coordinates before invoking it.
package weather

import "fmt"

// PlaceholderName substitutes a missing place name in API responses.
const PlaceholderName = "Unknown location"

// Kind classifies a gateway failure. Classification is derived from the
// HTTP status code, never from message substrings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAuth
	KindNetwork
)

// Error is a typed gateway failure.
type Error struct {
	Kind   Kind
	Status int   // HTTP status, 0 for transport failures
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "weather: location not found"
	case KindAuth:
		return "weather: configuration or API key error"
	case KindNetwork:
		return "weather: connection failed"
	default:
		if e.Status != 0 {
			return fmt.Sprintf("weather: unexpected status %d", e.Status)
		}
		return "weather: request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the human-readable text shown to the user.
func (e *Error) Message() string { return e.Error() }

func classify(status int, err error) *Error {
	switch {
	case status == 404:
		return &Error{Kind: KindNotFound, Status: status, Err: err}
	case status == 401 || status == 403:
		return &Error{Kind: KindAuth, Status: status, Err: err}
	case status == 0:
		return &Error{Kind: KindNetwork, Err: err}
	default:
		return &Error{Kind: KindUnknown, Status: status, Err: err}
	}
}
