package weather

import "errors"

var (
	// ErrNotFound means the lookup key did not resolve to an observation.
	ErrNotFound = errors.New("location not found")
	// ErrUnavailable covers every other fetch failure, including network
	// errors and malformed payloads.
	ErrUnavailable = errors.New("weather data unavailable")
)

// User-facing messages for lookup failures.
const (
	MsgNotFound    = "city not found"
	MsgUnavailable = "weather service unavailable, try again later"
)

// UserMessage collapses a lookup error into the single line shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return MsgUnavailable
	}
}
