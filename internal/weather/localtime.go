package weather

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned for offsets no civil time zone can have.
var ErrInvalidTime = errors.New("invalid local time")

// InvalidTime is rendered in place of a local time that cannot be computed.
const InvalidTime = "Invalid"

// LocalTimeLayout renders the observation's civil date, time and offset.
const LocalTimeLayout = "Mon, 02 Jan 2006 15:04 UTC-07:00"

const maxUTCOffset = 18 * 60 * 60

// LocalTime returns the instant dt in a fixed zone offset seconds east of UTC.
// The host time zone plays no part.
func LocalTime(dt, offsetSeconds int64) (time.Time, error) {
	if offsetSeconds > maxUTCOffset || offsetSeconds < -maxUTCOffset {
		return time.Time{}, fmt.Errorf("%w: utc offset %ds out of range", ErrInvalidTime, offsetSeconds)
	}
	zone := time.FixedZone("", int(offsetSeconds))
	return time.Unix(dt, 0).In(zone), nil
}

// FormatLocalTime renders LocalTime with LocalTimeLayout, or InvalidTime.
func FormatLocalTime(dt, offsetSeconds int64) string {
	t, err := LocalTime(dt, offsetSeconds)
	if err != nil {
		return InvalidTime
	}
	return t.Format(LocalTimeLayout)
}
