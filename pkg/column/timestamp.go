package column

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeUnit is the tick granularity of a TimestampTZ column. Ticks are
// stored as int64 counts since the Unix epoch at this granularity.
type TimeUnit uint8

const (
	UnitSecond TimeUnit = iota
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
)

// Scale returns the decimal scale a tick count at this unit carries when
// interpreted as seconds: 10^Scale ticks per second.
func (u TimeUnit) Scale() int8 {
	switch u {
	case UnitSecond:
		return 0
	case UnitMillisecond:
		return 3
	case UnitMicrosecond:
		return 6
	default:
		return 9
	}
}

func (u TimeUnit) String() string {
	switch u {
	case UnitSecond:
		return "Second"
	case UnitMillisecond:
		return "Millisecond"
	case UnitMicrosecond:
		return "Microsecond"
	default:
		return "Nanosecond"
	}
}

// TimeZone is a fixed UTC offset attached to a timestamp column. It is
// metadata only: tick values are always epoch-based and the offset never
// participates in arithmetic or comparisons.
type TimeZone struct {
	offsetSecs int32
}

// UTC is the zero-offset time zone.
var UTC = TimeZone{}

// NewTimeZone returns a fixed-offset zone, offset in seconds east of UTC.
func NewTimeZone(offsetSecs int32) TimeZone {
	return TimeZone{offsetSecs: offsetSecs}
}

// OffsetSeconds reports the offset east of UTC.
func (t TimeZone) OffsetSeconds() int32 { return t.offsetSecs }

func (t TimeZone) String() string {
	if t.offsetSecs == 0 {
		return "UTC"
	}
	sign := "+"
	off := t.offsetSecs
	if off < 0 {
		sign = "-"
		off = -off
	}
	return fmt.Sprintf("%s%02d:%02d", sign, off/3600, (off%3600)/60)
}

// ParseTimeZone understands the timezone strings Arrow schemas carry:
// empty or "UTC"/"utc"/"Z" for zero offset, otherwise "+HH:MM" / "-HH:MM".
func ParseTimeZone(s string) (TimeZone, error) {
	switch strings.ToUpper(s) {
	case "", "UTC", "Z", "+00:00", "-00:00":
		return UTC, nil
	}
	if len(s) == 6 && (s[0] == '+' || s[0] == '-') && s[3] == ':' {
		hh, errH := strconv.Atoi(s[1:3])
		mm, errM := strconv.Atoi(s[4:6])
		if errH == nil && errM == nil && hh <= 14 && mm < 60 {
			off := int32(hh*3600 + mm*60)
			if s[0] == '-' {
				off = -off
			}
			return TimeZone{offsetSecs: off}, nil
		}
	}
	return TimeZone{}, &UnsupportedTypeError{DataType: "timezone " + strconv.Quote(s)}
}
