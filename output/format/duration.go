package format

import (
	"fmt"
	"strconv"
)

// Unit is a time unit used when rendering durations.
type Unit int

const (
	Nanoseconds Unit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
)

const (
	nanosecondsInAMicrosecond = 1000
	nanosecondsInAMillisecond = 1000 * nanosecondsInAMicrosecond
	nanosecondsInASecond      = 1000 * nanosecondsInAMillisecond
	nanosecondsInAMinute      = 60 * nanosecondsInASecond
)

func (u Unit) String() string {
	switch u {
	case Nanoseconds:
		return "ns"
	case Microseconds:
		return "µs"
	case Milliseconds:
		return "ms"
	case Seconds:
		return "s"
	case Minutes:
		return "m"
	}
	return "** internal error **"
}

func (u Unit) nanoseconds() float64 {
	switch u {
	case Microseconds:
		return nanosecondsInAMicrosecond
	case Milliseconds:
		return nanosecondsInAMillisecond
	case Seconds:
		return nanosecondsInASecond
	case Minutes:
		return nanosecondsInAMinute
	}
	return 1
}

// AutoUnit picks the largest unit in which ns is at least 1.
func AutoUnit(ns uint64) Unit {
	switch {
	case ns < nanosecondsInAMicrosecond:
		return Nanoseconds
	case ns < nanosecondsInAMillisecond:
		return Microseconds
	case ns < nanosecondsInASecond:
		return Milliseconds
	case ns < nanosecondsInAMinute:
		return Seconds
	default:
		return Minutes
	}
}

// Duration formats a nanosecond count as "<value> <unit>", e.g. "1.5 ms".
//
// The value keeps up to 6 significant digits, the way a C-style "%g" would print it.
func Duration(ns uint64) string {
	return DurationIn(ns, AutoUnit(ns))
}

// DurationIn formats a nanosecond count in a fixed unit.
func DurationIn(ns uint64, unit Unit) string {
	value := float64(ns) / unit.nanoseconds()
	return strconv.FormatFloat(value, 'g', 6, 64) + " " + unit.String()
}

// FormatSeconds formats a section duration with millisecond precision, e.g. "0.250".
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
