package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the time unit suffix of a schedule delay.
type Unit string

const (
	UnitTicks   Unit = "t"
	UnitSeconds Unit = "s"
	UnitDays    Unit = "d"
)

// Delay is a schedule delay such as 10t or 1.5s.
type Delay struct {
	Value float64
	Unit  Unit
}

type number interface {
	~int | ~int32 | ~int64 | ~float64
}

func Ticks[N number](n N) Delay   { return Delay{Value: float64(n), Unit: UnitTicks} }
func Seconds[N number](n N) Delay { return Delay{Value: float64(n), Unit: UnitSeconds} }
func Days[N number](n N) Delay    { return Delay{Value: float64(n), Unit: UnitDays} }

func (d Delay) String() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + string(d.Unit)
}

// ParseDelay reads "10", "10t", "1.5s" or "2d". A bare number is in ticks.
func ParseDelay(s string) (Delay, error) {
	s = strings.TrimSpace(s)
	unit := UnitTicks
	if n := len(s); n > 0 {
		switch Unit(s[n-1:]) {
		case UnitTicks, UnitSeconds, UnitDays:
			unit = Unit(s[n-1:])
			s = s[:n-1]
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Delay{}, fmt.Errorf("%w: delay %q", ErrInvalidArgument, s)
	}
	if v < 0 {
		return Delay{}, fmt.Errorf("%w: negative delay %q", ErrInvalidArgument, s)
	}
	return Delay{Value: v, Unit: unit}, nil
}
