package types

import (
	"fmt"
	"time"

	"github.com/spirit-labs/endbclient/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.999999999"
)

// Date is a calendar date with no time of day and no zone. Only years 0001 to 9999 have the four digit form that
// ParseDate accepts, so dates outside that range do not survive a round trip.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errors.WithStack(err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall clock time with nanosecond precision and no zone.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func NewTimeOfDay(hour int, minute int, second int, nanosecond int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second, Nanosecond: nanosecond}
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

// ParseTimeOfDay parses HH:MM:SS with an optional fractional second.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, errors.WithStack(err)
	}
	return TimeOfDayOf(t), nil
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC).Format(timeLayout)
}
