package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdayNames lists weekday names in display order, monday first.
var WeekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NameOf returns the lowercase english name of d.
func NameOf(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// WeekdayFlags holds one worked flag per weekday.
type WeekdayFlags struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

// On reports the flag for d.
func (f WeekdayFlags) On(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return f.Monday
	case time.Tuesday:
		return f.Tuesday
	case time.Wednesday:
		return f.Wednesday
	case time.Thursday:
		return f.Thursday
	case time.Friday:
		return f.Friday
	case time.Saturday:
		return f.Saturday
	case time.Sunday:
		return f.Sunday
	}
	return false
}

type workDaysKind int

const (
	workDaysEmpty workDaysKind = iota
	workDaysNamed
	workDaysFlagged
)

// WorkDays is either a list of weekday names or a set of per-weekday flags.
// The zero value works no day.
type WorkDays struct {
	kind  workDaysKind
	names []string
	flags WeekdayFlags
}

// NamedWorkDays builds the list-of-names shape. Names are matched case-insensitively.
func NamedWorkDays(names ...string) WorkDays {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(n)))
	}
	return WorkDays{kind: workDaysNamed, names: normalized}
}

// FlaggedWorkDays builds the per-weekday flags shape.
func FlaggedWorkDays(flags WeekdayFlags) WorkDays {
	return WorkDays{kind: workDaysFlagged, flags: flags}
}

// IsWorkedOn reports whether d is a worked day.
func (w WorkDays) IsWorkedOn(d time.Weekday) bool {
	switch w.kind {
	case workDaysNamed:
		name := NameOf(d)
		for _, n := range w.names {
			if n == name {
				return true
			}
		}
		return false
	case workDaysFlagged:
		return w.flags.On(d)
	}
	return false
}

// Weekdays returns the worked day names. The names shape keeps its stored order
// (unknown names included), the flags shape is listed monday first.
func (w WorkDays) Weekdays() []string {
	switch w.kind {
	case workDaysNamed:
		out := make([]string, len(w.names))
		copy(out, w.names)
		return out
	case workDaysFlagged:
		out := make([]string, 0, 7)
		for _, name := range WeekdayNames {
			if w.flags.On(weekdayByName[name]) {
				out = append(out, name)
			}
		}
		return out
	}
	return []string{}
}

// IsNamed reports whether the list-of-names shape is in use.
func (w WorkDays) IsNamed() bool {
	return w.kind == workDaysNamed
}

// ParseClock parses "HH:MM" or "HH:MM:SS". Seconds are ignored.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// At returns day's calendar date at clock, in day's location.
func At(day time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// FormatClock trims a stored clock value to HH:MM.
func FormatClock(s string) string {
	h, m, err := ParseClock(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
