package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate marks input that looked like an ISO calendar date but does
// not parse. Distinct from an unresolved expression: invalid input is a
// caller error, unresolved input is a re-prompt.
var ErrInvalidDate = errors.New("invalid date")

// Resolution is the outcome of resolving one date expression against a
// reference instant. When Resolved is false, Reason says why.
type Resolution struct {
	Date     time.Time `json:"date"`
	Resolved bool      `json:"resolved"`
	Reason   string    `json:"reason,omitempty"`
}

// ISO renders the resolved date in ISO 8601 calendar-date form.
func (r Resolution) ISO() string {
	if !r.Resolved {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

var (
	isoLikePattern = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	inDaysPattern  = regexp.MustCompile(`^in (\d+) days?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolve turns a natural-language or ISO date expression into a calendar
// date relative to the supplied reference instant. It is pure: identical
// (input, now) pairs always yield identical results. Unparseable input is
// reported as unresolved rather than as an error so callers can re-prompt.
func Resolve(input string, now time.Time) (Resolution, error) {
	expr := strings.ToLower(strings.TrimSpace(input))
	if expr == "" {
		return unresolved("empty expression"), nil
	}

	today := truncate(now)

	// ISO-looking strings either parse exactly or are rejected outright.
	if isoLikePattern.MatchString(expr) {
		parsed, err := time.Parse("2006-1-2", expr)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return resolved(parsed), nil
	}

	switch expr {
	case "today", "tonight":
		return resolved(today), nil
	case "tomorrow":
		return resolved(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return resolved(today.AddDate(0, 0, -1)), nil
	case "next week":
		return resolved(today.AddDate(0, 0, 7)), nil
	case "next month":
		return resolved(addMonthClamped(today)), nil
	}

	if m := inDaysPattern.FindStringSubmatch(expr); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return unresolved("day count out of range"), nil
		}
		return resolved(today.AddDate(0, 0, days)), nil
	}

	if day, sameDayAllowed, ok := parseWeekday(expr); ok {
		return resolved(nextWeekday(today, day, sameDayAllowed)), nil
	}

	return unresolved(fmt.Sprintf("unrecognized date expression %q", input)), nil
}

func parseWeekday(expr string) (day time.Weekday, sameDayAllowed, ok bool) {
	name := expr
	if rest, found := strings.CutPrefix(expr, "this "); found {
		sameDayAllowed = true
		name = rest
	} else if rest, found := strings.CutPrefix(expr, "next "); found {
		name = rest
	} else if rest, found := strings.CutPrefix(expr, "on "); found {
		name = rest
	}

	day, ok = weekdays[name]
	return day, sameDayAllowed, ok
}

// nextWeekday finds the next occurrence of day after ref. The reference day
// itself only qualifies when the caller explicitly said "this <weekday>".
func nextWeekday(ref time.Time, day time.Weekday, sameDayAllowed bool) time.Time {
	ahead := (int(day) - int(ref.Weekday()) + 7) % 7
	if ahead == 0 && !sameDayAllowed {
		ahead = 7
	}
	return ref.AddDate(0, 0, ahead)
}

// addMonthClamped moves one month forward, clamping the day-of-month to the
// target month's length (Jan 31 -> Feb 28/29).
func addMonthClamped(ref time.Time) time.Time {
	firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()

	day := ref.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, ref.Location())
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func resolved(date time.Time) Resolution {
	return Resolution{Date: date, Resolved: true}
}

func unresolved(reason string) Resolution {
	return Resolution{Reason: reason}
}
