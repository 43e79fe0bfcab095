package kernel

import (
	"fmt"
	"math"
	"time"

	"exportflow/internal/pkg/errs"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// NewDate returns the calendar date at midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return d, nil
}

// FormatDate renders d as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.UTC().Format(DateLayout)
}

// IsBusinessDay reports whether d falls on Monday through Friday.
// Public holidays are not modelled.
func IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// ValidateBusinessDay returns a ValueIsInvalidError naming paramName when d
// is a weekend day.
func ValidateBusinessDay(paramName string, d time.Time) error {
	if d.IsZero() {
		return errs.NewValueIsRequiredError(paramName)
	}
	if !IsBusinessDay(d) {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName,
			fmt.Errorf("%s is a %s", FormatDate(d), d.Weekday()),
		)
	}
	return nil
}

// ShiftToBusinessDay moves a weekend date back to the preceding Friday.
// Business days are returned unchanged.
//
// Example:
//
//	kernel.ShiftToBusinessDay(kernel.NewDate(2024, 3, 2)) // Sat -> 2024-03-01 (Fri)
func ShiftToBusinessDay(d time.Time) time.Time {
	d = DateOf(d)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// AddBusinessDays walks n business days forward from d. Weekend days are
// skipped and not counted. A negative n walks backwards and zero returns d.
//
// Example:
//
//	kernel.AddBusinessDays(kernel.NewDate(2024, 3, 1), 1) // Fri -> 2024-03-04 (Mon)
func AddBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return SubtractBusinessDays(d, -n)
	}
	d = DateOf(d)
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			n--
		}
	}
	return d
}

// SubtractBusinessDays walks n business days backwards from d.
//
// Example:
//
//	kernel.SubtractBusinessDays(kernel.NewDate(2024, 3, 1), 21) // 2024-02-01 (Thu)
func SubtractBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return AddBusinessDays(d, -n)
	}
	d = DateOf(d)
	for n > 0 {
		d = d.AddDate(0, 0, -1)
		if IsBusinessDay(d) {
			n--
		}
	}
	return d
}

// AddCalendarDays shifts d by n calendar days.
func AddCalendarDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(DateOf(b).Sub(DateOf(a)).Hours() / 24))
}
