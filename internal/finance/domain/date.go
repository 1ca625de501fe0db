package domain

import (
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

const dateLayout = "2006-01-02"

// Date-time layouts with an offset, tried after time.RFC3339Nano.
var offsetLayouts = []string{
	"2006-01-02T15:04Z07:00",
}

// Date-time layouts without an offset, read as local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDate accepts a bare date (interpreted as local midnight) or an
// ISO-8601 date-time. A date-time without an offset is local time.
func ParseDate(s string) (time.Time, error) {
	if len(s) == len(dateLayout) {
		if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
			return t, nil
		}
		return time.Time{}, invalidDate()
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidDate()
}

func invalidDate() error {
	return errors.NewValidationError("Date must be YYYY-MM-DD or an ISO-8601 date-time")
}
