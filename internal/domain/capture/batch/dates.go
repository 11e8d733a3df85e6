package batch

import (
	"errors"
	"strings"
	"time"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
)

var ErrInvalidDate = errors.New("invalid date format")

// dateFormats are tried in order. Day-first comes before month-first, which
// is how Egyptian exports write dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	"2/1/2006",
	"01/02/2006 15:04",
	"1/2/2006, 3:04 PM",
	"1/2/06, 3:04 PM",
}

// parseDate reads a date column. Arabic-Indic digits are accepted.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(normalizer.Normalize(raw))
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
