package forecast

import (
	"strings"
	"time"

	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

const DateLayout = "2006-01-02"

// DefaultReferenceDate is the trailer release day the dataset's lag_day
// column is counted from.
var DefaultReferenceDate = time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC)

// LagDays returns release minus reference in whole calendar days. Only the
// calendar dates matter; clock time and location are ignored. The result is
// negative when the release precedes the reference.
func LagDays(reference, release time.Time) int {
	ref := civil(reference)
	rel := civil(release)

	return int((rel.Unix() - ref.Unix()) / 86400)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date for the named input field.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errs.NewInputError(field, "expected a YYYY-MM-DD date, got %q", s)
	}

	return t, nil
}
