package parser

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a date token of the form YYYY/MM/DD or MM/DD (year
// defaults to now's calendar year). Any other shape, or a value that is
// not a real calendar date, is an error; callers fall back to their own
// default and surface a format message. Relative dates are not
// supported.
func ParseDate(token string, now time.Time) (time.Time, error) {
	var s string
	switch strings.Count(token, "/") {
	case 2:
		s = token
	case 1:
		s = fmt.Sprintf("%d/%s", now.Year(), token)
	default:
		return time.Time{}, fmt.Errorf("unrecognized date shape: %q", token)
	}

	d, err := time.ParseInLocation("2006/1/2", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", token, err)
	}
	return d, nil
}
