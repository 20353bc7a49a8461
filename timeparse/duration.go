package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableDuration reports text with no hour or minute quantity.
var ErrUnparseableDuration = errors.New("unparseable duration")

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*(?:hour|hr|h)s?`)
	minutePattern = regexp.MustCompile(`(\d+)\s*(?:minute|min|m)s?`)
)

// ParseDurationText extracts hour and minute quantities from free text such
// as "2 hours 15 minutes", "1h 30m", or "90 min". Each unit is matched
// independently and only the first mention counts; "1 hour 2 hour" reads as
// one hour. Text with no quantities, or with both quantities zero, fails
// with ErrUnparseableDuration.
func ParseDurationText(text string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(text))

	var hours, minutes int64
	if m := hourPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, text)
		}
		hours = v
	}
	if m := minutePattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, text)
		}
		minutes = v
	}

	if hours == 0 && minutes == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, text)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// DurationFrom parses text as a relative duration and returns now plus that
// duration, in UTC. Relative durations are timezone-agnostic: they add a
// fixed offset to the present moment regardless of the requester's display
// timezone.
func DurationFrom(now time.Time, text string) (time.Time, error) {
	d, err := ParseDurationText(text)
	if err != nil {
		return time.Time{}, err
	}
	return now.UTC().Add(d), nil
}
