// Package timecode parses and formats the HH:MM:SS offsets used to mark
// redaction segments.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTime is wrapped by every Parse failure.
var ErrInvalidTime = errors.New("invalid time")

// maxHourDigits keeps hours*3600 well inside int64.
const maxHourDigits = 6

// Parse converts "HH:MM:SS[.fff]", "MM:SS[.fff]" or "SS[.fff]" into seconds.
// Empty fields count as zero, so "::30" and "1::" are accepted. Minute and
// second fields take at most two digits; values up to 99 are allowed and
// simply carry into the next unit. Hours take at most six digits.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}
	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return 0, fmt.Errorf("%w %q: too many fields", ErrInvalidTime, s)
	}

	// Right-align onto hours, minutes, seconds.
	var hms [3]string
	copy(hms[3-len(fields):], fields)

	secs, err := parseSeconds(hms[2])
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidTime, s, err)
	}
	mins, err := parseField(hms[1], 2)
	if err != nil {
		return 0, fmt.Errorf("%w %q: minutes %v", ErrInvalidTime, s, err)
	}
	hours, err := parseField(hms[0], maxHourDigits)
	if err != nil {
		return 0, fmt.Errorf("%w %q: hours %v", ErrInvalidTime, s, err)
	}
	return float64(hours*3600+mins*60) + secs, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) float64 {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Format renders seconds as HH:MM:SS, dropping any fraction.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// NeedsHours reports whether a video of the given length needs an hour field.
func NeedsHours(duration float64) bool {
	return duration >= 3600
}

// parseField parses a run of ASCII digits. maxDigits <= 0 means unbounded.
// An empty field is zero.
func parseField(f string, maxDigits int) (int64, error) {
	if f == "" {
		return 0, nil
	}
	if maxDigits > 0 && len(f) > maxDigits {
		return 0, fmt.Errorf("field %q longer than %d digits", f, maxDigits)
	}
	for _, r := range f {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("field %q is not a number", f)
		}
	}
	return strconv.ParseInt(f, 10, 64)
}

// parseSeconds parses the seconds field with an optional ".fff" fraction.
func parseSeconds(f string) (float64, error) {
	whole, frac, hasFrac := strings.Cut(f, ".")
	n, err := parseField(whole, 2)
	if err != nil {
		return 0, fmt.Errorf("seconds %v", err)
	}
	if !hasFrac {
		return float64(n), nil
	}
	if frac == "" {
		return float64(n), nil
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("fraction %q is not a number", frac)
		}
	}
	v, err := strconv.ParseFloat("0."+frac, 64)
	if err != nil {
		return 0, err
	}
	return float64(n) + v, nil
}
