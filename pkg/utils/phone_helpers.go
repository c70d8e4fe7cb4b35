package utils

import (
	"regexp"
	"strings"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// NormalizeIndonesianPhone reduces +62 / 62 / 0 prefixed numbers to the
// local 0-prefixed form. Separators are dropped. Returns "" when the input
// has too few digits to be a phone number.
func NormalizeIndonesianPhone(phone string) string {
	digitsOnly := nonDigitRegexp.ReplaceAllString(phone, "")
	switch {
	case strings.HasPrefix(digitsOnly, "62"):
		digitsOnly = "0" + digitsOnly[2:]
	case !strings.HasPrefix(digitsOnly, "0"):
		digitsOnly = "0" + digitsOnly
	}
	if len(digitsOnly) < 9 {
		return ""
	}
	return digitsOnly
}
