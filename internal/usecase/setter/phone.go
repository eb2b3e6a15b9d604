package setter

import (
	"fmt"
	"strings"
)

const defaultCountryCode = "1"

// FormatPhone renders a phone number the way the masked input expects it:
// "+1 (404) 555-1234". Ten-digit numbers get the default country code.
// Anything else is returned unchanged.
func FormatPhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch len(digits) {
	case 10:
		digits = defaultCountryCode + digits
	case 11:
	default:
		return raw
	}

	return fmt.Sprintf("+%s (%s) %s-%s", digits[:1], digits[1:4], digits[4:7], digits[7:])
}
