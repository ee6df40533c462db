package platform

import (
	"fmt"
	"strings"
)

// FormatDuration converts an ISO-8601 video duration ("PT1H2M3S") into the
// display form used throughout the reports: "H:MM:SS" when an hour or longer,
// otherwise "M:SS". Unparseable input yields "0:00".
func FormatDuration(iso string) string {
	h, m, s, ok := parseISODuration(iso)
	if !ok {
		return "0:00"
	}

	// Normalize overflow so "PT90S" renders as 1:30.
	m += s / 60
	s %= 60
	h += m / 60
	m %= 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// parseISODuration reads the time portion of an ISO-8601 duration. Date
// designators (days and above) do not occur for platform videos and are
// rejected.
func parseISODuration(iso string) (h, m, s int, ok bool) {
	rest, found := strings.CutPrefix(iso, "PT")
	if !found || rest == "" {
		return 0, 0, 0, false
	}

	value := 0
	digits := false
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
			digits = true
		case r == 'H' && digits:
			h = value
			value, digits = 0, false
		case r == 'M' && digits:
			m = value
			value, digits = 0, false
		case r == 'S' && digits:
			s = value
			value, digits = 0, false
		default:
			return 0, 0, 0, false
		}
	}
	if digits {
		// Trailing number without a designator.
		return 0, 0, 0, false
	}
	return h, m, s, true
}
