package analytics

import (
	"strings"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// Address length thresholds. A concatenated address shorter than
// addrInvalidLen (or with no line 1 at all) is unusable; shorter than
// addrShortLen (or missing city/state/pincode) is deliverable but risky.
// Tunables: the upstream sources disagree on the exact cut-offs.
const (
	addrInvalidLen = 10
	addrShortLen   = 30
)

// AddressQuality classifies a shipping address as GOOD, SHORT or INVALID.
func AddressQuality(line1, line2, city, state, pincode string) string {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if IsNullMarker(s) {
			return ""
		}
		return s
	}
	line1, line2 = clean(line1), clean(line2)
	city, state, pincode = clean(city), clean(state), clean(pincode)

	full := strings.TrimSpace(strings.Join([]string{line1, line2, city, state, pincode}, " "))
	full = strings.Join(strings.Fields(full), " ")

	if line1 == "" || len(full) < addrInvalidLen {
		return entity.AddressInvalid
	}
	if city == "" || state == "" || pincode == "" || len(full) < addrShortLen {
		return entity.AddressShort
	}
	return entity.AddressGood
}
