package analytics

import (
	"strings"
	"time"
)

// Canonical delivery statuses produced by classification.
const (
	StatusDelivered    = "DELIVERED"
	StatusNDR          = "NDR"
	StatusOFD          = "OFD"
	StatusPending      = "PENDING"
	StatusRTODelivered = "RTO DELIVERED"
	StatusRTOInitiated = "RTO INITIATED"
	StatusRTOInTransit = "RTO IN TRANSIT"
	StatusRTONDR       = "RTO NDR"
)

// explicitStatuses are raw-status tokens preserved verbatim (after RTO
// respelling). An explicit token always wins over date-derived inference.
var explicitStatuses = []string{
	"CANCELED", "CANCELLED", "CANCEL",
	"DESTROYED", "LOST", "UNTRACEABLE",
	"PICKUP EXCEPTION",
	"REACHED BACK AT_SELLER_CITY",
	"REACHED DESTINATION HUB",
	"RTO DELIVERED", "RTO IN TRANSIT", "RTO INITIATED", "RTO NDR",
	"UNDELIVERED-1ST ATTEMPT", "UNDELIVERED-2ND ATTEMPT", "UNDELIVERED-3RD ATTEMPT",
	"OUT FOR DELIVERY", "OUT FOR PICKUP", "PICKED UP",
	"IN TRANSIT", "IN TRANSIT-AT DESTINATION HUB",
}

// compactStatus strips spaces, hyphens and underscores and uppercases, so
// "rto_in-transit" and "RTO IN TRANSIT" compare equal.
func compactStatus(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '-', '_', '\t':
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// respellRTO maps the RTO variants onto their canonical spelling.
func respellRTO(compact, fallback string) string {
	switch {
	case strings.Contains(compact, "RTODELIVERED"):
		return StatusRTODelivered
	case strings.Contains(compact, "RTOINITIATED"):
		return StatusRTOInitiated
	case strings.Contains(compact, "RTOINTRANSIT"):
		return StatusRTOInTransit
	case strings.Contains(compact, "RTONDR"):
		return StatusRTONDR
	}
	return fallback
}

// statusDates carries the date signals the classifier may fall back on when
// the raw status string itself is uninformative.
type statusDates struct {
	delivery     *time.Time
	ndr          *time.Time
	rto          *time.Time
	rtoDelivered *time.Time
	ofd          *time.Time
}

// classifyStatus derives the canonical delivery status. The order is
// load-bearing: explicit tokens first, then delivery/NDR/RTO/OFD date
// inference, then the raw string verbatim, then PENDING.
func classifyStatus(rawStatus string, d statusDates) string {
	status := strings.ToUpper(strings.TrimSpace(rawStatus))
	if IsNullMarker(status) {
		status = ""
	}
	compact := compactStatus(status)

	if status != "" {
		for _, explicit := range explicitStatuses {
			ce := compactStatus(explicit)
			if status == explicit || compact == ce ||
				strings.Contains(ce, compact) || strings.Contains(compact, ce) {
				return respellRTO(compact, status)
			}
		}
	}

	if d.delivery != nil {
		return StatusDelivered
	}
	if d.ndr != nil {
		return StatusNDR
	}
	if d.rto != nil {
		if d.rtoDelivered != nil {
			return StatusRTODelivered
		}
		return StatusRTOInitiated
	}
	if d.ofd != nil {
		return StatusOFD
	}
	if status != "" {
		return status
	}
	return StatusPending
}

// isRTOStatus reports whether a canonical status belongs to the RTO family.
func isRTOStatus(status string) bool {
	return strings.Contains(strings.ToUpper(status), "RTO")
}

// isCancelledStatus matches the cancellation family by substring.
func isCancelledStatus(status string) bool {
	return strings.Contains(strings.ToUpper(status), "CANCEL")
}
