package analytics

import (
	"strings"
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// statusFilterMap expands a filter value to the raw-status variants it should
// match before falling back to normalized substring comparison.
var statusFilterMap = map[string][]string{
	"CANCELED":                {"CANCELED", "CANCELLED", "CANCEL", "CANCELLATION"},
	"DELIVERED":               {"DELIVERED", "DEL"},
	"DESTROYED":               {"DESTROYED", "DESTROY"},
	"IN TRANSIT":              {"IN TRANSIT", "IN_TRANSIT", "IN-TRANSIT", "INTRANSIT", "IN TRANSIT-AT DESTINATION HUB"},
	"LOST":                    {"LOST"},
	"OUT FOR DELIVERY":        {"OUT FOR DELIVERY", "OFD", "OUT_FOR_DELIVERY"},
	"RTO DELIVERED":           {"RTO DELIVERED", "RTO_DELIVERED"},
	"RTO INITIATED":           {"RTO INITIATED", "RTO_INITIATED", "RTO"},
	"RTO IN TRANSIT":          {"RTO IN TRANSIT", "RTO_IN_TRANSIT"},
	"RTO NDR":                 {"RTO NDR", "RTO_NDR"},
	"UNDELIVERED":             {"UNDELIVERED", "NDR", "PENDING"},
	"PICKUP EXCEPTION":        {"PICKUP EXCEPTION", "PICKUP_EXCEPTION"},
	"PICKED UP":               {"PICKED UP", "PICKED_UP"},
	"REACHED DESTINATION HUB": {"REACHED DESTINATION HUB", "REACHED_DESTINATION_HUB"},
}

// normalizeSeparators makes "_" and "-" compare as spaces.
func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.TrimSpace(s)
}

// statusMatches reports whether a row status matches one filter value.
func statusMatches(rowStatus, filterStatus string) bool {
	rs := strings.ToUpper(strings.TrimSpace(rowStatus))
	if rs == "" {
		return false
	}
	fs := strings.ToUpper(strings.TrimSpace(filterStatus))
	if variants, ok := statusFilterMap[fs]; ok {
		for _, v := range variants {
			if rs == v {
				return true
			}
		}
		return false
	}
	nrs, nfs := normalizeSeparators(rs), normalizeSeparators(fs)
	return nrs == nfs || strings.Contains(nrs, nfs) || strings.Contains(nfs, nrs)
}

// paymentMatches applies the COD/Online/NaN substring categories.
func paymentMatches(rowPayment, filterPayment string) bool {
	fp := strings.ToUpper(strings.TrimSpace(filterPayment))
	rp := strings.ToUpper(strings.TrimSpace(rowPayment))
	switch fp {
	case "NAN":
		return rp == "" || IsNullMarker(rp)
	case "COD":
		return strings.Contains(rp, "COD") || strings.Contains(rp, "CASH")
	case "ONLINE":
		return strings.Contains(rp, "ONLINE") || strings.Contains(rp, "PREPAID") || strings.Contains(rp, "PAID")
	default:
		return rp == fp
	}
}

// anyMatch reports whether pred holds for any active value of l.
func anyMatch(l entity.StringList, pred func(v string) bool) bool {
	for _, v := range l {
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		if pred(v) {
			return true
		}
	}
	return false
}

func exactFold(row, filter string) bool {
	return strings.EqualFold(strings.TrimSpace(row), strings.TrimSpace(filter))
}

// Filter applies spec to rows and returns the narrowed row-set. All present
// predicates AND together; a predicate over a field this dataset never
// resolved simply matches nothing for non-empty values, which is the
// documented degradation, not an error.
func Filter(rows []entity.CanonicalRow, spec *entity.FilterSpec) []entity.CanonicalRow {
	if spec.IsZero() {
		return rows
	}

	var startDate, endDate *time.Time
	if spec.StartDate != "" {
		startDate = ParseDate(spec.StartDate)
	}
	if spec.EndDate != "" {
		endDate = ParseDate(spec.EndDate)
	}
	boundsSet := startDate != nil || endDate != nil

	out := make([]entity.CanonicalRow, 0, len(rows))
	for i := range rows {
		row := &rows[i]

		if boundsSet {
			// Rows without an order date fall outside any dated window.
			if row.OrderDate == nil {
				continue
			}
			if startDate != nil && row.OrderDate.Before(*startDate) {
				continue
			}
			if endDate != nil && row.OrderDate.After(endOfDay(*endDate)) {
				continue
			}
		}

		if len(spec.OrderStatus) > 0 && activeList(spec.OrderStatus) {
			status := row.OriginalStatus
			if status == "" {
				status = row.DeliveryStatus
			}
			if !anyMatch(spec.OrderStatus, func(v string) bool { return statusMatches(status, v) }) {
				continue
			}
		}
		if activeList(spec.PaymentMethod) &&
			!anyMatch(spec.PaymentMethod, func(v string) bool { return paymentMatches(row.PaymentMethod, v) }) {
			continue
		}
		if activeList(spec.Channel) &&
			!anyMatch(spec.Channel, func(v string) bool { return exactFold(row.Channel, v) }) {
			continue
		}
		if activeList(spec.SKU) &&
			!anyMatch(spec.SKU, func(v string) bool { return strings.TrimSpace(row.SKU) == strings.TrimSpace(v) }) {
			continue
		}
		if activeList(spec.ProductName) &&
			!anyMatch(spec.ProductName, func(v string) bool { return strings.TrimSpace(row.ProductName) == strings.TrimSpace(v) }) {
			continue
		}
		if activeList(spec.State) &&
			!anyMatch(spec.State, func(v string) bool { return exactFold(row.State, v) }) {
			continue
		}
		if activeList(spec.Courier) &&
			!anyMatch(spec.Courier, func(v string) bool { return exactFold(row.Courier, v) }) {
			continue
		}
		if activeList(spec.NDRDescription) &&
			!anyMatch(spec.NDRDescription, func(v string) bool { return exactFold(row.NDRDescription, v) }) {
			continue
		}

		out = append(out, *row)
	}
	return out
}

func activeList(l entity.StringList) bool {
	for _, v := range l {
		if v != "" && !strings.EqualFold(v, "all") {
			return true
		}
	}
	return false
}

// endOfDay widens an end bound without a time component to be inclusive of
// the whole day.
func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
