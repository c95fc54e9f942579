package analytics

import (
	"sort"
	"strings"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// SummaryMetricsReport is the single-record dataset overview. Several values are
// emitted twice under legacy and camelCase keys that different dashboard
// panels read.
type SummaryMetricsReport struct {
	SyncedOrders      int     `json:"syncedOrders"`
	TotalOrders       int     `json:"total_orders"`
	TotalDelivered    int     `json:"total_delivered"`
	DeliveredOrders   int     `json:"deliveredOrders"`
	TotalNDR          int     `json:"total_ndr"`
	TotalRTO          int     `json:"total_rto"`
	RTOOrders         int     `json:"rtoOrders"`
	TotalGMV          float64 `json:"total_gmv"`
	GMV               float64 `json:"gmv"`
	DeliveryRate      float64 `json:"delivery_rate"`
	DeliveryPercent   float64 `json:"deliveryPercent"`
	NDRRate           float64 `json:"ndr_rate"`
	RTORate           float64 `json:"rto_rate"`
	RTOPercent        float64 `json:"rtoPercent"`
	InTransitOrders   int     `json:"inTransitOrders"`
	InTransitPercent  float64 `json:"inTransitPercent"`
	UndeliveredOrders int     `json:"undeliveredOrders"`
}

// inTransitStatuses is the fixed vocabulary the overview panel counts as in
// transit, unlike the residual classification used by per-dimension reports.
var inTransitStatuses = map[string]bool{
	"IN TRANSIT":                      true,
	"IN TRANSIT-AT DESTINATION HUB":   true,
	"PICKED UP":                       true,
	"REACHED DESTINATION HUB":         true,
	"OUT FOR DELIVERY":                true,
	"OFD":                             true,
}

// SummaryMetrics computes the dataset-level overview. GMV sums order value
// over delivered rows only.
func SummaryMetrics(rows []entity.CanonicalRow) any {
	m := SummaryMetricsReport{}
	if len(rows) == 0 {
		return m
	}

	for i := range rows {
		r := &rows[i]
		status := rowStatus(r)
		m.TotalOrders++
		if isDelivered(status) {
			m.TotalDelivered++
			m.TotalGMV += f64(r.OrderValue)
		}
		if r.NDRFlag {
			m.TotalNDR++
		}
		if hasRTO(status) {
			m.TotalRTO++
		}
		if inTransitStatuses[status] {
			m.InTransitOrders++
		}
	}

	total := float64(m.TotalOrders)
	m.SyncedOrders = m.TotalOrders
	m.DeliveredOrders = m.TotalDelivered
	m.RTOOrders = m.TotalRTO
	m.GMV = m.TotalGMV
	m.DeliveryRate = pct(float64(m.TotalDelivered), total)
	m.DeliveryPercent = m.DeliveryRate
	m.NDRRate = pct(float64(m.TotalNDR), total)
	m.RTORate = pct(float64(m.TotalRTO), total)
	m.RTOPercent = m.RTORate
	m.InTransitPercent = pct(float64(m.InTransitOrders), total)
	m.UndeliveredOrders = m.TotalOrders - m.TotalDelivered
	return m
}

// OrderStatusRow is one raw-status bucket.
type OrderStatusRow struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// OrderStatuses histograms the raw carrier statuses.
func OrderStatuses(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []OrderStatusRow{}
	}

	counts := map[string]int{}
	for i := range rows {
		counts[orDefault(rowStatus(&rows[i]), "Unknown")]++
	}

	total := float64(len(rows))
	out := make([]OrderStatusRow, 0, len(counts))
	for status, n := range counts {
		out = append(out, OrderStatusRow{Status: status, Count: n, Percentage: pct(float64(n), total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// PaymentShareRow is one COD/Online/NaN bucket.
type PaymentShareRow struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// paymentCategory maps a raw payment method into the three display buckets.
func paymentCategory(method string) string {
	up := strings.ToUpper(strings.TrimSpace(method))
	switch {
	case up == "" || IsNullMarker(up):
		return "NaN"
	case strings.Contains(up, "COD") || strings.Contains(up, "CASH"):
		return "COD"
	case strings.Contains(up, "ONLINE") || strings.Contains(up, "PREPAID") || strings.Contains(up, "PAID"):
		return "Online"
	default:
		return "NaN"
	}
}

// PaymentMethodShare reports the COD vs Online split as percentages.
func PaymentMethodShare(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []PaymentShareRow{}
	}

	counts := map[string]int{}
	for i := range rows {
		counts[paymentCategory(rows[i].PaymentMethod)]++
	}

	total := float64(len(rows))
	out := make([]PaymentShareRow, 0, len(counts))
	for name, n := range counts {
		out = append(out, PaymentShareRow{Name: name, Value: pct(float64(n), total), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PaymentOutcomeRow is one (payment method, status) cell.
type PaymentOutcomeRow struct {
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// PaymentMethodOutcome cross-tabulates raw payment methods against statuses.
// The percentage is of the payment method's own total.
func PaymentMethodOutcome(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []PaymentOutcomeRow{}
	}

	type key struct{ payment, status string }
	counts := map[key]int{}
	paymentTotals := map[string]int{}
	for i := range rows {
		r := &rows[i]
		payment := orDefault(r.PaymentMethod, "Unknown")
		counts[key{payment, rowStatus(r)}]++
		paymentTotals[payment]++
	}

	out := make([]PaymentOutcomeRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, PaymentOutcomeRow{
			PaymentMethod: k.payment,
			Status:        k.status,
			Count:         n,
			Percentage:    pct(float64(n), float64(paymentTotals[k.payment])),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaymentMethod != out[j].PaymentMethod {
			return out[i].PaymentMethod > out[j].PaymentMethod
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// NDRCountRow is one NDR-reason bucket.
type NDRCountRow struct {
	Reason    string `json:"reason"`
	Delivered int    `json:"delivered"`
	Total     int    `json:"total"`
}

// NDRCount histograms NDR reasons with their delivered-after counts.
func NDRCount(rows []entity.CanonicalRow) any {
	buckets := map[string]*NDRCountRow{}
	for i := range rows {
		r := &rows[i]
		if !r.NDRFlag {
			continue
		}
		reason := orDefault(r.NDRDescription, "Unknown Exception")
		b := buckets[reason]
		if b == nil {
			b = &NDRCountRow{Reason: reason}
			buckets[reason] = b
		}
		b.Total++
		if isDelivered(rowStatus(r)) {
			b.Delivered++
		}
	}

	out := make([]NDRCountRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

// AddressShareRow is one address-quality bucket.
type AddressShareRow struct {
	AddressType string  `json:"addressType"`
	Percent     float64 `json:"percent"`
}

var addressDisplayNames = map[string]string{
	entity.AddressInvalid: "Invalid Address%",
	entity.AddressShort:   "Short Address %",
	entity.AddressGood:    "Good Address %",
}

// AddressTypeShare reports the address quality split. All three buckets are
// always present, zero-filled, in a fixed order.
func AddressTypeShare(rows []entity.CanonicalRow) any {
	counts := map[string]int{}
	for i := range rows {
		name, ok := addressDisplayNames[strings.ToUpper(rows[i].AddressQuality)]
		if !ok {
			name = addressDisplayNames[entity.AddressGood]
		}
		counts[name]++
	}

	total := float64(len(rows))
	out := make([]AddressShareRow, 0, 3)
	for _, name := range []string{"Invalid Address%", "Short Address %", "Good Address %"} {
		out = append(out, AddressShareRow{AddressType: name, Percent: pct(float64(counts[name]), total)})
	}
	return out
}

// TATMetricRow is one named turnaround-time metric, averaged in days.
type TATMetricRow struct {
	Metric  string   `json:"metric"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// AverageOrderTAT averages the stage-to-stage turnaround times in days over
// rows where both endpoints are known. The trailing record carries a plain
// row count, not an average.
func AverageOrderTAT(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []TATMetricRow{}
	}

	type metric struct {
		name string
		span func(*entity.CanonicalRow) *float64
	}
	metrics := []metric{
		{"Order Placed to Pickup TAT", func(r *entity.CanonicalRow) *float64 { return TAT(r.OrderDate, r.PickupDate) }},
		{"Order Placed - Approval TAT", func(r *entity.CanonicalRow) *float64 {
			approval := r.ApprovalDate
			if approval == nil {
				approval = r.OrderDate
			}
			return TAT(r.OrderDate, approval)
		}},
		{"Approval to AWB TAT", func(r *entity.CanonicalRow) *float64 {
			approval := r.ApprovalDate
			if approval == nil {
				approval = r.OrderDate
			}
			return TAT(approval, r.AWBDate)
		}},
		{"AWB to Pickup TAT", func(r *entity.CanonicalRow) *float64 { return TAT(r.AWBDate, r.PickupDate) }},
		{"Pickup OFD TAT", func(r *entity.CanonicalRow) *float64 { return TAT(r.PickupDate, r.OFDDate) }},
		{"Order Placed to OFD TAT", func(r *entity.CanonicalRow) *float64 { return TAT(r.OrderDate, r.OFDDate) }},
	}

	out := make([]TATMetricRow, 0, len(metrics)+1)
	for _, m := range metrics {
		sum, count := 0.0, 0
		for i := range rows {
			if hours := m.span(&rows[i]); hours != nil {
				sum += *hours / 24
				count++
			}
		}
		row := TATMetricRow{Metric: m.name, Count: count}
		if count > 0 {
			avg := sum / float64(count)
			row.Average = &avg
		}
		out = append(out, row)
	}
	out = append(out, TATMetricRow{Metric: "Approved Orders", Count: len(rows)})
	return out
}

// OutcomePercentRow is one named outcome bucket of the FAD/DEL/CAN/RTO report.
type OutcomePercentRow struct {
	Metric  string  `json:"metric"`
	Percent float64 `json:"percent"`
}

// FADDelCanRTO reports overall outcome percentages. Buckets are mutually
// inclusive: one row can count toward several.
func FADDelCanRTO(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []OutcomePercentRow{}
	}

	var fad, del, ofd, ndr, inTransit, rto, cancelled, rvp int
	for i := range rows {
		r := &rows[i]
		status := rowStatus(r)

		isDel := status == StatusDelivered || status == "DEL"
		isRTO := hasRTO(status)
		isCan := r.CancelledFlag || isCancelledToken(status) || strings.Contains(status, "CANCEL")
		if isDel {
			del++
			if !r.NDRFlag {
				fad++
			}
		}
		if isOFD(status) {
			ofd++
		}
		if r.NDRFlag || strings.Contains(status, "NDR") {
			ndr++
		}
		if isRTO {
			rto++
		}
		if isCan {
			cancelled++
		}
		if strings.Contains(status, "RVP") {
			rvp++
		}
		transit := strings.Contains(status, "IN TRANSIT") ||
			strings.Contains(status, "PICKED UP") ||
			strings.Contains(status, "REACHED DESTINATION") ||
			strings.Contains(status, "AT DESTINATION")
		if transit && !isDel && !isRTO && !isCan {
			inTransit++
		}
	}

	total := float64(len(rows))
	return []OutcomePercentRow{
		{"FAD%", pct(float64(fad), total)},
		{"Del%", pct(float64(del), total)},
		{"OFD%", pct(float64(ofd), total)},
		{"NDR%", pct(float64(ndr), total)},
		{"Intransit%", pct(float64(inTransit), total)},
		{"RTO%", pct(float64(rto), total)},
		{"Canceled%", pct(float64(cancelled), total)},
		{"RVP%", pct(float64(rvp), total)},
	}
}

// CancellationReasonRow is one cancellation-reason bucket.
type CancellationReasonRow struct {
	Reason  string  `json:"reason"`
	Percent float64 `json:"percent"`
}

// CancellationReasonTracker reports cancellation reasons as percentages of
// all rows, with a "Not Canceled" bucket for the rest. "Not Canceled" sorts
// first, then reasons alphabetically.
func CancellationReasonTracker(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []CancellationReasonRow{}
	}

	counts := map[string]int{}
	cancelled := 0
	for i := range rows {
		r := &rows[i]
		if r.CancellationReason != "" {
			counts[r.CancellationReason]++
		}
		if r.CancelledFlag {
			cancelled++
		}
	}
	if notCancelled := len(rows) - cancelled; notCancelled > 0 {
		counts["Not Canceled"] = notCancelled
	}

	total := float64(len(rows))
	out := make([]CancellationReasonRow, 0, len(counts))
	for reason, n := range counts {
		out = append(out, CancellationReasonRow{Reason: reason, Percent: pct(float64(n), total)})
	}
	sort.Slice(out, func(i, j int) bool {
		iNC, jNC := out[i].Reason == "Not Canceled", out[j].Reason == "Not Canceled"
		if iNC != jNC {
			return iNC
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
