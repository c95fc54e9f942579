package analytics

import (
	"sort"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// WeeklySummaryRow is one order-week bucket of the weekly summary report.
type WeeklySummaryRow struct {
	OrderWeek            string  `json:"order_week"`
	TotalOrders          int     `json:"total_orders"`
	TotalOrderValue      float64 `json:"total_order_value"`
	AvgOrderValue        float64 `json:"avg_order_value"`
	TotalNDR             int     `json:"total_ndr"`
	NDRDeliveredAfter    int     `json:"ndr_delivered_after"`
	NDRRatePercent       float64 `json:"ndr_rate_percent"`
	NDRConversionPercent float64 `json:"ndr_conversion_percent"`
	FADCount             int     `json:"fad_count"`
	OFDCount             int     `json:"ofd_count"`
	DelCount             int     `json:"del_count"`
	NDRCount             int     `json:"ndr_count"`
	RTOCount             int     `json:"rto_count"`
	AvgTotalTAT          float64 `json:"avg_total_tat"`
}

// WeeklySummary groups rows by order week and reports delivery outcome
// counts, GMV over delivered orders and NDR conversion.
func WeeklySummary(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []WeeklySummaryRow{}
	}

	type acc struct {
		WeeklySummaryRow
		tatSum   float64
		tatCount int
	}
	buckets := map[string]*acc{}

	for i := range rows {
		r := &rows[i]
		week := orDefault(r.OrderWeek, "Unknown")
		b := buckets[week]
		if b == nil {
			b = &acc{WeeklySummaryRow: WeeklySummaryRow{OrderWeek: week}}
			buckets[week] = b
		}

		status := rowStatus(r)
		b.TotalOrders++
		if isDelivered(status) {
			b.DelCount++
			b.TotalOrderValue += f64(r.OrderValue)
			if r.NDRFlag {
				b.NDRDeliveredAfter++
			} else {
				b.FADCount++
			}
		}
		if isOFD(status) {
			b.OFDCount++
		}
		if status == StatusNDR {
			b.NDRCount++
		}
		if hasRTO(status) {
			b.RTOCount++
		}
		if r.NDRFlag {
			b.TotalNDR++
		}
		if r.TotalTAT != nil {
			b.tatSum += *r.TotalTAT
			b.tatCount++
		}
	}

	out := make([]WeeklySummaryRow, 0, len(buckets))
	for _, b := range buckets {
		if b.DelCount > 0 {
			b.AvgOrderValue = b.TotalOrderValue / float64(b.DelCount)
		}
		b.NDRRatePercent = pct(float64(b.TotalNDR), float64(b.TotalOrders))
		b.NDRConversionPercent = pct(float64(b.NDRDeliveredAfter), float64(b.TotalNDR))
		if b.tatCount > 0 {
			b.AvgTotalTAT = b.tatSum / float64(b.tatCount)
		}
		out = append(out, b.WeeklySummaryRow)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderWeek < out[j].OrderWeek })
	return out
}

// NDRWeeklyRow is one order-week bucket over NDR-flagged rows only.
type NDRWeeklyRow struct {
	OrderWeek            string         `json:"order_week"`
	TotalNDR             int            `json:"total_ndr"`
	NDRDeliveredAfter    int            `json:"ndr_delivered_after"`
	NDRRatePercent       float64        `json:"ndr_rate_percent"`
	NDRConversionPercent float64        `json:"ndr_conversion_percent"`
	NDRReasons           map[string]int `json:"ndr_reasons"`
}

// NDRWeekly reports NDR volume, conversion and a reason histogram per week.
// The rate denominator is the week's full order count, not just NDR rows.
func NDRWeekly(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []NDRWeeklyRow{}
	}

	weekTotals := map[string]int{}
	for i := range rows {
		weekTotals[orDefault(rows[i].OrderWeek, "Unknown")]++
	}

	buckets := map[string]*NDRWeeklyRow{}
	for i := range rows {
		r := &rows[i]
		if !r.NDRFlag {
			continue
		}
		week := orDefault(r.OrderWeek, "Unknown")
		b := buckets[week]
		if b == nil {
			b = &NDRWeeklyRow{OrderWeek: week, NDRReasons: map[string]int{}}
			buckets[week] = b
		}
		b.TotalNDR++
		if r.DeliveryStatus == StatusDelivered {
			b.NDRDeliveredAfter++
		}
		b.NDRReasons[orDefault(r.NDRDescription, "Unknown")]++
	}

	out := make([]NDRWeeklyRow, 0, len(buckets))
	for _, b := range buckets {
		b.NDRRatePercent = pct(float64(b.TotalNDR), float64(weekTotals[b.OrderWeek]))
		b.NDRConversionPercent = pct(float64(b.NDRDeliveredAfter), float64(b.TotalNDR))
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderWeek < out[j].OrderWeek })
	return out
}

// CancellationTrackerRow is one (week, cancellation bucket) cell.
type CancellationTrackerRow struct {
	OrderWeek          string  `json:"order_week"`
	CancellationBucket string  `json:"cancellation_bucket"`
	Count              int     `json:"count"`
	Percentage         float64 `json:"percentage"`
}

// CancellationTracker buckets rows per week by cancellation reason. Rows
// without a reason land in "Not Canceled"; the percentage is of the week's
// total order count.
func CancellationTracker(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []CancellationTrackerRow{}
	}

	weekTotals := map[string]int{}
	type key struct{ week, bucket string }
	counts := map[key]int{}

	for i := range rows {
		r := &rows[i]
		week := orDefault(r.OrderWeek, "Unknown")
		bucket := r.CancellationReason
		if bucket == "" {
			if r.CancelledFlag {
				bucket = "Cancelled"
			} else {
				bucket = "Not Canceled"
			}
		}
		weekTotals[week]++
		counts[key{week, bucket}]++
	}

	out := make([]CancellationTrackerRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, CancellationTrackerRow{
			OrderWeek:          k.week,
			CancellationBucket: k.bucket,
			Count:              n,
			Percentage:         pct(float64(n), float64(weekTotals[k.week])),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderWeek != out[j].OrderWeek {
			return out[i].OrderWeek < out[j].OrderWeek
		}
		return out[i].CancellationBucket < out[j].CancellationBucket
	})
	return out
}
