package analytics

import (
	"testing"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

func TestAggregateRegistry(t *testing.T) {
	names := AggregateNames()
	if len(names) != 20 {
		t.Fatalf("registry has %d aggregates, want 20", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("AggregateNames not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, name := range names {
		fn, err := Lookup(name)
		if err != nil || fn == nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}

	if _, err := Lookup("no-such-report"); !domain.IsUnknownReport(err) {
		t.Errorf("Lookup unknown = %v, want unknown-report error", err)
	}
}

func TestEveryAggregateHandlesEmptyInput(t *testing.T) {
	for _, name := range AggregateNames() {
		fn, _ := Lookup(name)
		if out := fn(nil); out == nil {
			t.Errorf("%s returned nil for empty input", name)
		}
	}
}

func TestWeeklySummary(t *testing.T) {
	v := fp(500.0)
	tat := fp(48.0)
	rows := []entity.CanonicalRow{
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusDelivered, OrderValue: v, TotalTAT: tat},
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusDelivered, OrderValue: v, NDRFlag: true},
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusNDR, NDRFlag: true},
		{OrderWeek: "2025-03-08-14", DeliveryStatus: StatusRTOInitiated},
	}

	out := WeeklySummary(rows).([]WeeklySummaryRow)
	if len(out) != 2 {
		t.Fatalf("got %d weeks, want 2", len(out))
	}
	w1 := out[0]
	if w1.OrderWeek != "2025-03-01-07" {
		t.Fatalf("weeks not sorted ascending: first is %s", w1.OrderWeek)
	}
	if w1.TotalOrders != 3 || w1.DelCount != 2 {
		t.Errorf("week 1 orders/delivered = %d/%d, want 3/2", w1.TotalOrders, w1.DelCount)
	}
	// GMV counts delivered rows only.
	if w1.TotalOrderValue != 1000 {
		t.Errorf("week 1 GMV = %v, want 1000", w1.TotalOrderValue)
	}
	if w1.AvgOrderValue != 500 {
		t.Errorf("week 1 avg order value = %v, want 500", w1.AvgOrderValue)
	}
	// One delivered row was NDR-flagged: delivered-after, not first-attempt.
	if w1.FADCount != 1 || w1.NDRDeliveredAfter != 1 {
		t.Errorf("week 1 fad/ndr-delivered = %d/%d, want 1/1", w1.FADCount, w1.NDRDeliveredAfter)
	}
	if w1.TotalNDR != 2 || w1.NDRConversionPercent != 50 {
		t.Errorf("week 1 ndr/conversion = %d/%v, want 2/50", w1.TotalNDR, w1.NDRConversionPercent)
	}
	if w1.AvgTotalTAT != 48 {
		t.Errorf("week 1 avg TAT = %v, want 48", w1.AvgTotalTAT)
	}

	w2 := out[1]
	if w2.RTOCount != 1 || w2.DelCount != 0 || w2.AvgOrderValue != 0 {
		t.Errorf("week 2 with zero delivered: rto=%d del=%d avg=%v", w2.RTOCount, w2.DelCount, w2.AvgOrderValue)
	}
}

func TestNDRWeeklyRateDenominator(t *testing.T) {
	rows := []entity.CanonicalRow{
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusNDR, NDRFlag: true, NDRDescription: "Customer unavailable"},
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusDelivered},
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusDelivered},
		{OrderWeek: "2025-03-01-07", DeliveryStatus: StatusDelivered},
	}

	out := NDRWeekly(rows).([]NDRWeeklyRow)
	if len(out) != 1 {
		t.Fatalf("got %d weeks, want 1", len(out))
	}
	// Rate is over the week's full order count, not just NDR rows.
	if out[0].NDRRatePercent != 25 {
		t.Errorf("ndr rate = %v, want 25", out[0].NDRRatePercent)
	}
	if out[0].NDRReasons["Customer unavailable"] != 1 {
		t.Errorf("reason histogram = %v", out[0].NDRReasons)
	}
}

func TestSummaryMetrics(t *testing.T) {
	v := fp(250.0)
	rows := []entity.CanonicalRow{
		{DeliveryStatus: StatusDelivered, OrderValue: v},
		{DeliveryStatus: StatusDelivered, OrderValue: v, NDRFlag: true},
		{DeliveryStatus: StatusRTOInitiated, OrderValue: v},
		{DeliveryStatus: "IN TRANSIT"},
	}

	m := SummaryMetrics(rows).(SummaryMetricsReport)
	if m.TotalOrders != 4 || m.SyncedOrders != 4 {
		t.Errorf("total orders = %d/%d, want 4/4", m.TotalOrders, m.SyncedOrders)
	}
	if m.TotalDelivered != 2 || m.DeliveryRate != 50 {
		t.Errorf("delivered = %d rate %v, want 2 and 50", m.TotalDelivered, m.DeliveryRate)
	}
	if m.TotalGMV != 500 {
		t.Errorf("GMV = %v, want 500 (delivered only)", m.TotalGMV)
	}
	if m.TotalRTO != 1 || m.InTransitOrders != 1 {
		t.Errorf("rto=%d inTransit=%d, want 1/1", m.TotalRTO, m.InTransitOrders)
	}
	if m.UndeliveredOrders != 2 {
		t.Errorf("undelivered = %d, want 2", m.UndeliveredOrders)
	}

	empty := SummaryMetrics(nil).(SummaryMetricsReport)
	if empty.TotalOrders != 0 || empty.DeliveryRate != 0 {
		t.Errorf("empty input should zero-fill, got %+v", empty)
	}
}

func TestAddressTypeShare(t *testing.T) {
	rows := []entity.CanonicalRow{
		{AddressQuality: entity.AddressGood},
		{AddressQuality: entity.AddressGood},
		{AddressQuality: entity.AddressShort},
		{AddressQuality: entity.AddressInvalid},
	}

	out := AddressTypeShare(rows).([]AddressShareRow)
	if len(out) != 3 {
		t.Fatalf("got %d buckets, want 3", len(out))
	}
	// Fixed bucket order.
	if out[0].AddressType != "Invalid Address%" || out[1].AddressType != "Short Address %" || out[2].AddressType != "Good Address %" {
		t.Errorf("bucket order wrong: %+v", out)
	}
	sum := out[0].Percent + out[1].Percent + out[2].Percent
	if sum != 100 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}

	// Unknown quality counts as good; all buckets still present.
	out = AddressTypeShare([]entity.CanonicalRow{{AddressQuality: ""}}).([]AddressShareRow)
	if len(out) != 3 || out[2].Percent != 100 {
		t.Errorf("unknown quality: %+v", out)
	}
}

func TestSKUAnalysisDropsPlaceholders(t *testing.T) {
	v := fp(100.0)
	rows := []entity.CanonicalRow{
		{SKU: "SKU-1", ProductName: "Widget", DeliveryStatus: StatusDelivered, OrderValue: v},
		{SKU: "SKU-1", DeliveryStatus: StatusRTOInitiated},
		{SKU: "None", DeliveryStatus: StatusDelivered, OrderValue: v},
		{SKU: "", DeliveryStatus: StatusDelivered, OrderValue: v},
		{SKU: "undefined", DeliveryStatus: StatusDelivered},
	}

	out := SKUAnalysis(rows).([]SKUAnalysisRow)
	if len(out) != 1 {
		t.Fatalf("got %d buckets, want 1 (placeholders dropped)", len(out))
	}
	b := out[0]
	if b.SKU != "SKU-1" || b.ProductName != "Widget" {
		t.Errorf("bucket = %s/%s", b.SKU, b.ProductName)
	}
	if b.Orders != 2 || b.Delivered != 1 || b.RTO != 1 {
		t.Errorf("orders/delivered/rto = %d/%d/%d, want 2/1/1", b.Orders, b.Delivered, b.RTO)
	}
	// Share denominator counts valid-SKU rows only.
	if b.OrderShare != 100 {
		t.Errorf("order share = %v, want 100", b.OrderShare)
	}
	if b.GMV != 100 || b.AvgOrderValue != 100 {
		t.Errorf("gmv/avg = %v/%v, want 100/100", b.GMV, b.AvgOrderValue)
	}
}

func TestCancellationReasonTrackerOrdering(t *testing.T) {
	rows := []entity.CanonicalRow{
		{CancellationReason: "Out of stock", CancelledFlag: true},
		{CancellationReason: "Address issue", CancelledFlag: true},
		{DeliveryStatus: StatusDelivered},
		{DeliveryStatus: StatusDelivered},
	}

	out := CancellationReasonTracker(rows).([]CancellationReasonRow)
	if len(out) != 3 {
		t.Fatalf("got %d buckets, want 3", len(out))
	}
	if out[0].Reason != "Not Canceled" {
		t.Errorf("first bucket = %q, want Not Canceled", out[0].Reason)
	}
	if out[1].Reason != "Address issue" || out[2].Reason != "Out of stock" {
		t.Errorf("reasons not alphabetical: %+v", out)
	}
	if out[0].Percent != 50 {
		t.Errorf("Not Canceled = %v%%, want 50", out[0].Percent)
	}
}

func TestFADDelCanRTOBuckets(t *testing.T) {
	rows := []entity.CanonicalRow{
		{DeliveryStatus: StatusDelivered},                // FAD and Del
		{DeliveryStatus: StatusDelivered, NDRFlag: true}, // Del and NDR, not FAD
		{DeliveryStatus: StatusRTOInitiated},
		{DeliveryStatus: "CANCELLED", CancelledFlag: true},
	}

	out := FADDelCanRTO(rows).([]OutcomePercentRow)
	if len(out) != 8 {
		t.Fatalf("got %d buckets, want 8", len(out))
	}
	byName := map[string]float64{}
	for _, r := range out {
		byName[r.Metric] = r.Percent
	}
	if byName["FAD%"] != 25 || byName["Del%"] != 50 {
		t.Errorf("fad/del = %v/%v, want 25/50", byName["FAD%"], byName["Del%"])
	}
	if byName["NDR%"] != 25 || byName["RTO%"] != 25 || byName["Canceled%"] != 25 {
		t.Errorf("ndr/rto/can = %v/%v/%v, want 25 each", byName["NDR%"], byName["RTO%"], byName["Canceled%"])
	}
	if byName["RVP%"] != 0 {
		t.Errorf("rvp = %v, want 0", byName["RVP%"])
	}
}

func TestTopN(t *testing.T) {
	rows := make([]entity.CanonicalRow, 0, 24)
	for i := 0; i < 12; i++ {
		rows = append(rows, entity.CanonicalRow{State: string(rune('A' + i)), DeliveryStatus: StatusDelivered})
	}
	// Make one state dominant.
	for i := 0; i < 12; i++ {
		rows = append(rows, entity.CanonicalRow{State: "A"})
	}

	out := Top10States(rows).([]TopNRow)
	if len(out) != 10 {
		t.Fatalf("got %d entries, want 10", len(out))
	}
	if out[0].Name != "A" || out[0].Orders != 13 {
		t.Errorf("leader = %s/%d, want A/13", out[0].Name, out[0].Orders)
	}
	if out[0].Delivered != 1 {
		t.Errorf("leader delivered = %d, want 1", out[0].Delivered)
	}
}
