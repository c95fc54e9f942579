package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

func sampleTable() entity.RawTable {
	return entity.RawTable{
		Headers: []string{
			"Order Date", "Status", "Order Total", "Master SKU", "Product Name",
			"Channel", "State", "Courier Company", "Payment Method",
			"Order Delivered Date", "Latest NDR Reason",
		},
		Rows: []entity.RawRow{
			{
				"Order Date": "2025-03-03", "Status": "Delivered", "Order Total": "1,200.00",
				"Master SKU": "SKU-1", "Product Name": "Widget", "Channel": "Amazon",
				"State": "Karnataka", "Courier Company": "Delhivery", "Payment Method": "COD",
				"Order Delivered Date": "2025-03-06", "Latest NDR Reason": "",
			},
			{
				"Order Date": "2025-03-10", "Status": "", "Order Total": "None",
				"Master SKU": "SKU-2", "Product Name": "Gadget", "Channel": "Shopify",
				"State": "Kerala", "Courier Company": "Bluedart", "Payment Method": "Prepaid",
				"Order Delivered Date": "", "Latest NDR Reason": "Customer unavailable",
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	rows := Normalize(sampleTable())
	if len(rows) != 2 {
		t.Fatalf("Normalize returned %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.DeliveryStatus != StatusDelivered {
		t.Errorf("row 0 status = %q, want DELIVERED", first.DeliveryStatus)
	}
	if first.OriginalStatus != "DELIVERED" {
		t.Errorf("row 0 original status = %q, want DELIVERED", first.OriginalStatus)
	}
	if first.OrderValue == nil || *first.OrderValue != 1200 {
		t.Errorf("row 0 order value = %v, want 1200", first.OrderValue)
	}
	if first.OrderWeek != "2025-03-01-07" {
		t.Errorf("row 0 order week = %q, want 2025-03-01-07", first.OrderWeek)
	}
	if first.TotalTAT == nil || *first.TotalTAT != 72 {
		t.Errorf("row 0 total TAT = %v, want 72", first.TotalTAT)
	}
	if first.Category != DefaultCategory {
		t.Errorf("row 0 category = %q, want default", first.Category)
	}

	second := rows[1]
	if second.DeliveryStatus != StatusPending {
		t.Errorf("row 1 status = %q, want PENDING", second.DeliveryStatus)
	}
	if second.OrderValue != nil {
		t.Errorf("row 1 order value = %v, want nil", second.OrderValue)
	}
	if second.NDRDescription != "Customer unavailable" {
		t.Errorf("row 1 ndr description = %q", second.NDRDescription)
	}
}

func TestNormalizeNeverDropsRows(t *testing.T) {
	tab := sampleTable()
	// Corrupt every cell of the second row.
	for k := range tab.Rows[1] {
		tab.Rows[1][k] = "###"
	}
	rows := Normalize(tab)
	if len(rows) != len(tab.Rows) {
		t.Fatalf("row count changed: got %d, want %d", len(rows), len(tab.Rows))
	}
	if rows[1].OrderDate != nil || rows[1].OrderValue != nil {
		t.Error("malformed cells should degrade to nil, not parse")
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	rows := Normalize(entity.RawTable{
		Headers: []string{"Something Else"},
		Rows:    []entity.RawRow{{"Something Else": "x"}},
	})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.DeliveryStatus != StatusPending {
		t.Errorf("status = %q, want PENDING", r.DeliveryStatus)
	}
	if r.Category != DefaultCategory {
		t.Errorf("category = %q, want default", r.Category)
	}
	if r.OrderWeek != "" {
		t.Errorf("order week = %q, want empty", r.OrderWeek)
	}
}

// encodeCanonical renders normalized rows back into a canonical-headers raw
// table, the shape a stored dataset takes when it is re-submitted.
func encodeCanonical(rows []entity.CanonicalRow) entity.RawTable {
	headers := []string{
		"sku", "product_name", "category", "channel", "state", "courier",
		"payment_method", "original_status", "delivery_status", "ndr_flag",
		"rto_flag", "cancelled_flag", "ndr_description", "cancellation_reason",
		"order_date", "pickup_date", "approval_date", "awb_date", "ofd_date",
		"delivery_date", "ndr_date", "rto_date", "order_week", "order_value",
		"margin", "weight", "order_to_pickup_tat", "pickup_to_ofd_tat",
		"ofd_to_delivery_tat", "total_tat", "address_quality",
	}
	out := make([]entity.RawRow, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		row := entity.RawRow{
			"sku":                 r.SKU,
			"product_name":        r.ProductName,
			"category":            r.Category,
			"channel":             r.Channel,
			"state":               r.State,
			"courier":             r.Courier,
			"payment_method":      r.PaymentMethod,
			"original_status":     r.OriginalStatus,
			"delivery_status":     r.DeliveryStatus,
			"ndr_flag":            r.NDRFlag,
			"rto_flag":            r.RTOFlag,
			"cancelled_flag":      r.CancelledFlag,
			"ndr_description":     r.NDRDescription,
			"cancellation_reason": r.CancellationReason,
			"order_week":          r.OrderWeek,
			"address_quality":     r.AddressQuality,
		}
		putDate := func(col string, v *time.Time) {
			if v != nil {
				row[col] = v.Format(time.RFC3339)
			}
		}
		putNum := func(col string, v *float64) {
			if v != nil {
				row[col] = *v
			}
		}
		putDate("order_date", r.OrderDate)
		putDate("pickup_date", r.PickupDate)
		putDate("approval_date", r.ApprovalDate)
		putDate("awb_date", r.AWBDate)
		putDate("ofd_date", r.OFDDate)
		putDate("delivery_date", r.DeliveryDate)
		putDate("ndr_date", r.NDRDate)
		putDate("rto_date", r.RTODate)
		putNum("order_value", r.OrderValue)
		putNum("margin", r.Margin)
		putNum("weight", r.Weight)
		putNum("order_to_pickup_tat", r.OrderToPickupTAT)
		putNum("pickup_to_ofd_tat", r.PickupToOFDTAT)
		putNum("ofd_to_delivery_tat", r.OFDToDeliveryTAT)
		putNum("total_tat", r.TotalTAT)
		out = append(out, row)
	}
	return entity.RawTable{Headers: headers, Rows: out}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(sampleTable())
	second := Normalize(encodeCanonical(first))

	if len(second) != len(first) {
		t.Fatalf("renormalizing changed row count: got %d, want %d", len(second), len(first))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Errorf("row %d changed on renormalization:\nfirst:  %+v\nsecond: %+v", i, first[i], second[i])
		}
	}
}

func TestIsCanonical(t *testing.T) {
	if IsCanonical([]string{"Order Date", "Status"}) {
		t.Error("raw export headers misdetected as canonical")
	}
	if !IsCanonical([]string{"delivery_status", "ndr_flag", "order_week", "sku"}) {
		t.Error("canonical headers not detected")
	}
}
