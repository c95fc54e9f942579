package analytics

import (
	"testing"
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func filterFixture() []entity.CanonicalRow {
	return []entity.CanonicalRow{
		{OriginalStatus: "DELIVERED", DeliveryStatus: StatusDelivered, PaymentMethod: "COD", Channel: "Amazon", State: "Karnataka", Courier: "Delhivery", SKU: "SKU-1", ProductName: "Widget", OrderDate: day("2025-03-03")},
		{OriginalStatus: "CANCELLED", DeliveryStatus: "CANCELLED", PaymentMethod: "Prepaid", Channel: "Shopify", State: "Kerala", Courier: "Bluedart", SKU: "SKU-2", ProductName: "Gadget", OrderDate: day("2025-03-10")},
		{OriginalStatus: "", DeliveryStatus: StatusNDR, PaymentMethod: "", Channel: "Amazon", State: "Karnataka", Courier: "Delhivery", SKU: "SKU-1", ProductName: "Widget", OrderDate: nil},
		{OriginalStatus: "RTO", DeliveryStatus: StatusRTOInitiated, PaymentMethod: "Cash on Delivery", Channel: "Meesho", State: "Punjab", Courier: "Xpressbees", SKU: "SKU-3", ProductName: "Thing", OrderDate: day("2025-04-01")},
	}
}

func TestFilterZeroSpecIsIdentity(t *testing.T) {
	rows := filterFixture()
	if got := Filter(rows, nil); len(got) != len(rows) {
		t.Errorf("nil spec filtered to %d rows, want %d", len(got), len(rows))
	}
	if got := Filter(rows, &entity.FilterSpec{}); len(got) != len(rows) {
		t.Errorf("zero spec filtered to %d rows, want %d", len(got), len(rows))
	}
	// "All" values are no-ops too.
	spec := &entity.FilterSpec{Channel: entity.StringList{"All"}}
	if got := Filter(rows, spec); len(got) != len(rows) {
		t.Errorf("All-channel spec filtered to %d rows, want %d", len(got), len(rows))
	}
}

func TestFilterDateBounds(t *testing.T) {
	rows := filterFixture()
	spec := &entity.FilterSpec{StartDate: "2025-03-01", EndDate: "2025-03-10"}
	got := Filter(rows, spec)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// The end bound is inclusive of the whole end day.
	for _, r := range got {
		if r.OrderDate == nil {
			t.Error("dateless row survived a dated window")
		}
	}
}

func TestFilterStatusMapping(t *testing.T) {
	rows := filterFixture()

	tests := []struct {
		filter string
		want   int
	}{
		{"CANCELED", 1}, // matches CANCELLED via variant table
		{"DELIVERED", 1},
		{"RTO INITIATED", 1}, // bare RTO is an RTO INITIATED variant
		{"UNDELIVERED", 1},   // NDR falls under UNDELIVERED
		{"LOST", 0},
	}
	for _, tt := range tests {
		spec := &entity.FilterSpec{OrderStatus: entity.StringList{tt.filter}}
		if got := Filter(rows, spec); len(got) != tt.want {
			t.Errorf("status %q matched %d rows, want %d", tt.filter, len(got), tt.want)
		}
	}
}

func TestFilterPaymentCategories(t *testing.T) {
	rows := filterFixture()

	cod := Filter(rows, &entity.FilterSpec{PaymentMethod: entity.StringList{"COD"}})
	if len(cod) != 2 {
		t.Errorf("COD matched %d rows, want 2 (COD and Cash on Delivery)", len(cod))
	}
	online := Filter(rows, &entity.FilterSpec{PaymentMethod: entity.StringList{"Online"}})
	if len(online) != 1 {
		t.Errorf("Online matched %d rows, want 1 (Prepaid)", len(online))
	}
	nan := Filter(rows, &entity.FilterSpec{PaymentMethod: entity.StringList{"NaN"}})
	if len(nan) != 1 {
		t.Errorf("NaN matched %d rows, want 1 (blank payment)", len(nan))
	}
}

func TestFilterCombinesWithAnd(t *testing.T) {
	rows := filterFixture()
	spec := &entity.FilterSpec{
		Channel: entity.StringList{"Amazon"},
		State:   entity.StringList{"Karnataka"},
		SKU:     entity.StringList{"SKU-1"},
	}
	got := Filter(rows, spec)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}

	// Adding a predicate can only shrink the result.
	spec.OrderStatus = entity.StringList{"DELIVERED"}
	narrower := Filter(rows, spec)
	if len(narrower) > len(got) {
		t.Errorf("adding a predicate grew the result: %d > %d", len(narrower), len(got))
	}
	if len(narrower) != 1 {
		t.Errorf("got %d rows, want 1", len(narrower))
	}
}

func TestStatusMatchesFallback(t *testing.T) {
	// Unmapped filters fall back to separator-insensitive substring matching.
	if !statusMatches("IN TRANSIT-AT DESTINATION HUB", "AT DESTINATION") {
		t.Error("substring fallback failed")
	}
	if !statusMatches("picked_up", "PICKED UP") {
		t.Error("separator normalization failed")
	}
	if statusMatches("", "DELIVERED") {
		t.Error("empty row status must never match")
	}
}
