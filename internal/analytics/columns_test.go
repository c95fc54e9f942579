package analytics

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Order Date", "order_date"},
		{"Shiprocket Created At", "shiprocket_created_at"},
		{"orderTotal", "order_total"},
		{"Master SKU", "master_s_k_u"},
		{"  Courier Company  ", "courier_company"},
		{"Payment Method", "payment_method"},
		{"status", "status"},
		{"Weight (KG)", "weight_k_g"},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePriority(t *testing.T) {
	cols := columnSet([]string{"Current Status", "Status", "Delivery Status"})
	if got := Resolve(cols, FieldStatus); got != "status" {
		t.Errorf("Resolve status = %q, want status (priority over delivery_status)", got)
	}

	cols = columnSet([]string{"Current Status"})
	if got := Resolve(cols, FieldStatus); got != "current_status" {
		t.Errorf("Resolve status = %q, want current_status", got)
	}

	if got := Resolve(columnSet([]string{"Whatever"}), FieldStatus); got != "" {
		t.Errorf("Resolve on unknown headers = %q, want empty", got)
	}
}

func TestResolveNonEmptyFallsBack(t *testing.T) {
	cols := columnSet([]string{"Payment Method", "paymentmethod"})
	hasValue := func(col string) bool { return col == "paymentmethod" }

	// Priority pick is entirely empty, so the populated alias wins.
	if got := ResolveNonEmpty(cols, FieldPaymentMethod, hasValue); got != "paymentmethod" {
		t.Errorf("ResolveNonEmpty = %q, want paymentmethod", got)
	}

	// A populated priority pick is never overridden.
	allHaveValues := func(string) bool { return true }
	if got := ResolveNonEmpty(cols, FieldPaymentMethod, allHaveValues); got != "payment_method" {
		t.Errorf("ResolveNonEmpty = %q, want payment_method", got)
	}
}
