package analytics

import (
	"testing"
	"time"
)

func TestOrderWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-03-01", "2025-03-01-07"},
		{"2025-03-07", "2025-03-01-07"},
		{"2025-03-08", "2025-03-08-14"},
		{"2025-03-21", "2025-03-15-21"},
		{"2025-03-28", "2025-03-22-28"},
		{"2025-03-29", "2025-03-29-31"},
		{"2025-03-31", "2025-03-29-31"},
		{"2025-02-28", "2025-02-22-28"},
		// February's fifth bucket only exists in leap years.
		{"2024-02-29", "2024-02-29-29"},
		{"2025-04-30", "2025-04-29-30"},
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad test date %s: %v", tt.date, err)
		}
		if got := OrderWeek(&d); got != tt.want {
			t.Errorf("OrderWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}

	if got := OrderWeek(nil); got != "" {
		t.Errorf("OrderWeek(nil) = %q, want empty", got)
	}
}
