package analytics

import (
	"math"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string // "YYYY-MM-DD" or "" for nil
	}{
		{"iso date", "2025-03-15", "2025-03-15"},
		{"iso datetime", "2025-03-15 10:30:00", "2025-03-15"},
		{"rfc3339", "2025-03-15T10:30:00Z", "2025-03-15"},
		{"us slash", "3/15/2025", "2025-03-15"},
		{"us slash two digit year", "3/15/25", "2025-03-15"},
		{"two digit year pivots to 1900s", "3/15/75", "1975-03-15"},
		{"day month name", "15 Mar 2025", "2025-03-15"},
		{"slash ymd", "2025/03/15", "2025-03-15"},
		{"rollover rejected", "2/30/2025", ""},
		{"garbage", "not a date", ""},
		{"empty", "", ""},
		{"null marker", "N/A", ""},
		{"nil cell", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("ParseDate(%v) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%v) = nil, want %s", tt.input, tt.want)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%v) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{"plain", "1500", fp(1500)},
		{"thousands separator", "1,500.00", fp(1500)},
		{"currency prefix", "$249.50", fp(249.50)},
		{"negative", "-12.5", fp(-12.5)},
		{"json float", 42.5, fp(42.5)},
		{"json nan", math.NaN(), nil},
		{"empty", "", nil},
		{"null marker", "None", nil},
		{"letters only", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseNumber(%v) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	truthy := []any{"true", "TRUE", "yes", "Y", "1", true}
	for _, v := range truthy {
		if !ParseBool(v) {
			t.Errorf("ParseBool(%v) = false, want true", v)
		}
	}
	falsy := []any{"", "no", "0", "false", nil, "maybe", false}
	for _, v := range falsy {
		if ParseBool(v) {
			t.Errorf("ParseBool(%v) = true, want false", v)
		}
	}
}

func TestStandardizeMissing(t *testing.T) {
	for _, v := range []string{"", "  ", "None", "N/A", "na", "NULL", "'"} {
		if got := StandardizeMissing(v); got != "" {
			t.Errorf("StandardizeMissing(%q) = %q, want empty", v, got)
		}
	}
	if got := StandardizeMissing("  Amazon  "); got != "Amazon" {
		t.Errorf("StandardizeMissing trims to %q, want Amazon", got)
	}
}

func TestTAT(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	if got := TAT(&start, &end); got == nil || *got != 36 {
		t.Errorf("TAT = %v, want 36", got)
	}
	// Negative deltas are clock errors, not answers.
	if got := TAT(&end, &start); got != nil {
		t.Errorf("TAT backwards = %v, want nil", got)
	}
	if got := TAT(nil, &end); got != nil {
		t.Errorf("TAT with nil start = %v, want nil", got)
	}
	if got := TAT(&start, nil); got != nil {
		t.Errorf("TAT with nil end = %v, want nil", got)
	}
}

func fp(f float64) *float64 { return &f }
