package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestSanitizeScalars(t *testing.T) {
	if got := Sanitize(math.NaN()); got != nil {
		t.Errorf("NaN = %v, want nil", got)
	}
	if got := Sanitize(math.Inf(1)); got != nil {
		t.Errorf("+Inf = %v, want nil", got)
	}
	if got := Sanitize(42.5); got != 42.5 {
		t.Errorf("plain float = %v, want 42.5", got)
	}
	var p *float64
	if got := Sanitize(p); got != nil {
		t.Errorf("nil pointer = %v, want nil", got)
	}
	f := 1.5
	if got := Sanitize(&f); got != 1.5 {
		t.Errorf("pointer = %v, want 1.5", got)
	}
}

func TestSanitizeTime(t *testing.T) {
	ts := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := Sanitize(ts); got != "2025-03-15T10:30:00Z" {
		t.Errorf("time = %v, want RFC3339", got)
	}
}

func TestSanitizeSlicesAndStructs(t *testing.T) {
	// Nil slices serialize as [], never null.
	var s []int
	got := Sanitize(s)
	if arr, ok := got.([]any); !ok || len(arr) != 0 {
		t.Errorf("nil slice = %v, want empty array", got)
	}

	type inner struct {
		Value   float64  `json:"value"`
		Skipped string   `json:"-"`
		Rate    *float64 `json:"rate"`
	}
	in := inner{Value: math.NaN(), Skipped: "x"}
	m, ok := Sanitize(in).(map[string]any)
	if !ok {
		t.Fatalf("struct sanitized to %T", Sanitize(in))
	}
	if _, present := m["Skipped"]; present {
		t.Error("json \"-\" field leaked")
	}
	if m["value"] != nil {
		t.Errorf("NaN field = %v, want nil", m["value"])
	}
	if m["rate"] != nil {
		t.Errorf("nil pointer field = %v, want nil", m["rate"])
	}

	want := map[string]any{"value": nil, "rate": nil}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("sanitized struct = %v, want %v", m, want)
	}
}
