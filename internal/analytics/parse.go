package analytics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Null markers recognized case-insensitively in raw cells.
var nullMarkers = map[string]bool{
	"": true, "none": true, "n/a": true, "na": true, "null": true,
}

// CellString coerces a raw cell to its trimmed string form. Numbers from JSON
// sources format without a trailing ".0" for integral values.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// StandardizeMissing maps empty/whitespace/none/n-a/null cells to "" before
// any further parsing. Also swallows the stray "'" cells some exports emit.
func StandardizeMissing(v any) string {
	s := CellString(v)
	if s == "'" {
		return ""
	}
	if nullMarkers[strings.ToLower(s)] {
		return ""
	}
	return s
}

// IsNullMarker reports whether s carries no information.
func IsNullMarker(s string) bool {
	return s == "'" || nullMarkers[strings.ToLower(strings.TrimSpace(s))]
}

var mmddyy = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// dateLayouts tried in order after the MM/DD/YY fast path. Mirrors the
// permissive parser the export sources assume.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02 Jan 2006 15:04:05",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ParseDate parses a date cell permissively. Two-digit years pivot at 50:
// <50 maps to the 2000s, >=50 to the 1900s. Unparseable input yields nil,
// never an error.
func ParseDate(v any) *time.Time {
	s := StandardizeMissing(v)
	if s == "" {
		return nil
	}
	if m := mmddyy.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if month >= 1 && month <= 12 && day >= 1 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// Reject rollover like 02/30.
			if t.Day() == day && int(t.Month()) == month {
				return &t
			}
		}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber strips everything but digits, '.' and '-' ("1,500.00" -> 1500)
// and converts. Nil on empty or malformed remainder.
func ParseNumber(v any) *float64 {
	if f, ok := v.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	s := StandardizeMissing(v)
	if s == "" {
		return nil
	}
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseBool matches {"true","yes","1","y"} case-insensitively. Absence means
// false; this never yields null.
func ParseBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(CellString(v)) {
	case "true", "yes", "1", "y":
		return true
	}
	return false
}

// TAT returns the elapsed hours between two milestones, nil when either
// endpoint is missing or the delta is negative.
func TAT(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	h := end.Sub(*start).Hours()
	if h < 0 {
		return nil
	}
	return &h
}
