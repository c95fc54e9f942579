package analytics

import (
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		raw   string
		dates statusDates
		want  string
	}{
		{"explicit token verbatim", "CANCELLED", statusDates{}, "CANCELLED"},
		{"explicit token case insensitive", "in transit", statusDates{}, "IN TRANSIT"},
		{"rto respelled", "rto_in-transit", statusDates{}, StatusRTOInTransit},
		{"rto initiated respelled", "RTO-INITIATED", statusDates{}, StatusRTOInitiated},
		{"explicit beats dates", "LOST", statusDates{delivery: &now}, "LOST"},
		{"delivery date implies delivered", "", statusDates{delivery: &now}, StatusDelivered},
		{"ndr date implies ndr", "", statusDates{ndr: &now}, StatusNDR},
		{"rto date implies rto initiated", "", statusDates{rto: &now}, StatusRTOInitiated},
		{"rto delivered date wins over rto", "", statusDates{rto: &now, rtoDelivered: &now}, StatusRTODelivered},
		{"ofd date implies ofd", "", statusDates{ofd: &now}, StatusOFD},
		{"unknown raw kept verbatim", "WEIRD STATE", statusDates{}, "WEIRD STATE"},
		{"empty falls to pending", "", statusDates{}, StatusPending},
		{"null marker falls to pending", "N/A", statusDates{}, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.raw, tt.dates); got != tt.want {
				t.Errorf("classifyStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStatusFamilies(t *testing.T) {
	if !isRTOStatus("RTO IN TRANSIT") || isRTOStatus("DELIVERED") {
		t.Error("isRTOStatus misclassified")
	}
	if !isCancelledStatus("CANCELED") || !isCancelledStatus("CANCELLATION") || isCancelledStatus("DELIVERED") {
		t.Error("isCancelledStatus misclassified")
	}
	if !inTransitResidual("IN TRANSIT") || !inTransitResidual("PICKED UP") || !inTransitResidual("OUT FOR DELIVERY") {
		t.Error("transit statuses not recognized")
	}
	// The residual rule excludes the terminal families.
	if inTransitResidual("RTO IN TRANSIT") || inTransitResidual("DELIVERED") || inTransitResidual("CANCELLED") {
		t.Error("terminal statuses leaked into in-transit")
	}
}
