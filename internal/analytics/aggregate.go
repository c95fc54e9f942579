package analytics

import (
	"sort"
	"strings"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// AggregateFunc computes one named report over a filtered row-set.
type AggregateFunc func(rows []entity.CanonicalRow) any

// aggregates maps report names to their compute functions. The map is
// populated once at init and read-only afterwards.
var aggregates = map[string]AggregateFunc{
	"weekly-summary":              WeeklySummary,
	"ndr-weekly":                  NDRWeekly,
	"state-performance":           StatePerformance,
	"category-share":              CategoryShare,
	"product-analysis":            ProductAnalysis,
	"sku-analysis":                SKUAnalysis,
	"cancellation-tracker":        CancellationTracker,
	"channel-share":               ChannelShare,
	"payment-method":              PaymentMethodShare,
	"summary-metrics":             SummaryMetrics,
	"order-statuses":              OrderStatuses,
	"payment-method-outcome":      PaymentMethodOutcome,
	"ndr-count":                   NDRCount,
	"address-type-share":          AddressTypeShare,
	"average-order-tat":           AverageOrderTAT,
	"fad-del-can-rto":             FADDelCanRTO,
	"cancellation-reason-tracker": CancellationReasonTracker,
	"delivery-partner-analysis":   DeliveryPartnerAnalysis,
	"top-10-states":               Top10States,
	"top-10-couriers":             Top10Couriers,
}

// AggregateNames returns the supported report names, sorted.
func AggregateNames() []string {
	names := make([]string, 0, len(aggregates))
	for name := range aggregates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the compute function for name.
func Lookup(name string) (AggregateFunc, error) {
	fn, ok := aggregates[name]
	if !ok {
		return nil, domain.ErrUnknownReport
	}
	return fn, nil
}

// rowStatus is the status used for aggregate classification: the raw
// carrier status when one was present, otherwise the derived one.
func rowStatus(r *entity.CanonicalRow) string {
	if r.OriginalStatus != "" {
		return r.OriginalStatus
	}
	return r.DeliveryStatus
}

func isDelivered(status string) bool {
	return status == StatusDelivered
}

func isOFD(status string) bool {
	return status == StatusOFD || status == "OUT FOR DELIVERY"
}

func hasRTO(status string) bool {
	return strings.Contains(status, "RTO")
}

func isCancelledToken(status string) bool {
	switch status {
	case "CANCELED", "CANCELLED", "CANCEL":
		return true
	}
	return false
}

// inTransitResidual is the residual in-transit category: transit-looking
// statuses minus everything already claimed by delivered/RTO/cancelled.
func inTransitResidual(status string) bool {
	if isDelivered(status) || hasRTO(status) || isCancelledToken(status) {
		return false
	}
	return strings.Contains(status, "IN TRANSIT") ||
		strings.Contains(status, "PICKED UP") ||
		strings.Contains(status, "REACHED DESTINATION") ||
		strings.Contains(status, "AT DESTINATION") ||
		isOFD(status)
}

func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
