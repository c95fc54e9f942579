package entity

import "time"

// Address quality buckets.
const (
	AddressGood    = "GOOD"
	AddressShort   = "SHORT"
	AddressInvalid = "INVALID"
)

// RawRow is one row of an export file as ingested: original header -> cell value.
// Values are strings for CSV/XLSX sources and may be numbers/bools for JSON sources.
type RawRow map[string]any

// RawTable is the tabular form handed over by the ingestion layer.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// CanonicalRow is the normalized representation of one shipment/order.
// Pointer fields are nullable: absence is a valid, common state.
type CanonicalRow struct {
	SKU            string `json:"sku" msgpack:"sku"`
	ProductName    string `json:"product_name" msgpack:"product_name"`
	Category       string `json:"category" msgpack:"category"`
	Channel        string `json:"channel" msgpack:"channel"`
	State          string `json:"state" msgpack:"state"`
	Courier        string `json:"courier" msgpack:"courier"`
	PaymentMethod  string `json:"payment_method" msgpack:"payment_method"`

	OriginalStatus     string `json:"original_status" msgpack:"original_status"`
	DeliveryStatus     string `json:"delivery_status" msgpack:"delivery_status"`
	NDRFlag            bool   `json:"ndr_flag" msgpack:"ndr_flag"`
	RTOFlag            bool   `json:"rto_flag" msgpack:"rto_flag"`
	CancelledFlag      bool   `json:"cancelled_flag" msgpack:"cancelled_flag"`
	NDRDescription     string `json:"ndr_description" msgpack:"ndr_description"`
	CancellationReason string `json:"cancellation_reason" msgpack:"cancellation_reason"`

	OrderDate    *time.Time `json:"order_date" msgpack:"order_date"`
	PickupDate   *time.Time `json:"pickup_date" msgpack:"pickup_date"`
	ApprovalDate *time.Time `json:"approval_date" msgpack:"approval_date"`
	AWBDate      *time.Time `json:"awb_date" msgpack:"awb_date"`
	OFDDate      *time.Time `json:"ofd_date" msgpack:"ofd_date"`
	DeliveryDate *time.Time `json:"delivery_date" msgpack:"delivery_date"`
	NDRDate      *time.Time `json:"ndr_date" msgpack:"ndr_date"`
	RTODate      *time.Time `json:"rto_date" msgpack:"rto_date"`

	// OrderWeek is a day-of-month bucket label like "2025-03-01-07".
	// Empty means the order date is unknown.
	OrderWeek string `json:"order_week" msgpack:"order_week"`

	OrderValue *float64 `json:"order_value" msgpack:"order_value"`
	Margin     *float64 `json:"margin" msgpack:"margin"`
	Weight     *float64 `json:"weight" msgpack:"weight"`

	// Turnaround times in hours. Nil when either endpoint is missing or the
	// delta is negative (clock error).
	OrderToPickupTAT *float64 `json:"order_to_pickup_tat" msgpack:"order_to_pickup_tat"`
	PickupToOFDTAT   *float64 `json:"pickup_to_ofd_tat" msgpack:"pickup_to_ofd_tat"`
	OFDToDeliveryTAT *float64 `json:"ofd_to_delivery_tat" msgpack:"ofd_to_delivery_tat"`
	TotalTAT         *float64 `json:"total_tat" msgpack:"total_tat"`

	AddressQuality string `json:"address_quality" msgpack:"address_quality"`
}

// Dataset is an immutable normalized row-set bound to a session.
type Dataset struct {
	SessionID   string         `msgpack:"session_id"`
	Rows        []CanonicalRow `msgpack:"rows"`
	ProcessedAt time.Time      `msgpack:"processed_at"`
}

// DatasetMeta is the summary stored alongside a dataset.
type DatasetMeta struct {
	SessionID   string    `json:"sessionId"`
	TotalRows   int       `json:"totalRows"`
	TotalCols   int       `json:"totalCols"`
	SourceName  string    `json:"sourceName,omitempty"`
	ProcessedAt time.Time `json:"timestamp"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ReportBundle is the result of a compute-all request. A failure in one
// aggregate does not abort the others; it is recorded under Errors instead.
type ReportBundle struct {
	Success bool              `json:"success"`
	Reports map[string]any    `json:"reports"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// FilterOptions lists the distinct values available for dashboard filters.
type FilterOptions struct {
	Channels          []string `json:"channels"`
	SKUs              []string `json:"skus"`
	SKUsTop10         []string `json:"skusTop10"`
	ProductNames      []string `json:"productNames"`
	ProductNamesTop10 []string `json:"productNamesTop10"`
	Statuses          []string `json:"statuses"`
}
