// Package analytics implements the normalization and aggregation engine:
// column resolution over noisy export headers, the canonical-status decision
// list, the filter engine, and the report aggregate library.
package analytics

import (
	"regexp"
	"strings"
)

// Canonical field names understood by the resolver.
const (
	FieldStatus        = "status"
	FieldOrderDate     = "order_date"
	FieldPickupDate    = "pickup_date"
	FieldApprovalDate  = "approval_date"
	FieldAWBDate       = "awb_date"
	FieldOFDDate       = "ofd_date"
	FieldDeliveryDate  = "delivery_date"
	FieldNDRDate       = "ndr_date"
	FieldRTODate       = "rto_date"
	FieldRTODelivered  = "rto_delivered_date"
	FieldOrderValue    = "order_value"
	FieldMargin        = "margin"
	FieldWeight        = "weight"
	FieldCategory      = "category"
	FieldChannel       = "channel"
	FieldState         = "state"
	FieldCourier       = "courier"
	FieldSKU           = "sku"
	FieldProductName   = "product_name"
	FieldPaymentMethod = "payment_method"
	FieldNDRReason     = "ndr_reason"
	FieldCancelReason  = "cancellation_reason"
	FieldAddressLine1  = "address_line_1"
	FieldAddressLine2  = "address_line_2"
	FieldCity          = "city"
	FieldPincode       = "pincode"
)

// aliasTable maps each canonical field to its priority-ordered source column
// aliases. Alias names are post-normalization (snake_case): "Master SKU"
// arrives here as "master_s_k_u", the same header pre-snake-cased by the
// source arrives as "master_sku". Static data, never mutated.
var aliasTable = map[string][]string{
	FieldStatus: {"original_status", "status", "delivery_status", "current_status"},
	FieldOrderDate: {
		"order_date", "shiprocket_created_at", "channel_created_at",
		"order_placed_date", "created_at",
	},
	FieldPickupDate: {
		"pickup_date", "order_picked_up_date", "pickedup_timestamp",
		"pickup_datetime", "pickup_first_attempt_date",
	},
	FieldApprovalDate: {"approval_date", "order_approved_date"},
	FieldAWBDate:      {"awb_date", "awb_assigned_date"},
	FieldOFDDate: {
		"ofd_date", "first_out_for_delivery_date", "latest_o_f_d_date",
		"latest_ofd_date", "ofd_datetime", "out_for_delivery_date",
	},
	FieldDeliveryDate: {
		"delivery_date", "order_delivered_date", "delivered_date", "delivered_datetime",
	},
	FieldNDRDate: {
		"ndr_date", "latest_n_d_r_date", "latest_ndr_date",
		"n_d_r_1_attempt_date", "ndr_1_attempt_date", "ndr_2_attempt_date",
		"ndr_3_attempt_date", "ndr_datetime",
	},
	FieldRTODate: {
		"rto_date", "r_t_o_initiated_date", "rto_initiated_date", "rto_datetime",
	},
	FieldRTODelivered: {"rto_delivered_date", "r_t_o_delivered_date"},
	FieldOrderValue: {
		"order_value", "order_total", "price", "amount", "gmv_amount", "total_order_value",
	},
	FieldMargin:        {"margin", "profit", "profit_margin", "margin_amount"},
	FieldWeight:        {"weight", "weight_k_g"},
	FieldCategory:      {"category", "product_category"},
	FieldChannel:       {"channel", "channel_name"},
	FieldState:         {"state", "address_state"},
	FieldCourier:       {"courier", "courier_company", "master_courier"},
	FieldSKU:           {"sku", "master_s_k_u", "master_sku", "channel_s_k_u", "channel_sku"},
	FieldProductName:   {"product_name"},
	FieldPaymentMethod: {"payment_method", "paymentmethod"},
	FieldNDRReason: {
		"ndr_description", "latest_n_d_r_reason", "latest_ndr_reason", "ndr_reason",
	},
	FieldCancelReason: {"cancellation_reason"},
	FieldAddressLine1: {"address_line_1", "address_line1"},
	FieldAddressLine2: {"address_line_2", "address_line2"},
	FieldCity:         {"city", "address_city"},
	FieldPincode:      {"pincode", "address_pincode"},
}

var (
	camelBoundary = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSnakeChars = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeHeader converts an arbitrary export header to its snake_case form:
// "Shiprocket Created At" -> "shiprocket_created_at",
// "orderTotal" -> "order_total".
func NormalizeHeader(name string) string {
	s := strings.TrimSpace(name)
	s = camelBoundary.ReplaceAllString(s, "${1}_${2}")
	// Insert before every remaining capital so runs like "SKU" split the same
	// way the source system splits them ("Master SKU" -> "master_s_k_u").
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	s = strings.ToLower(b.String())
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = nonSnakeChars.ReplaceAllString(s, "")
	return strings.Trim(underscoreRun.ReplaceAllString(s, "_"), "_")
}

// Resolve returns the first alias of field present in columns, or "" when none
// match. Strict priority order: which candidate carries more data is
// irrelevant here.
func Resolve(columns map[string]bool, field string) string {
	for _, alias := range aliasTable[field] {
		if columns[alias] {
			return alias
		}
	}
	return ""
}

// ResolveNonEmpty resolves field like Resolve but additionally falls back to
// the first candidate alias that has any non-null value when the priority pick
// is entirely empty. Used for descriptive fields (payment method, channel)
// where sparse columns are common; status/date resolution stays strict.
func ResolveNonEmpty(columns map[string]bool, field string, hasValue func(col string) bool) string {
	pick := Resolve(columns, field)
	if pick != "" && hasValue(pick) {
		return pick
	}
	for _, alias := range aliasTable[field] {
		if columns[alias] && hasValue(alias) {
			return alias
		}
	}
	return pick
}

// columnSet builds the membership set Resolve operates on.
func columnSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[NormalizeHeader(h)] = true
	}
	return set
}
