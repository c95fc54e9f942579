package analytics

import (
	"strings"
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// DefaultCategory is the bucket for rows whose category never resolves.
const DefaultCategory = "Uncategorized"

// table is a resolved view over raw rows: normalized column name -> original
// header. All resolution happens once per table, never per row.
type table struct {
	byNorm map[string]string
	cols   map[string]bool
	rows   []entity.RawRow
}

func newTable(t entity.RawTable) *table {
	byNorm := make(map[string]string, len(t.Headers))
	for _, h := range t.Headers {
		n := NormalizeHeader(h)
		if _, taken := byNorm[n]; !taken {
			byNorm[n] = h
		}
	}
	return &table{byNorm: byNorm, cols: columnSet(t.Headers), rows: t.Rows}
}

// cell returns the standardized string value of a normalized column in a row.
func (t *table) cell(row entity.RawRow, normCol string) string {
	if normCol == "" {
		return ""
	}
	orig, ok := t.byNorm[normCol]
	if !ok {
		return ""
	}
	return StandardizeMissing(row[orig])
}

func (t *table) raw(row entity.RawRow, normCol string) any {
	if orig, ok := t.byNorm[normCol]; ok {
		return row[orig]
	}
	return nil
}

// hasAnyValue reports whether a column has at least one non-null cell.
func (t *table) hasAnyValue(normCol string) bool {
	for _, row := range t.rows {
		if t.cell(row, normCol) != "" {
			return true
		}
	}
	return false
}

// resolveParseable returns the first alias of field whose column parses for at
// least one row under parse. Date and number columns resolve this way; a
// present-but-garbage column should not shadow a later usable one.
func (t *table) resolveParseable(field string, parses func(v any) bool) string {
	for _, alias := range aliasTable[field] {
		if !t.cols[alias] {
			continue
		}
		for _, row := range t.rows {
			if parses(t.raw(row, alias)) {
				return alias
			}
		}
	}
	return ""
}

// IsCanonical reports whether headers already carry the normalized schema, in
// which case normalization is a no-op and must not run again.
func IsCanonical(headers []string) bool {
	set := columnSet(headers)
	return set["delivery_status"] && set["ndr_flag"] && set["order_week"]
}

// resolved holds the per-table column choices feeding row normalization.
type resolved struct {
	status                                     string
	dates                                      map[string]string
	orderValue, margin, weight                 string
	category, channel, state, courier          string
	sku, productName, paymentMethod            string
	ndrReason, cancelReason                    string
	addr1, addr2, city, pincode                string
	ndrBool, rtoBool, cancelBool1, cancelBool2 string
}

func (t *table) resolveAll() resolved {
	dateParses := func(v any) bool { return ParseDate(v) != nil }
	numParses := func(v any) bool { return ParseNumber(v) != nil }

	r := resolved{
		status: Resolve(t.cols, FieldStatus),
		dates:  make(map[string]string, 8),
	}
	for _, f := range []string{
		FieldOrderDate, FieldPickupDate, FieldApprovalDate, FieldAWBDate,
		FieldOFDDate, FieldDeliveryDate, FieldNDRDate, FieldRTODate, FieldRTODelivered,
	} {
		r.dates[f] = t.resolveParseable(f, dateParses)
	}
	r.orderValue = t.resolveParseable(FieldOrderValue, numParses)
	r.margin = t.resolveParseable(FieldMargin, numParses)
	r.weight = t.resolveParseable(FieldWeight, numParses)

	r.category = Resolve(t.cols, FieldCategory)
	r.state = Resolve(t.cols, FieldState)
	r.courier = Resolve(t.cols, FieldCourier)
	r.sku = Resolve(t.cols, FieldSKU)
	r.productName = Resolve(t.cols, FieldProductName)
	r.ndrReason = Resolve(t.cols, FieldNDRReason)
	r.cancelReason = Resolve(t.cols, FieldCancelReason)
	r.addr1 = Resolve(t.cols, FieldAddressLine1)
	r.addr2 = Resolve(t.cols, FieldAddressLine2)
	r.city = Resolve(t.cols, FieldCity)
	r.pincode = Resolve(t.cols, FieldPincode)

	// Display fields tolerate a sparse priority pick.
	r.channel = ResolveNonEmpty(t.cols, FieldChannel, t.hasAnyValue)
	r.paymentMethod = ResolveNonEmpty(t.cols, FieldPaymentMethod, t.hasAnyValue)

	// Explicit boolean flag columns, when the source carries them.
	if t.cols["ndr"] {
		r.ndrBool = "ndr"
	}
	if t.cols["rto"] {
		r.rtoBool = "rto"
	}
	if t.cols["cancelled"] {
		r.cancelBool1 = "cancelled"
	}
	if t.cols["canceled"] {
		r.cancelBool2 = "canceled"
	}
	return r
}

// Normalize transforms a raw table into the canonical schema in one pass.
// It never fails on malformed cells: every parse degrades to null/default.
// Output row count always equals input row count. A table that already
// carries the canonical columns decodes as-is, so normalizing twice equals
// normalizing once.
func Normalize(t entity.RawTable) []entity.CanonicalRow {
	if IsCanonical(t.Headers) {
		return decodeCanonical(t)
	}
	tab := newTable(t)
	r := tab.resolveAll()

	// A category column that exists but is entirely empty still defaults.
	categoryUsable := r.category != "" && tab.hasAnyValue(r.category)

	out := make([]entity.CanonicalRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		date := func(field string) *time.Time {
			return ParseDate(tab.raw(row, r.dates[field]))
		}

		c := entity.CanonicalRow{
			SKU:           tab.cell(row, r.sku),
			ProductName:   tab.cell(row, r.productName),
			Channel:       tab.cell(row, r.channel),
			State:         tab.cell(row, r.state),
			Courier:       tab.cell(row, r.courier),
			PaymentMethod: tab.cell(row, r.paymentMethod),

			NDRDescription:     tab.cell(row, r.ndrReason),
			CancellationReason: tab.cell(row, r.cancelReason),

			OrderDate:    date(FieldOrderDate),
			PickupDate:   date(FieldPickupDate),
			ApprovalDate: date(FieldApprovalDate),
			AWBDate:      date(FieldAWBDate),
			OFDDate:      date(FieldOFDDate),
			DeliveryDate: date(FieldDeliveryDate),
			NDRDate:      date(FieldNDRDate),
			RTODate:      date(FieldRTODate),

			OrderValue: ParseNumber(tab.raw(row, r.orderValue)),
			Margin:     ParseNumber(tab.raw(row, r.margin)),
			Weight:     ParseNumber(tab.raw(row, r.weight)),
		}

		if categoryUsable {
			c.Category = tab.cell(row, r.category)
		}
		if c.Category == "" {
			c.Category = DefaultCategory
		}

		rawStatus := tab.cell(row, r.status)
		c.OriginalStatus = strings.ToUpper(rawStatus)
		c.DeliveryStatus = classifyStatus(rawStatus, statusDates{
			delivery:     c.DeliveryDate,
			ndr:          c.NDRDate,
			rto:          c.RTODate,
			rtoDelivered: date(FieldRTODelivered),
			ofd:          c.OFDDate,
		})

		c.NDRFlag = c.NDRDate != nil || c.DeliveryStatus == StatusNDR ||
			(r.ndrBool != "" && ParseBool(tab.raw(row, r.ndrBool)))
		c.RTOFlag = c.RTODate != nil || isRTOStatus(c.DeliveryStatus) ||
			(r.rtoBool != "" && ParseBool(tab.raw(row, r.rtoBool)))
		c.CancelledFlag = isCancelledStatus(c.OriginalStatus) ||
			c.CancellationReason != "" ||
			(r.cancelBool1 != "" && ParseBool(tab.raw(row, r.cancelBool1))) ||
			(r.cancelBool2 != "" && ParseBool(tab.raw(row, r.cancelBool2)))

		c.AddressQuality = AddressQuality(
			tab.cell(row, r.addr1),
			tab.cell(row, r.addr2),
			tab.cell(row, r.city),
			tab.cell(row, r.state),
			tab.cell(row, r.pincode),
		)

		c.OrderToPickupTAT = TAT(c.OrderDate, c.PickupDate)
		c.PickupToOFDTAT = TAT(c.PickupDate, c.OFDDate)
		c.OFDToDeliveryTAT = TAT(c.OFDDate, c.DeliveryDate)
		c.TotalTAT = TAT(c.OrderDate, c.DeliveryDate)

		c.OrderWeek = OrderWeek(c.OrderDate)

		out = append(out, c)
	}
	return out
}

// decodeCanonical reads rows whose columns are already the canonical schema.
// Derived fields are taken verbatim rather than re-inferred: the source
// columns they were derived from are no longer present.
func decodeCanonical(t entity.RawTable) []entity.CanonicalRow {
	tab := newTable(t)
	out := make([]entity.CanonicalRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		c := entity.CanonicalRow{
			SKU:           tab.cell(row, "sku"),
			ProductName:   tab.cell(row, "product_name"),
			Category:      tab.cell(row, "category"),
			Channel:       tab.cell(row, "channel"),
			State:         tab.cell(row, "state"),
			Courier:       tab.cell(row, "courier"),
			PaymentMethod: tab.cell(row, "payment_method"),

			OriginalStatus:     strings.ToUpper(tab.cell(row, "original_status")),
			DeliveryStatus:     strings.ToUpper(tab.cell(row, "delivery_status")),
			NDRFlag:            ParseBool(tab.raw(row, "ndr_flag")),
			RTOFlag:            ParseBool(tab.raw(row, "rto_flag")),
			CancelledFlag:      ParseBool(tab.raw(row, "cancelled_flag")),
			NDRDescription:     tab.cell(row, "ndr_description"),
			CancellationReason: tab.cell(row, "cancellation_reason"),

			OrderDate:    ParseDate(tab.raw(row, "order_date")),
			PickupDate:   ParseDate(tab.raw(row, "pickup_date")),
			ApprovalDate: ParseDate(tab.raw(row, "approval_date")),
			AWBDate:      ParseDate(tab.raw(row, "awb_date")),
			OFDDate:      ParseDate(tab.raw(row, "ofd_date")),
			DeliveryDate: ParseDate(tab.raw(row, "delivery_date")),
			NDRDate:      ParseDate(tab.raw(row, "ndr_date")),
			RTODate:      ParseDate(tab.raw(row, "rto_date")),

			OrderWeek: tab.cell(row, "order_week"),

			OrderValue: ParseNumber(tab.raw(row, "order_value")),
			Margin:     ParseNumber(tab.raw(row, "margin")),
			Weight:     ParseNumber(tab.raw(row, "weight")),

			OrderToPickupTAT: ParseNumber(tab.raw(row, "order_to_pickup_tat")),
			PickupToOFDTAT:   ParseNumber(tab.raw(row, "pickup_to_ofd_tat")),
			OFDToDeliveryTAT: ParseNumber(tab.raw(row, "ofd_to_delivery_tat")),
			TotalTAT:         ParseNumber(tab.raw(row, "total_tat")),

			AddressQuality: strings.ToUpper(tab.cell(row, "address_quality")),
		}
		if c.Category == "" {
			c.Category = DefaultCategory
		}
		if c.DeliveryStatus == "" {
			c.DeliveryStatus = StatusPending
		}
		out = append(out, c)
	}
	return out
}
