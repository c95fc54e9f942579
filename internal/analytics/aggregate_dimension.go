package analytics

import (
	"sort"
	"strings"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// StatePerformanceRow is one state bucket of the state performance report.
type StatePerformanceRow struct {
	State            string  `json:"state"`
	TotalOrders      int     `json:"total_orders"`
	DelCount         int     `json:"del_count"`
	RTOCount         int     `json:"rto_count"`
	NDRCount         int     `json:"ndr_count"`
	DeliveredPercent float64 `json:"delivered_percent"`
	RTOPercent       float64 `json:"rto_percent"`
	NDRPercent       float64 `json:"ndr_percent"`
	OrderShare       float64 `json:"order_share"`
}

// StatePerformance reports delivery outcomes per destination state.
func StatePerformance(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []StatePerformanceRow{}
	}

	buckets := map[string]*StatePerformanceRow{}
	for i := range rows {
		r := &rows[i]
		state := orDefault(r.State, "Unknown")
		b := buckets[state]
		if b == nil {
			b = &StatePerformanceRow{State: state}
			buckets[state] = b
		}
		status := rowStatus(r)
		b.TotalOrders++
		if isDelivered(status) {
			b.DelCount++
		}
		if hasRTO(status) {
			b.RTOCount++
		}
		if status == StatusNDR {
			b.NDRCount++
		}
	}

	total := float64(len(rows))
	out := make([]StatePerformanceRow, 0, len(buckets))
	for _, b := range buckets {
		b.DeliveredPercent = pct(float64(b.DelCount), float64(b.TotalOrders))
		b.RTOPercent = pct(float64(b.RTOCount), float64(b.TotalOrders))
		b.NDRPercent = pct(float64(b.NDRCount), float64(b.TotalOrders))
		b.OrderShare = pct(float64(b.TotalOrders), total)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOrders != out[j].TotalOrders {
			return out[i].TotalOrders > out[j].TotalOrders
		}
		return out[i].State < out[j].State
	})
	return out
}

// CategoryShareRow is one product-category bucket.
type CategoryShareRow struct {
	CategoryName    string  `json:"categoryname"`
	TotalOrders     int     `json:"total_orders"`
	TotalOrderValue float64 `json:"total_order_value"`
}

// CategoryShare reports order count and value per product category.
func CategoryShare(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []CategoryShareRow{}
	}

	buckets := map[string]*CategoryShareRow{}
	for i := range rows {
		r := &rows[i]
		name := orDefault(r.Category, "Uncategorized")
		b := buckets[name]
		if b == nil {
			b = &CategoryShareRow{CategoryName: name}
			buckets[name] = b
		}
		b.TotalOrders++
		b.TotalOrderValue += f64(r.OrderValue)
	}

	out := make([]CategoryShareRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOrders != out[j].TotalOrders {
			return out[i].TotalOrders > out[j].TotalOrders
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

// ChannelShareRow is one sales-channel bucket.
type ChannelShareRow struct {
	Channel         string  `json:"channel"`
	TotalOrders     int     `json:"total_orders"`
	TotalOrderValue float64 `json:"total_order_value"`
}

// ChannelShare reports order count and value per sales channel.
func ChannelShare(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []ChannelShareRow{}
	}

	buckets := map[string]*ChannelShareRow{}
	for i := range rows {
		r := &rows[i]
		name := orDefault(r.Channel, "Unknown")
		b := buckets[name]
		if b == nil {
			b = &ChannelShareRow{Channel: name}
			buckets[name] = b
		}
		b.TotalOrders++
		b.TotalOrderValue += f64(r.OrderValue)
	}

	out := make([]ChannelShareRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOrders != out[j].TotalOrders {
			return out[i].TotalOrders > out[j].TotalOrders
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

// ProductAnalysisRow is one product bucket.
type ProductAnalysisRow struct {
	ProductName      string  `json:"product_name"`
	Orders           int     `json:"orders"`
	OrderShare       float64 `json:"orderShare"`
	GMV              float64 `json:"gmv"`
	Margin           float64 `json:"margin"`
	DeliveredPercent float64 `json:"deliveredPercent"`
	RTOPercent       float64 `json:"rtoPercent"`
	ReturnedPercent  float64 `json:"returnedPercent"`
}

// ProductAnalysis reports per-product outcomes. GMV and margin count
// delivered orders only.
func ProductAnalysis(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []ProductAnalysisRow{}
	}

	type acc struct {
		ProductAnalysisRow
		delivered, rto, returned int
	}
	buckets := map[string]*acc{}
	for i := range rows {
		r := &rows[i]
		name := orDefault(r.ProductName, "Unknown")
		b := buckets[name]
		if b == nil {
			b = &acc{ProductAnalysisRow: ProductAnalysisRow{ProductName: name}}
			buckets[name] = b
		}
		status := rowStatus(r)
		b.Orders++
		if isDelivered(status) {
			b.delivered++
			b.GMV += f64(r.OrderValue)
			b.Margin += f64(r.Margin)
			if strings.Contains(status, "RETURN") {
				b.returned++
			}
		}
		if hasRTO(status) {
			b.rto++
		}
	}

	total := float64(len(rows))
	out := make([]ProductAnalysisRow, 0, len(buckets))
	for _, b := range buckets {
		b.OrderShare = pct(float64(b.Orders), total)
		b.DeliveredPercent = pct(float64(b.delivered), float64(b.Orders))
		b.RTOPercent = pct(float64(b.rto), float64(b.Orders))
		b.ReturnedPercent = pct(float64(b.returned), float64(b.delivered))
		out = append(out, b.ProductAnalysisRow)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// invalidSKUTokens are placeholder values that must not form SKU buckets.
var invalidSKUTokens = map[string]bool{
	"":          true,
	"None":      true,
	"N/A":       true,
	"NA":        true,
	"null":      true,
	"undefined": true,
}

// SKUAnalysisRow is one SKU bucket.
type SKUAnalysisRow struct {
	SKU              string  `json:"sku"`
	ProductName      string  `json:"product_name"`
	Orders           int     `json:"orders"`
	OrderShare       float64 `json:"orderShare"`
	GMV              float64 `json:"gmv"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
	Margin           float64 `json:"margin"`
	Delivered        int     `json:"delivered"`
	DeliveredPercent float64 `json:"deliveredPercent"`
	RTO              int     `json:"rto"`
	RTOPercent       float64 `json:"rtoPercent"`
	NDR              int     `json:"ndr"`
	NDRPercent       float64 `json:"ndrPercent"`
	Cancelled        int     `json:"cancelled"`
	CancelledPercent float64 `json:"cancelledPercent"`
	InTransit        int     `json:"inTransit"`
	InTransitPercent float64 `json:"inTransitPercent"`
}

// SKUAnalysis reports per-SKU outcomes. Placeholder SKU values are dropped
// before bucketing, so the share denominator counts valid-SKU rows only.
func SKUAnalysis(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []SKUAnalysisRow{}
	}

	buckets := map[string]*SKUAnalysisRow{}
	validRows := 0
	for i := range rows {
		r := &rows[i]
		sku := strings.TrimSpace(r.SKU)
		if invalidSKUTokens[sku] {
			continue
		}
		validRows++
		b := buckets[sku]
		if b == nil {
			b = &SKUAnalysisRow{SKU: sku, ProductName: "Unknown"}
			buckets[sku] = b
		}
		if b.ProductName == "Unknown" && strings.TrimSpace(r.ProductName) != "" {
			b.ProductName = r.ProductName
		}

		status := rowStatus(r)
		b.Orders++
		if isDelivered(status) {
			b.Delivered++
			gmv := f64(r.OrderValue)
			b.GMV += gmv
			b.Margin += f64(r.Margin)
		}
		if hasRTO(status) {
			b.RTO++
		}
		if r.NDRFlag {
			b.NDR++
		}
		if isCancelledToken(status) {
			b.Cancelled++
		}
		if inTransitResidual(status) {
			b.InTransit++
		}
	}

	total := float64(validRows)
	out := make([]SKUAnalysisRow, 0, len(buckets))
	for _, b := range buckets {
		if b.Delivered > 0 {
			b.AvgOrderValue = b.GMV / float64(b.Delivered)
		}
		b.OrderShare = pct(float64(b.Orders), total)
		b.DeliveredPercent = pct(float64(b.Delivered), float64(b.Orders))
		b.RTOPercent = pct(float64(b.RTO), float64(b.Orders))
		b.NDRPercent = pct(float64(b.NDR), float64(b.Orders))
		b.CancelledPercent = pct(float64(b.Cancelled), float64(b.Orders))
		b.InTransitPercent = pct(float64(b.InTransit), float64(b.Orders))
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

// DeliveryPartnerRow is one (state, courier) cell.
type DeliveryPartnerRow struct {
	State       string `json:"state"`
	Courier     string `json:"courier"`
	TotalOrders int    `json:"total_orders"`
	Delivered   int    `json:"delivered"`
	Cancelled   int    `json:"cancelled"`
	InTransit   int    `json:"in_transit"`
	RTO         int    `json:"rto"`
	Other       int    `json:"other"`
}

// DeliveryPartnerAnalysis cross-tabulates states against couriers. Other is
// whatever the four named outcome categories did not claim.
func DeliveryPartnerAnalysis(rows []entity.CanonicalRow) any {
	if len(rows) == 0 {
		return []DeliveryPartnerRow{}
	}

	type key struct{ state, courier string }
	buckets := map[key]*DeliveryPartnerRow{}
	for i := range rows {
		r := &rows[i]
		k := key{orDefault(r.State, "Unknown"), orDefault(r.Courier, "Unknown")}
		b := buckets[k]
		if b == nil {
			b = &DeliveryPartnerRow{State: k.state, Courier: k.courier}
			buckets[k] = b
		}
		status := rowStatus(r)
		b.TotalOrders++
		switch {
		case isDelivered(status):
			b.Delivered++
		case hasRTO(status):
			b.RTO++
		case isCancelledToken(status):
			b.Cancelled++
		case inTransitResidual(status):
			b.InTransit++
		default:
			b.Other++
		}
	}

	out := make([]DeliveryPartnerRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOrders != out[j].TotalOrders {
			return out[i].TotalOrders > out[j].TotalOrders
		}
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Courier < out[j].Courier
	})
	return out
}

// TopNRow is one entry of a top-N leaderboard.
type TopNRow struct {
	Name       string  `json:"name"`
	Orders     int     `json:"orders"`
	Delivered  int     `json:"delivered"`
	OrderShare float64 `json:"orderShare"`
}

func topN(rows []entity.CanonicalRow, n int, dim func(*entity.CanonicalRow) string) []TopNRow {
	if len(rows) == 0 {
		return []TopNRow{}
	}

	buckets := map[string]*TopNRow{}
	for i := range rows {
		r := &rows[i]
		name := orDefault(dim(r), "Unknown")
		b := buckets[name]
		if b == nil {
			b = &TopNRow{Name: name}
			buckets[name] = b
		}
		b.Orders++
		if isDelivered(rowStatus(r)) {
			b.Delivered++
		}
	}

	total := float64(len(rows))
	out := make([]TopNRow, 0, len(buckets))
	for _, b := range buckets {
		b.OrderShare = pct(float64(b.Orders), total)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderShare != out[j].OrderShare {
			return out[i].OrderShare > out[j].OrderShare
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Top10States is the ten states with the largest order share.
func Top10States(rows []entity.CanonicalRow) any {
	return topN(rows, 10, func(r *entity.CanonicalRow) string { return r.State })
}

// Top10Couriers is the ten couriers with the largest order share.
func Top10Couriers(rows []entity.CanonicalRow) any {
	return topN(rows, 10, func(r *entity.CanonicalRow) string { return r.Courier })
}
