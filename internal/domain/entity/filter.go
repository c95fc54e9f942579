package entity

import (
	"strings"

	"github.com/bytedance/sonic"
)

// StringList accepts either a single JSON string or an array of strings.
// Export files are queried both ways by the dashboard.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := sonic.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := sonic.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// FilterSpec is the optional set of predicates applied before aggregation.
// All present predicates combine with AND; list values are OR within a field.
type FilterSpec struct {
	StartDate      string     `json:"startDate,omitempty"`
	EndDate        string     `json:"endDate,omitempty"`
	OrderStatus    StringList `json:"orderStatus,omitempty"`
	PaymentMethod  StringList `json:"paymentMethod,omitempty"`
	Channel        StringList `json:"channel,omitempty"`
	SKU            StringList `json:"sku,omitempty"`
	ProductName    StringList `json:"productName,omitempty"`
	State          StringList `json:"state,omitempty"`
	Courier        StringList `json:"courier,omitempty"`
	NDRDescription StringList `json:"ndrDescription,omitempty"`
}

// active reports whether a list predicate narrows anything. "All" and empty
// values are no-ops.
func active(l StringList) bool {
	for _, v := range l {
		if v != "" && !strings.EqualFold(v, "all") {
			return true
		}
	}
	return false
}

// IsZero reports whether no predicate is set.
func (f *FilterSpec) IsZero() bool {
	if f == nil {
		return true
	}
	return f.StartDate == "" && f.EndDate == "" &&
		!active(f.OrderStatus) && !active(f.PaymentMethod) &&
		!active(f.Channel) && !active(f.SKU) && !active(f.ProductName) &&
		!active(f.State) && !active(f.Courier) && !active(f.NDRDescription)
}

// Fingerprint returns a stable string identifying the filter combination,
// used as part of report cache keys.
func (f *FilterSpec) Fingerprint() string {
	if f.IsZero() {
		return "base"
	}
	var parts []string
	add := func(name, v string) {
		if v != "" {
			parts = append(parts, name+":"+v)
		}
	}
	add("start", f.StartDate)
	add("end", f.EndDate)
	addList := func(name string, l StringList) {
		if active(l) {
			parts = append(parts, name+":"+strings.Join(l, ","))
		}
	}
	addList("status", f.OrderStatus)
	addList("payment", f.PaymentMethod)
	addList("channel", f.Channel)
	addList("sku", f.SKU)
	addList("product", f.ProductName)
	addList("state", f.State)
	addList("courier", f.Courier)
	addList("ndr", f.NDRDescription)
	return strings.Join(parts, "|")
}
