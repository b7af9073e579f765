// Package receipt converts heterogeneous backend order/payment payloads into
// one canonical receipt record. Different backend revisions wrap the same
// logical payload in different envelopes and field names; the fallback
// chains here encode that history and must not be reordered.
package receipt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel marks an absent scalar field in the canonical record. It is a
// display value, distinct from zero; it is applied only when the record is
// built, never carried through arithmetic.
const Sentinel = "—"

// Item is one canonical receipt line. Amounts are rendered strings.
type Item struct {
	Name      string `json:"name"`
	Qty       string `json:"qty"`
	Unit      string `json:"unit"`
	LineTotal string `json:"lineTotal"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Address struct {
	Street   string `json:"street"`
	Village  string `json:"village"`
	Commune  string `json:"commune"`
	District string `json:"district"`
	Province string `json:"province"`
	Gmaps    string `json:"gmaps"`
}

// Receipt is the canonical record. Items is nil when the payload carried no
// item data at all; the normalizer never produces an empty slice.
type Receipt struct {
	ID          string          `json:"_id"`
	OrderNo     string          `json:"orderNo"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	Currency    string          `json:"currency"`
	Subtotal    string          `json:"subtotal"`
	DeliveryFee string          `json:"deliveryFee"`
	Total       string          `json:"total"`
	When        string          `json:"when"`
	Customer    Customer        `json:"customer"`
	Address     Address         `json:"address"`
	Items       []Item          `json:"items"`
	Raw         json.RawMessage `json:"_raw"`
}

// Normalize converts an arbitrary backend payload into a Receipt. It never
// fails: unrecognized shapes degrade to sentinel fields.
func Normalize(raw json.RawMessage) Receipt {
	var env map[string]any
	_ = json.Unmarshal(raw, &env)

	env = unwrap(env)

	rec := Receipt{Raw: append(json.RawMessage(nil), raw...)}

	// Identity uses its own chain over the unwrapped envelope so that
	// history deduplication stays stable across payload shapes.
	rec.ID = orSentinel(stringField(env, "orderNo", "orderId", "paymentId", "id", "reference"))

	rec.OrderNo = orSentinel(stringField(env, "orderNo", "orderNumber", "order_no", "reference"))
	rec.Status = orSentinel(stringField(env, "status", "paymentStatus", "payment_status", "state"))
	rec.Method = orSentinel(stringField(env, "method", "paymentMethod", "payment_method"))
	rec.Currency = orSentinel(stringField(env, "currency"))
	rec.Subtotal = orSentinel(stringField(env, "subtotal", "subTotal", "sub_total"))
	rec.DeliveryFee = orSentinel(stringField(env, "deliveryFee", "delivery_fee", "shippingFee", "shipping_fee", "shipping"))
	rec.Total = orSentinel(stringField(env, "total", "totalAmount", "total_amount", "amount", "grandTotal"))

	if when, ok := stringField(env, "createdAt", "created_at", "placedAt", "paidAt", "date", "time", "when"); ok {
		rec.When = formatWhen(when)
	} else {
		rec.When = Sentinel
	}

	cust := subMap(env, "customer")
	rec.Customer.Name = orSentinel(firstOf(
		func() (string, bool) { return stringField(cust, "name") },
		func() (string, bool) { return stringField(env, "name", "customerName", "customer_name") },
	))
	rec.Customer.Phone = orSentinel(firstOf(
		func() (string, bool) { return stringField(cust, "phone") },
		func() (string, bool) { return stringField(env, "phone", "customerPhone", "customer_phone") },
	))
	rec.Customer.Email = orSentinel(firstOf(
		func() (string, bool) { return stringField(cust, "email") },
		func() (string, bool) { return stringField(env, "email", "customerEmail", "customer_email") },
	))

	addr := subMap(env, "address")
	rec.Address.Street = orSentinel(stringField(addr, "street", "streetName"))
	rec.Address.Village = orSentinel(stringField(addr, "village", "villageName"))
	rec.Address.Commune = orSentinel(stringField(addr, "commune", "communeName"))
	rec.Address.District = orSentinel(stringField(addr, "district", "districtName"))
	rec.Address.Province = orSentinel(stringField(addr, "province", "provinceName"))
	rec.Address.Gmaps = orSentinel(stringField(addr, "gmaps"))

	rec.Items = resolveItems(env)

	return rec
}

// unwrap strips at most one envelope level (data, result, receipt, in that
// order), then shallow-merges an inner order object on top, order winning on
// conflicts.
func unwrap(env map[string]any) map[string]any {
	if env == nil {
		return nil
	}

	for _, key := range []string{"data", "result", "receipt"} {
		if inner, ok := env[key].(map[string]any); ok {
			env = inner
			break
		}
	}

	if order, ok := env["order"].(map[string]any); ok {
		merged := make(map[string]any, len(env)+len(order))
		for k, v := range env {
			merged[k] = v
		}
		for k, v := range order {
			merged[k] = v
		}
		env = merged
	}

	return env
}

func resolveItems(env map[string]any) []Item {
	if env == nil {
		return nil
	}

	candidates := []any{env["items"], env["orderItems"]}
	if c := subMap(env, "cart"); c != nil {
		candidates = append(candidates, c["items"])
	}
	if sm := subMap(env, "summary"); sm != nil {
		candidates = append(candidates, sm["items"])
	}

	for _, cand := range candidates {
		switch v := cand.(type) {
		case []any:
			if items := mapItems(v); items != nil {
				return items
			}
		case string:
			if items := parseItemString(v); items != nil {
				return items
			}
		}
	}

	return nil
}

func mapItems(entries []any) []Item {
	var items []Item
	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		item := Item{}
		if name, found := stringField(m, "name", "title", "productName"); found {
			item.Name = name
		} else {
			item.Name = fmt.Sprintf("Item %d", i+1)
		}

		qty, hasQty := numberField(m, "qty", "quantity", "count")
		if !hasQty {
			qty = decimal.NewFromInt(1)
		}
		item.Qty = qty.String()

		unit, hasUnit := numberField(m, "unitPrice", "price", "amount", "unit_amount")
		if hasUnit {
			item.Unit = unit.String()
		} else {
			item.Unit = Sentinel
		}

		if line, found := numberField(m, "lineTotal", "total", "subtotal"); found {
			item.LineTotal = line.String()
		} else if hasUnit {
			item.LineTotal = unit.Mul(qty).String()
		} else {
			item.LineTotal = Sentinel
		}

		items = append(items, item)
	}
	return items
}

// parseItemString handles item lists shipped as strings: first as embedded
// JSON, then as the legacy serialized-object form
// "Type.Item(key=value, key=value, ...)".
func parseItemString(s string) []Item {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var entries []any
	if err := json.Unmarshal([]byte(s), &entries); err == nil && len(entries) > 0 {
		if items := mapItems(entries); items != nil {
			return items
		}
	}

	return parseLegacyItems(s)
}

var legacyItemRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*\(([^()]*)\)`)

func parseLegacyItems(s string) []Item {
	matches := legacyItemRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	entries := make([]any, 0, len(matches))
	for _, match := range matches {
		fields := make(map[string]any)
		for _, pair := range strings.Split(match[1], ",") {
			eq := strings.IndexByte(pair, '=')
			if eq < 0 {
				continue
			}
			key := strings.TrimSpace(pair[:eq])
			value := strings.TrimSpace(pair[eq+1:])
			if key != "" {
				fields[key] = value
			}
		}
		if len(fields) > 0 {
			entries = append(entries, fields)
		}
	}

	return mapItems(entries)
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatWhen renders a timestamp. Legacy "YYYY-MM-DD HH:MM:SS" values are
// rewritten to ISO by substituting the first space with T. Unparseable
// values are returned unchanged, not sentineled.
func formatWhen(raw string) string {
	candidate := raw
	if strings.Contains(candidate, " ") {
		candidate = strings.Replace(candidate, " ", "T", 1)
	}

	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("Jan 2, 2006 3:04 PM")
		}
	}

	return raw
}

// stringField returns the first non-empty value across the key chain.
// Numeric values are rendered in their shortest exact decimal form.
func stringField(m map[string]any, keys ...string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed, true
			}
		case float64:
			return decimal.NewFromFloat(v).String(), true
		}
	}
	return "", false
}

func numberField(m map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return decimal.NewFromFloat(v), true
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			if d, err := decimal.NewFromString(trimmed); err == nil {
				return d, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	inner, _ := m[key].(map[string]any)
	return inner
}

func firstOf(lookups ...func() (string, bool)) (string, bool) {
	for _, lookup := range lookups {
		if v, ok := lookup(); ok {
			return v, true
		}
	}
	return "", false
}

func orSentinel(v string, ok bool) string {
	if !ok {
		return Sentinel
	}
	return v
}
