package entity

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// Product is a single tracked ledger record.
//
// Only ship_from, sold_by and actual_price are ever mutated by this
// application. Every other field of the source document, including fields
// the application does not know about, rides along in raw and is written
// back verbatim on save.
type Product struct {
	Name          string
	Link          string
	ExpectedPrice int64
	ShipFrom      string
	SoldBy        string
	ActualPrice   int64

	raw         map[string]json.RawMessage
	hasShipFrom bool
	hasSoldBy   bool
	stopped     bool
}

// NewProduct builds a fresh record, the shape seed data has before the
// first offer is ever recorded.
func NewProduct(name, link string, expectedPrice int64) Product {
	return Product{
		Name:          name,
		Link:          link,
		ExpectedPrice: expectedPrice,
		raw: map[string]json.RawMessage{
			"name":           mustRaw(name),
			"link":           mustRaw(link),
			"expected_price": mustRaw(expectedPrice),
		},
	}
}

// Stopped reports whether the record carries the manual "done tracking"
// marker. The marker is presence-based: any value under the stop key
// freezes the record.
func (p *Product) Stopped() bool {
	return p.stopped
}

// MatchesSeller reports whether both stored seller fields are present and
// equal to the given pair. A record that never recorded an offer matches
// nothing.
func (p *Product) MatchesSeller(shipFrom, soldBy string) bool {
	return p.hasShipFrom && p.hasSoldBy &&
		p.ShipFrom == shipFrom && p.SoldBy == soldBy
}

// SetWinner overwrites the mutable tracking fields. The raw document is
// cloned first so record copies handed to concurrent tasks never share
// state.
func (p *Product) SetWinner(shipFrom, soldBy string, actualPrice int64) {
	p.ShipFrom = shipFrom
	p.SoldBy = soldBy
	p.ActualPrice = actualPrice
	p.hasShipFrom = true
	p.hasSoldBy = true

	next := maps.Clone(p.raw)
	if next == nil {
		next = make(map[string]json.RawMessage, 3)
	}
	next["ship_from"] = mustRaw(shipFrom)
	next["sold_by"] = mustRaw(soldBy)
	next["actual_price"] = mustRaw(actualPrice)
	p.raw = next
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Product{raw: raw}

	if err := unmarshalField(raw, "name", &p.Name); err != nil {
		return err
	}
	if err := unmarshalField(raw, "link", &p.Link); err != nil {
		return err
	}
	if err := unmarshalField(raw, "actual_price", &p.ActualPrice); err != nil {
		return err
	}

	if v, ok := raw["ship_from"]; ok {
		if err := json.Unmarshal(v, &p.ShipFrom); err != nil {
			return fmt.Errorf("field ship_from: %w", err)
		}
		p.hasShipFrom = true
	}
	if v, ok := raw["sold_by"]; ok {
		if err := json.Unmarshal(v, &p.SoldBy); err != nil {
			return fmt.Errorf("field sold_by: %w", err)
		}
		p.hasSoldBy = true
	}

	// A non-numeric expected_price is kept as zero here; the threshold
	// policy surfaces it as a configuration error when it actually needs
	// the value.
	if v, ok := raw["expected_price"]; ok {
		if n, err := parseLooseInt(v); err == nil {
			p.ExpectedPrice = n
		}
	}

	_, p.stopped = raw["stop"]

	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	if p.raw == nil {
		doc := map[string]json.RawMessage{
			"name":           mustRaw(p.Name),
			"link":           mustRaw(p.Link),
			"expected_price": mustRaw(p.ExpectedPrice),
		}
		if p.hasShipFrom {
			doc["ship_from"] = mustRaw(p.ShipFrom)
		}
		if p.hasSoldBy {
			doc["sold_by"] = mustRaw(p.SoldBy)
		}
		return json.Marshal(doc)
	}
	return json.Marshal(p.raw)
}

func unmarshalField[T any](raw map[string]json.RawMessage, key string, dst *T) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

// parseLooseInt accepts the two encodings seed files use for amounts: a
// JSON number or a numeric string.
func parseLooseInt(v json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("neither number nor string: %s", v)
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func mustRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // strings and integers cannot fail to marshal
	}
	return b
}
