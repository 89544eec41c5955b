package odds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Outcome is one labelled entry of a market: a decimal price or a probability.
type Outcome struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Outcomes is an ordered outcome-label to value mapping. Order is preserved
// through every transformation so callers can line results up with inputs.
type Outcomes []Outcome

// canonicalRank orders the common 1X2 labels ahead of everything else.
var canonicalRank = map[string]int{
	"home": 0, "1": 0,
	"draw": 1, "x": 1,
	"away": 2, "2": 2,
}

// FromMap builds Outcomes from a Go map. Home/draw/away labels come first,
// remaining labels follow in lexical order.
func FromMap(m map[string]float64) Outcomes {
	out := make(Outcomes, 0, len(m))
	for label, v := range m {
		out = append(out, Outcome{Label: label, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := canonicalRank[strings.ToLower(out[i].Label)]
		rj, jok := canonicalRank[strings.ToLower(out[j].Label)]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Get returns the value stored under label.
func (o Outcomes) Get(label string) (float64, bool) {
	for _, e := range o {
		if e.Label == label {
			return e.Value, true
		}
	}
	return 0, false
}

// Labels returns the labels in order.
func (o Outcomes) Labels() []string {
	labels := make([]string, len(o))
	for i, e := range o {
		labels[i] = e.Label
	}
	return labels
}

// Values returns the values in order.
func (o Outcomes) Values() []float64 {
	values := make([]float64, len(o))
	for i, e := range o {
		values[i] = e.Value
	}
	return values
}

// Sum returns the total of all values.
func (o Outcomes) Sum() float64 {
	total := 0.0
	for _, e := range o {
		total += e.Value
	}
	return total
}

// WithValues returns a copy of o carrying values in the same label order.
func (o Outcomes) WithValues(values []float64) (Outcomes, error) {
	if len(values) != len(o) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrDimensionMismatch, len(o), len(values))
	}
	out := make(Outcomes, len(o))
	for i, e := range o {
		out[i] = Outcome{Label: e.Label, Value: values[i]}
	}
	return out, nil
}

// Map returns an unordered copy.
func (o Outcomes) Map() map[string]float64 {
	m := make(map[string]float64, len(o))
	for _, e := range o {
		m[e.Label] = e.Value
	}
	return m
}

// MarshalJSON encodes o as a JSON object with keys in order.
func (o Outcomes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either a JSON object, whose key order is kept, or an
// array of {"label", "value"} entries.
func (o *Outcomes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []Outcome
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*o = entries
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("outcomes: expected object or array, got %v", tok)
	}

	out := Outcomes{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("outcomes: unexpected key %v", keyTok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("outcomes: value for %q: %w", key, err)
		}
		out = append(out, Outcome{Label: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
