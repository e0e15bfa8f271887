package frost

import (
	"encoding/json"
	"math"
)

// frostNumbersJSON is the wire shape of FrostNumbers. JSON has no NaN, so the
// undefined sentinel travels as null and round-trips back to NaN.
type frostNumbersJSON struct {
	Air     *float64 `json:"air"`
	Surface *float64 `json:"surface"`
	Stefan  *float64 `json:"stefan"`
}

func (n FrostNumbers) MarshalJSON() ([]byte, error) {
	return json.Marshal(frostNumbersJSON{
		Air:     nullable(n.Air),
		Surface: nullable(n.Surface),
		Stefan:  nullable(n.Stefan),
	})
}

func (n *FrostNumbers) UnmarshalJSON(data []byte) error {
	var w frostNumbersJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.Air = orNaN(w.Air)
	n.Surface = orNaN(w.Surface)
	n.Stefan = orNaN(w.Stefan)
	return nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
