package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat64 is a numeric result that may be unavailable, e.g. a payback
// period when there is nothing to pay back with. It marshals to JSON null
// when not Valid.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Finite wraps x, marking NaN and ±Inf as unavailable.
func Finite(x float64) NullFloat64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return NullFloat64{}
	}
	return NullFloat64{Float64: x, Valid: true}
}

func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat64) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullFloat64{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Finite(f)
	return nil
}

// Format renders the value with prec decimals, or a dash when unavailable.
func (n NullFloat64) Format(prec int) string {
	if !n.Valid {
		return "—"
	}
	return strconv.FormatFloat(n.Float64, 'f', prec, 64)
}
