package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Rate is an interest rate, yield or volatility with an explicit unit at every
// boundary. The value is held as a decimal fraction; construct it with Percent,
// Decimal or Bps and read it back the same way.
type Rate struct {
	dec float64
}

// Percent builds a Rate from a percentage (10.5 means 10.5%).
func Percent(p float64) Rate {
	return Rate{dec: p / 100}
}

// Decimal builds a Rate from a decimal fraction (0.105 means 10.5%).
func Decimal(d float64) Rate {
	return Rate{dec: d}
}

// Bps builds a Rate from basis points (1050 means 10.5%).
func Bps(b float64) Rate {
	return Rate{dec: b / 10000}
}

// Decimal returns the rate as a decimal fraction.
func (r Rate) Decimal() float64 {
	return r.dec
}

// Percent returns the rate as a percentage.
func (r Rate) Percent() float64 {
	return r.dec * 100
}

// Bps returns the rate in basis points.
func (r Rate) Bps() float64 {
	return r.dec * 10000
}

// Shift returns the rate moved by the given number of basis points.
func (r Rate) Shift(bps float64) Rate {
	return Rate{dec: r.dec + bps/10000}
}

// IsFinite reports whether the rate is neither NaN nor infinite.
func (r Rate) IsFinite() bool {
	return !math.IsNaN(r.dec) && !math.IsInf(r.dec, 0)
}

func (r Rate) String() string {
	return fmt.Sprintf("%.4f%%", r.Percent())
}

// MarshalJSON encodes the rate as its decimal fraction.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.dec)
}

// UnmarshalJSON decodes a decimal fraction.
func (r *Rate) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.dec)
}
