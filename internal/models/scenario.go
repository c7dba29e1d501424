package models

import "time"

// Scenario is a frozen snapshot of one priced instrument.
type Scenario struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	Color      string     `json:"color"`
	Label      string     `json:"label"`
	SavedAt    time.Time  `json:"saved_at"`
	Instrument Instrument `json:"instrument"`
	Valuation  Valuation  `json:"valuation"`
}

// Point is a single (x, y) sample of a series.
type Point struct {
	X float64 `json:"x" csv:"x"`
	Y float64 `json:"y" csv:"y"`
}

// Series is one scenario's curve for a metric.
type Series struct {
	ScenarioID string  `json:"scenario_id"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Points     []Point `json:"points"`
}

// SeriesSet is the result of resampling a scenario set for one metric.
type SeriesSet struct {
	Kind   Kind     `json:"kind"`
	Metric string   `json:"metric"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`
}

// Clone returns a copy that shares no pointers with sc.
func (sc Scenario) Clone() Scenario {
	sc.Instrument = sc.Instrument.Clone()
	sc.Valuation = sc.Valuation.Clone()
	return sc
}
