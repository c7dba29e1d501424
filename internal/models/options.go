package models

// OptionTerms describes a European option. For fx-option kinds Carry is the
// foreign interest rate; for vanilla-option kinds it is the continuous
// dividend yield.
type OptionTerms struct {
	Spot   float64 `json:"spot"`
	Strike float64 `json:"strike"`
	Rate   Rate    `json:"rate"`  // domestic / risk-free
	Carry  Rate    `json:"carry"` // foreign rate or dividend yield
	Vol    Rate    `json:"vol"`
	Expiry float64 `json:"expiry"` // years
	Call   bool    `json:"call"`
}

// OptionGreeks represents option Greeks. Theta is per year, vega and rho per
// unit (1.00 = 100%) change of the underlying rate or volatility.
type OptionGreeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// OptionValuation is a priced option with its Greeks.
type OptionValuation struct {
	Price  float64      `json:"price"`
	D1     float64      `json:"d1"`
	D2     float64      `json:"d2"`
	Greeks OptionGreeks `json:"greeks"`
}

// Side returns "call" or "put".
func (o OptionTerms) Side() string {
	if o.Call {
		return "call"
	}
	return "put"
}
