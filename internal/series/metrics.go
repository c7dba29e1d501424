package series

import (
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing/fixedincome"
	"plinius-pricer/internal/pricing/options"
	"plinius-pricer/internal/pricing/swap"
)

// Metric ids.
const (
	MetricPriceYTM  = "price-ytm"
	MetricDV01YTM   = "dv01-ytm"
	MetricPriceRate = "price-rate"
	MetricPVFixed   = "pv-fixed"
	MetricPVShift   = "pv-shift"
	MetricPriceSpot = "price-spot"
	MetricDeltaSpot = "delta-spot"
	MetricVegaVol   = "vega-vol"
)

// Option spot domains are derived from the scenarios' own spots.
const (
	spotLowFactor  = 0.7
	spotHighFactor = 1.3
	spotSamples    = 37
)

// MetricInfo describes a series a kind can be plotted against.
type MetricInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
}

// domain is a fixed sweep; spot sweeps set fromSpots instead.
type domain struct {
	lo, hi    float64
	samples   int
	fromSpots bool
}

type metric struct {
	MetricInfo
	domain domain
	eval   func(in models.Instrument, x float64) (float64, error)
}

var catalog = map[models.Kind][]metric{
	models.KindBond: {
		{
			MetricInfo: MetricInfo{ID: MetricPriceYTM, Title: "Price vs YTM", XLabel: "YTM (%)", YLabel: "Price"},
			domain:     domain{lo: 4, hi: 20, samples: 33},
			eval: func(in models.Instrument, x float64) (float64, error) {
				b := *in.Bond
				return fixedincome.BondPrice(b.Face, b.Coupon, models.Percent(x), b.Periods(), b.Frequency)
			},
		},
		{
			MetricInfo: MetricInfo{ID: MetricDV01YTM, Title: "DV01 vs YTM", XLabel: "YTM (%)", YLabel: "DV01"},
			domain:     domain{lo: 4, hi: 20, samples: 33},
			eval: func(in models.Instrument, x float64) (float64, error) {
				b := *in.Bond
				risk, err := fixedincome.BondRisk(b.Face, b.Coupon, models.Percent(x), b.Periods(), b.Frequency)
				return risk.DV01, err
			},
		},
	},
	models.KindTreasuryBill: {
		{
			MetricInfo: MetricInfo{ID: MetricPriceRate, Title: "Price vs rate", XLabel: "Rate (%)", YLabel: "Price"},
			domain:     domain{lo: 2, hi: 20, samples: 25},
			eval: func(in models.Instrument, x float64) (float64, error) {
				return fixedincome.CetesPrice(in.Bill.Face, models.Percent(x), in.Bill.Days)
			},
		},
	},
	models.KindSwap: {
		{
			MetricInfo: MetricInfo{ID: MetricPVFixed, Title: "PV vs fixed rate", XLabel: "Fixed rate (%)", YLabel: "PV"},
			domain:     domain{lo: 5, hi: 25, samples: 41},
			eval: func(in models.Instrument, x float64) (float64, error) {
				terms := *in.Swap
				terms.FixedRate = models.Percent(x)
				return swap.PVAtShift(terms, 0)
			},
		},
		{
			MetricInfo: MetricInfo{ID: MetricPVShift, Title: "PV vs curve shift", XLabel: "Shift (bps)", YLabel: "PV"},
			domain:     domain{lo: -200, hi: 200, samples: 41},
			eval: func(in models.Instrument, x float64) (float64, error) {
				return swap.PVAtShift(*in.Swap, x)
			},
		},
	},
	models.KindFXOption:      optionMetrics(models.KindFXOption, 40, 36),
	models.KindVanillaOption: optionMetrics(models.KindVanillaOption, 60, 56),
}

func optionMetrics(kind models.Kind, maxVol float64, volSamples int) []metric {
	value := func(terms models.OptionTerms) (models.OptionValuation, error) {
		return options.Value(kind, terms)
	}
	return []metric{
		{
			MetricInfo: MetricInfo{ID: MetricPriceSpot, Title: "Price vs spot", XLabel: "Spot", YLabel: "Price"},
			domain:     domain{samples: spotSamples, fromSpots: true},
			eval: func(in models.Instrument, x float64) (float64, error) {
				terms := *in.Option
				terms.Spot = x
				v, err := value(terms)
				return v.Price, err
			},
		},
		{
			MetricInfo: MetricInfo{ID: MetricDeltaSpot, Title: "Delta vs spot", XLabel: "Spot", YLabel: "Delta"},
			domain:     domain{samples: spotSamples, fromSpots: true},
			eval: func(in models.Instrument, x float64) (float64, error) {
				terms := *in.Option
				terms.Spot = x
				v, err := value(terms)
				return v.Greeks.Delta, err
			},
		},
		{
			MetricInfo: MetricInfo{ID: MetricVegaVol, Title: "Vega vs vol", XLabel: "Vol (%)", YLabel: "Vega"},
			domain:     domain{lo: 5, hi: maxVol, samples: volSamples},
			eval: func(in models.Instrument, x float64) (float64, error) {
				terms := *in.Option
				terms.Vol = models.Percent(x)
				v, err := value(terms)
				return v.Greeks.Vega, err
			},
		},
	}
}
