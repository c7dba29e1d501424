package series

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/logging"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing"
	"plinius-pricer/internal/pricing/fixedincome"
	"plinius-pricer/internal/pricing/swap"
)

func scenarioOf(t *testing.T, id string, in models.Instrument) models.Scenario {
	t.Helper()
	val, err := pricing.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate(%s): %v", id, err)
	}
	return models.Scenario{ID: id, Kind: in.Kind, Label: id, Color: "c-" + id, Instrument: in, Valuation: val}
}

func bondScenario(t *testing.T, id string, coupon float64) models.Scenario {
	return scenarioOf(t, id, models.Instrument{Kind: models.KindBond, Bond: &models.BondTerms{
		Face: 100, Coupon: models.Percent(coupon), YTM: models.Percent(10.5), Years: 5, Frequency: 2,
	}})
}

func optionScenario(t *testing.T, id string, kind models.Kind, spot float64) models.Scenario {
	return scenarioOf(t, id, models.Instrument{Kind: kind, Option: &models.OptionTerms{
		Spot: spot, Strike: spot, Rate: models.Percent(10), Carry: models.Percent(4), Vol: models.Percent(20), Expiry: 0.5, Call: true,
	}})
}

func newBuilder() *Builder {
	return NewBuilder(zerolog.Nop(), 4)
}

func TestBuild_BondPriceDomain(t *testing.T) {
	scenarios := []models.Scenario{bondScenario(t, "a", 9), bondScenario(t, "b", 7)}

	set, err := newBuilder().Build(context.Background(), models.KindBond, MetricPriceYTM, scenarios)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(set.Series) != 2 {
		t.Fatalf("series = %d", len(set.Series))
	}

	for _, s := range set.Series {
		pts := s.Points
		if len(pts) != 33 {
			t.Fatalf("points = %d, want 33", len(pts))
		}
		if pts[0].X != 4 || pts[32].X != 20 {
			t.Fatalf("domain = [%v, %v]", pts[0].X, pts[32].X)
		}
		for i := 1; i < len(pts); i++ {
			if pts[i].X <= pts[i-1].X {
				t.Fatalf("x not strictly increasing at %d", i)
			}
		}
	}

	if set.Series[0].ScenarioID != "a" || set.Series[1].ScenarioID != "b" || set.Series[1].Color != "c-b" {
		t.Fatal("series order or identity lost")
	}
	if set.XLabel != "YTM (%)" || set.YLabel != "Price" {
		t.Errorf("labels = %q / %q", set.XLabel, set.YLabel)
	}
}

func TestBuild_ResamplesOwnInputs(t *testing.T) {
	sc := bondScenario(t, "a", 9)
	set, err := newBuilder().Build(context.Background(), models.KindBond, MetricPriceYTM, []models.Scenario{sc})
	if err != nil {
		t.Fatal(err)
	}

	// The point at 10.5% is the scenario's own price.
	p := set.Series[0].Points[13]
	if p.X != 10.5 {
		t.Fatalf("x[13] = %v", p.X)
	}
	if math.Abs(p.Y-94.27836964584799) > 1e-9 {
		t.Fatalf("y at own ytm = %v", p.Y)
	}

	want, _ := fixedincome.BondPrice(100, models.Percent(9), models.Percent(4), 10, 2)
	if set.Series[0].Points[0].Y != want {
		t.Fatalf("y[0] = %v, want %v", set.Series[0].Points[0].Y, want)
	}
}

func TestBuild_FixedDomains(t *testing.T) {
	swapIn := models.Instrument{Kind: models.KindSwap, Swap: &models.SwapTerms{
		Notional: 1e6, FixedRate: models.Percent(10), PeriodLength: 28.0 / 360, Periods: 13,
		Mode: models.SwapModeCurve, Curve: models.DefaultTIIECurve(),
	}}
	billIn := models.Instrument{Kind: models.KindTreasuryBill, Bill: &models.BillTerms{Face: 10, Rate: models.Percent(11), Days: 28}}

	tests := []struct {
		kind    models.Kind
		metric  string
		sc      models.Scenario
		lo, hi  float64
		samples int
	}{
		{models.KindBond, MetricDV01YTM, bondScenario(t, "b", 9), 4, 20, 33},
		{models.KindTreasuryBill, MetricPriceRate, scenarioOf(t, "t", billIn), 2, 20, 25},
		{models.KindSwap, MetricPVFixed, scenarioOf(t, "s", swapIn), 5, 25, 41},
		{models.KindSwap, MetricPVShift, scenarioOf(t, "s", swapIn), -200, 200, 41},
		{models.KindFXOption, MetricVegaVol, optionScenario(t, "f", models.KindFXOption, 17.5), 5, 40, 36},
		{models.KindVanillaOption, MetricVegaVol, optionScenario(t, "v", models.KindVanillaOption, 100), 5, 60, 56},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.metric, func(t *testing.T) {
			set, err := newBuilder().Build(context.Background(), tt.kind, tt.metric, []models.Scenario{tt.sc})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			pts := set.Series[0].Points
			if len(pts) != tt.samples {
				t.Fatalf("points = %d, want %d", len(pts), tt.samples)
			}
			if pts[0].X != tt.lo || pts[len(pts)-1].X != tt.hi {
				t.Fatalf("domain = [%v, %v]", pts[0].X, pts[len(pts)-1].X)
			}
			for _, p := range pts {
				if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
					t.Fatalf("non-finite y at x=%v", p.X)
				}
			}
		})
	}
}

func TestBuild_SwapShiftMatchesScenarioPV(t *testing.T) {
	in := models.Instrument{Kind: models.KindSwap, Swap: &models.SwapTerms{
		Notional: 1e6, FixedRate: models.Percent(11), PeriodLength: 28.0 / 360, Periods: 13,
		Mode: models.SwapModeFlat, DiscountRate: models.Percent(10),
	}}
	sc := scenarioOf(t, "s", in)

	set, err := newBuilder().Build(context.Background(), models.KindSwap, MetricPVShift, []models.Scenario{sc})
	if err != nil {
		t.Fatal(err)
	}
	mid := set.Series[0].Points[20]
	if mid.X != 0 {
		t.Fatalf("x[20] = %v", mid.X)
	}
	if math.Abs(mid.Y-sc.Valuation.Swap.PV) > 1e-6 {
		t.Fatalf("PV at zero shift = %v, scenario PV = %v", mid.Y, sc.Valuation.Swap.PV)
	}

	want, _ := swap.PVAtShift(*in.Swap, -200)
	if set.Series[0].Points[0].Y != want {
		t.Fatalf("PV at -200bp = %v, want %v", set.Series[0].Points[0].Y, want)
	}
}

func TestBuild_OptionSpotDomain(t *testing.T) {
	scenarios := []models.Scenario{
		optionScenario(t, "a", models.KindFXOption, 17),
		optionScenario(t, "b", models.KindFXOption, 20),
		// Other kinds do not widen the domain.
		optionScenario(t, "c", models.KindVanillaOption, 100),
	}

	set, err := newBuilder().Build(context.Background(), models.KindFXOption, MetricDeltaSpot, scenarios)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Series) != 2 {
		t.Fatalf("series = %d, want only fx scenarios", len(set.Series))
	}
	pts := set.Series[0].Points
	if len(pts) != 37 {
		t.Fatalf("points = %d", len(pts))
	}
	if math.Abs(pts[0].X-17*0.7) > 1e-12 || math.Abs(pts[36].X-20*1.3) > 1e-12 {
		t.Fatalf("domain = [%v, %v]", pts[0].X, pts[36].X)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[i-1].Y-1e-12 {
			t.Fatalf("call delta decreasing in spot at %d", i)
		}
	}
}

func TestSpotRange_Fallback(t *testing.T) {
	lo, hi := SpotRange(nil)
	if lo != 0.7 || hi != 1.3 {
		t.Fatalf("empty range = [%v, %v]", lo, hi)
	}

	bad := models.Scenario{Kind: models.KindFXOption, Instrument: models.Instrument{
		Kind: models.KindFXOption, Option: &models.OptionTerms{Spot: math.NaN()},
	}}
	lo, hi = SpotRange([]models.Scenario{optionScenario(t, "a", models.KindFXOption, 17), bad})
	if lo != 0.7 || hi != 1.3 {
		t.Fatalf("non-finite range = [%v, %v]", lo, hi)
	}

	set, err := newBuilder().Build(context.Background(), models.KindVanillaOption, MetricPriceSpot, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Series) != 0 {
		t.Fatalf("series = %d", len(set.Series))
	}
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := newBuilder().Build(ctx, "future", MetricPriceYTM, nil); !perrors.Is(err, perrors.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := newBuilder().Build(ctx, models.KindBond, MetricVegaVol, nil); !perrors.Is(err, perrors.ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}

	broken := models.Scenario{ID: "x", Kind: models.KindBond, Instrument: models.Instrument{
		Kind: models.KindBond, Bond: &models.BondTerms{Face: 0, Years: 5, Frequency: 2},
	}}
	if _, err := newBuilder().Build(ctx, models.KindBond, MetricPriceYTM, []models.Scenario{broken}); !perrors.Is(err, perrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMetrics(t *testing.T) {
	for _, kind := range models.Kinds() {
		ms, err := Metrics(kind)
		if err != nil || len(ms) == 0 {
			t.Errorf("Metrics(%s) = %v, %v", kind, ms, err)
		}
	}
	ms, _ := Metrics(models.KindSwap)
	if ms[0].ID != MetricPVFixed || ms[1].ID != MetricPVShift {
		t.Errorf("swap metrics = %+v", ms)
	}
}

// Property: for any set of bond scenarios, every series has the same fixed
// x grid and the output preserves scenario order.
func TestProperty_SeriesPreserveOrderAndGrid(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("one series per scenario, in order, on the ytm grid", prop.ForAll(
		func(coupons []float64) bool {
			scenarios := make([]models.Scenario, len(coupons))
			for i, c := range coupons {
				scenarios[i] = bondScenario(t, fmt.Sprintf("s%d", i), c)
			}
			set, err := newBuilder().Build(context.Background(), models.KindBond, MetricPriceYTM, scenarios)
			if err != nil || len(set.Series) != len(scenarios) {
				return false
			}
			for i, s := range set.Series {
				if s.ScenarioID != scenarios[i].ID || len(s.Points) != 33 {
					return false
				}
				if s.Points[0].X != 4 || s.Points[32].X != 20 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(8, gen.Float64Range(0, 15)),
	))

	properties.TestingRun(t)
}

func TestBuild_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), zerolog.New(&buf).Level(zerolog.DebugLevel))

	if _, err := newBuilder().Build(ctx, models.KindBond, MetricDV01YTM, []models.Scenario{bondScenario(t, "a", 9)}); err != nil {
		t.Fatal(err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["kind"] != "bond" || entry["metric"] != MetricDV01YTM || entry["series"] != float64(1) {
		t.Errorf("unexpected entry %v", entry)
	}
}
