package numeric

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/stat/distuv"

	perrors "plinius-pricer/internal/errors"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalCDF_MatchesExactWithinApproximationBound(t *testing.T) {
	exact := distuv.Normal{Mu: 0, Sigma: 1}
	for _, x := range LinSpace(-6, 6, 241) {
		got := NormalCDF(x)
		want := exact.CDF(x)
		if !almostEqual(got, want, 1.5e-7) {
			t.Fatalf("NormalCDF(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestNormalCDF_Tails(t *testing.T) {
	if got := NormalCDF(-40); got < 0 || got > 1e-12 {
		t.Fatalf("left tail = %v", got)
	}
	if got := NormalCDF(40); !almostEqual(got, 1, 1e-12) {
		t.Fatalf("right tail = %v", got)
	}
}

func TestNormalPDF(t *testing.T) {
	if got := NormalPDF(0); !almostEqual(got, 0.3989422804014327, 1e-15) {
		t.Fatalf("NormalPDF(0) = %v", got)
	}
	exact := distuv.Normal{Mu: 0, Sigma: 1}
	for _, x := range []float64{-3, -1.5, -0.2, 0.7, 2.4} {
		if got, want := NormalPDF(x), exact.Prob(x); !almostEqual(got, want, 1e-14) {
			t.Fatalf("NormalPDF(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestProperty_NormalCDFSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("N(x) + N(-x) == 1 and N is within [0, 1]", prop.ForAll(
		func(x float64) bool {
			a, b := NormalCDF(x), NormalCDF(-x)
			return almostEqual(a+b, 1, 1e-12) && a >= 0 && a <= 1
		},
		gen.Float64Range(-10, 10),
	))

	properties.Property("N is non-decreasing", prop.ForAll(
		func(x, dx float64) bool {
			return NormalCDF(x+dx) >= NormalCDF(x)
		},
		gen.Float64Range(-8, 8),
		gen.Float64Range(0, 2),
	))

	properties.TestingRun(t)
}

func TestLinSpace(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		n    int
		want []float64
	}{
		{"single", 3, 9, 1, []float64{3}},
		{"empty", 0, 1, 0, []float64{}},
		{"two", -1, 1, 2, []float64{-1, 1}},
		{"five", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinSpace(tt.a, tt.b, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !almostEqual(got[i], tt.want[i], 1e-12) {
					t.Fatalf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLinSpace_EndpointsExact(t *testing.T) {
	xs := LinSpace(4, 20, 33)
	if xs[0] != 4 || xs[32] != 20 {
		t.Fatalf("endpoints = %v, %v", xs[0], xs[32])
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Fatalf("not strictly increasing at %d", i)
		}
	}
}

func TestInterpLinear(t *testing.T) {
	xs := []float64{1, 2, 4}
	ys := []float64{10, 20, 0}

	tests := []struct {
		x, want float64
	}{
		{0, 10},   // clamp left
		{1, 10},   // node
		{1.5, 15}, // inside first segment
		{3, 10},   // inside second segment
		{4, 0},    // last node
		{100, 0},  // clamp right
	}

	for _, tt := range tests {
		got, err := InterpLinear(xs, ys, tt.x)
		if err != nil {
			t.Fatalf("InterpLinear(%v): %v", tt.x, err)
		}
		if !almostEqual(got, tt.want, 1e-12) {
			t.Errorf("InterpLinear(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestInterpLinear_InvalidNodes(t *testing.T) {
	if _, err := InterpLinear(nil, nil, 1); err == nil {
		t.Fatal("expected error for empty nodes")
	}
	if _, err := InterpLinear([]float64{1, 2}, []float64{1}, 1); err == nil {
		t.Fatal("expected error for mismatched nodes")
	}
	got, err := InterpLinear([]float64{2}, []float64{7}, -3)
	if err != nil || got != 7 {
		t.Fatalf("single node: got %v, %v", got, err)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1, -2, 0) {
		t.Fatal("finite values reported as non-finite")
	}
	if IsFinite(1, math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Fatal("non-finite values reported as finite")
	}
}

func TestCheckResult(t *testing.T) {
	if err := CheckResult("price", 1, 2); err != nil {
		t.Fatalf("finite result rejected: %v", err)
	}
	if err := CheckResult("price", 1, math.Inf(1)); !perrors.Is(err, perrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
