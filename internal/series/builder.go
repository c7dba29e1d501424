// Package series resamples saved scenarios across fixed input domains so
// they can be compared on one chart.
package series

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/logging"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/numeric"
)

// Metrics lists the metrics available for kind in display order.
func Metrics(kind models.Kind) ([]MetricInfo, error) {
	ms, ok := catalog[kind]
	if !ok {
		return nil, perrors.Wrapf(perrors.ErrUnknownKind, "%q", kind)
	}
	out := make([]MetricInfo, len(ms))
	for i, m := range ms {
		out[i] = m.MetricInfo
	}
	return out, nil
}

func lookup(kind models.Kind, id string) (metric, error) {
	ms, ok := catalog[kind]
	if !ok {
		return metric{}, perrors.Wrapf(perrors.ErrUnknownKind, "%q", kind)
	}
	for _, m := range ms {
		if m.ID == id {
			return m, nil
		}
	}
	return metric{}, perrors.NewMetricError(string(kind), id)
}

// Builder builds comparison series.
type Builder struct {
	logger  zerolog.Logger
	workers int
}

// NewBuilder creates a Builder. workers bounds concurrent scenario
// resampling; values below 1 mean no limit.
func NewBuilder(logger zerolog.Logger, workers int) *Builder {
	return &Builder{logger: logger, workers: workers}
}

// Build resamples every scenario of kind across the metric's domain. Each
// scenario keeps its own frozen inputs except the swept variable. Scenarios of
// other kinds are skipped; output follows input order.
func (b *Builder) Build(ctx context.Context, kind models.Kind, metricID string, scenarios []models.Scenario) (models.SeriesSet, error) {
	start := time.Now()
	m, err := lookup(kind, metricID)
	if err != nil {
		return models.SeriesSet{}, err
	}

	matching := make([]models.Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if sc.Kind == kind {
			matching = append(matching, sc)
		}
	}

	xs := sweep(m.domain, matching)
	set := models.SeriesSet{
		Kind:   kind,
		Metric: m.ID,
		XLabel: m.XLabel,
		YLabel: m.YLabel,
		Series: make([]models.Series, len(matching)),
	}

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i, sc := range matching {
		i, sc := i, sc
		g.Go(func() error {
			points, err := resample(gctx, m, sc.Instrument, xs)
			if err != nil {
				return perrors.Wrapf(err, "scenario %s", sc.ID)
			}
			set.Series[i] = models.Series{
				ScenarioID: sc.ID,
				Label:      sc.Label,
				Color:      sc.Color,
				Points:     points,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.SeriesSet{}, err
	}

	log := logging.WithMetric(logging.WithKind(logging.FromContext(ctx, b.logger), string(kind)), m.ID)
	logging.LogSeriesBuilt(log, len(set.Series), time.Since(start))
	return set, nil
}

func resample(ctx context.Context, m metric, in models.Instrument, xs []float64) ([]models.Point, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	points := make([]models.Point, len(xs))
	for j, x := range xs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		y, err := m.eval(in, x)
		if err != nil {
			return nil, err
		}
		points[j] = models.Point{X: x, Y: y}
	}
	return points, nil
}

// sweep returns the swept x values for d. Spot domains span
// [min spot × 0.7, max spot × 1.3] over the scenarios, or [0.7, 1.3] when
// there are no scenarios or a spot is not finite.
func sweep(d domain, scenarios []models.Scenario) []float64 {
	if !d.fromSpots {
		return numeric.LinSpace(d.lo, d.hi, d.samples)
	}
	lo, hi := SpotRange(scenarios)
	return numeric.LinSpace(lo, hi, d.samples)
}

// SpotRange derives the option spot sweep bounds from scenarios.
func SpotRange(scenarios []models.Scenario) (lo, hi float64) {
	minSpot, maxSpot := math.Inf(1), math.Inf(-1)
	for _, sc := range scenarios {
		if sc.Instrument.Option == nil {
			continue
		}
		s := sc.Instrument.Option.Spot
		if !numeric.IsFinite(s) {
			return spotLowFactor, spotHighFactor
		}
		minSpot = math.Min(minSpot, s)
		maxSpot = math.Max(maxSpot, s)
	}
	if !numeric.IsFinite(minSpot, maxSpot) {
		return spotLowFactor, spotHighFactor
	}
	return minSpot * spotLowFactor, maxSpot * spotHighFactor
}
