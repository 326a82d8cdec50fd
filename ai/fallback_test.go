package ai

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

var synthNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func TestSynthesizeScenarioCount(t *testing.T) {
	snapshot := testSnapshot()
	for _, horizon := range []int{1, 3, 6, 12} {
		params := testParams(models.PeriodMonth)
		params.Horizon = horizon
		payload := Synthesize(snapshot, params, synthNow)

		require.Len(t, payload.VisitorScenarios, horizon)
		require.Len(t, payload.RevenueScenarios, horizon)
	}
}

func TestSynthesizeScenarioInvariants(t *testing.T) {
	params := testParams(models.PeriodMonth)
	params.Horizon = 12
	payload := Synthesize(testSnapshot(), params, synthNow)

	for _, scenarios := range [][]models.Scenario{payload.VisitorScenarios, payload.RevenueScenarios} {
		for _, s := range scenarios {
			assert.GreaterOrEqual(t, s.Optimistic, s.Realistic, s.Month)
			assert.GreaterOrEqual(t, s.Realistic, s.Pessimistic, s.Month)
			assert.GreaterOrEqual(t, s.Pessimistic, 0.0, s.Month)
			assert.GreaterOrEqual(t, s.Confidence, synthConfidenceMin, s.Month)
			assert.LessOrEqual(t, s.Confidence, synthConfidenceMax, s.Month)

			_, err := time.Parse("2006-01", s.Month)
			assert.NoError(t, err, s.Month)
		}
	}

	// Months start the month after "now" and advance one at a time.
	assert.Equal(t, "2026-10", payload.VisitorScenarios[0].Month)
	assert.Equal(t, "2027-09", payload.VisitorScenarios[11].Month)
}

func TestSynthesizeQuantitativelyDeterministic(t *testing.T) {
	snapshot := testSnapshot()
	params := testParams(models.PeriodMonth)

	a := Synthesize(snapshot, params, synthNow)
	b := Synthesize(snapshot, params, synthNow)

	assert.Equal(t, a.Forecast, b.Forecast)
	assert.Equal(t, a.ExecutiveSummary, b.ExecutiveSummary)
	assert.Equal(t, a.KeyFindings, b.KeyFindings)
	assert.Equal(t, a.Recommendations, b.Recommendations)
	require.Len(t, b.VisitorScenarios, len(a.VisitorScenarios))
	for i := range a.VisitorScenarios {
		// Projections are deterministic; only confidence jitters.
		assert.Equal(t, a.VisitorScenarios[i].Month, b.VisitorScenarios[i].Month)
		assert.Equal(t, a.VisitorScenarios[i].Optimistic, b.VisitorScenarios[i].Optimistic)
		assert.Equal(t, a.VisitorScenarios[i].Realistic, b.VisitorScenarios[i].Realistic)
		assert.Equal(t, a.VisitorScenarios[i].Pessimistic, b.VisitorScenarios[i].Pessimistic)
	}
}

func TestSynthesizeBoundsAndProvenance(t *testing.T) {
	payload := Synthesize(testSnapshot(), testParams(models.PeriodMonth), synthNow)

	f := payload.Forecast
	require.NotNil(t, f)
	assert.GreaterOrEqual(t, f.SeasonalIndex, 0.5)
	assert.LessOrEqual(t, f.SeasonalIndex, 2.0)
	assert.GreaterOrEqual(t, f.AccuracyScore, 85.0)
	assert.LessOrEqual(t, f.AccuracyScore, 98.0)

	growthMin, growthMax := GrowthBounds(models.PeriodMonth)
	assert.GreaterOrEqual(t, f.GrowthRate, growthMin)
	assert.LessOrEqual(t, f.GrowthRate, growthMax)

	assert.Equal(t, models.SourceSynthetic, payload.Provenance.Source)
	assert.Equal(t, models.KindRevenueReport, payload.Provenance.Kind)
	assert.Equal(t, "all", payload.Provenance.Scope)

	assert.NotEmpty(t, payload.ExecutiveSummary)
	assert.NotEmpty(t, payload.KeyFindings)
	assert.NotEmpty(t, payload.Insights)
	assert.NotEmpty(t, payload.Recommendations)
	assert.NotEmpty(t, payload.TrendFactors)
}

func TestSynthesizeEmptySnapshot(t *testing.T) {
	empty := &models.AggregatedSnapshot{
		StartDate: "2099-01-01",
		EndDate:   "2099-01-02",
	}
	payload := Synthesize(empty, testParams(models.PeriodWeek), synthNow)

	require.Len(t, payload.VisitorScenarios, 3)
	for _, s := range payload.VisitorScenarios {
		assert.Greater(t, s.Realistic, 0.0)
	}
	assert.Greater(t, payload.Forecast.NextMonthVisitors, 0.0)
}

func TestSeasonalMultiplier(t *testing.T) {
	// March sits at the sine peak, September at the trough.
	assert.InDelta(t, 1.3, seasonalMultiplier(time.March), 1e-9)
	assert.InDelta(t, 0.7, seasonalMultiplier(time.September), 1e-9)
	assert.InDelta(t, 1.0, seasonalMultiplier(time.December), 1e-9)
	for m := time.January; m <= time.December; m++ {
		v := seasonalMultiplier(m)
		assert.True(t, v >= 0.7-1e-9 && v <= 1.3+1e-9, "month %s: %f", m, v)
	}
}

func TestMonthlyBase(t *testing.T) {
	assert.InDelta(t, 4200.0/31*30, monthlyBase(4200, 31, 1200), 1e-9)
	assert.Equal(t, 1200.0, monthlyBase(0, 31, 1200))
	assert.Equal(t, 1200.0, monthlyBase(500, 0, 1200))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 85.0, clamp(10, 85, 98))
	assert.Equal(t, 98.0, clamp(200, 85, 98))
	assert.Equal(t, 90.0, clamp(90, 85, 98))
	// Idempotence: clamping an already-clamped value is a no-op.
	assert.Equal(t, clamp(clamp(200, 85, 98), 85, 98), clamp(200, 85, 98))
	assert.False(t, math.IsNaN(clamp(90, 85, 98)))
}
