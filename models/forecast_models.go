package models

import "time"

// ForecastMetrics holds the headline predictive numbers of a report.
// Every field is constrained to its declared bound regardless of whether
// the AI path or the synthetic path produced it.
type ForecastMetrics struct {
	NextMonthVisitors float64 `json:"nextMonthVisitors"`
	NextMonthRevenue  float64 `json:"nextMonthRevenue"`
	QuarterlyRevenue  float64 `json:"quarterlyRevenue"`
	SeasonalIndex     float64 `json:"seasonalIndex"` // [0.5, 2.0]
	AccuracyScore     float64 `json:"accuracyScore"` // [85, 98]
	GrowthRate        float64 `json:"growthRate"`    // period-specific range
}

// Scenario is one forecast month's projection triple.
// Invariant: Optimistic >= Realistic >= Pessimistic >= 0.
type Scenario struct {
	Month       string  `json:"month"` // YYYY-MM
	Optimistic  float64 `json:"optimistic"`
	Realistic   float64 `json:"realistic"`
	Pessimistic float64 `json:"pessimistic"`
	Confidence  float64 `json:"confidence"` // [70, 95]
}

// TrendFactor names an external influence on the forecast.
type TrendFactor struct {
	Name           string  `json:"name"`
	Impact         string  `json:"impact"` // positive | negative | neutral
	Description    string  `json:"description"`
	ExpectedChange float64 `json:"expectedChange"` // percent
	Category       string  `json:"category"`       // weather | events | economic | seasonal | marketing | external
	Confidence     float64 `json:"confidence"`     // [70, 95]
}

// Provenance values for ReportPayload.Source.
const (
	SourceAI        = "ai"
	SourceSynthetic = "synthetic"
)

// Provenance records where a report's analytical text came from.
type Provenance struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	Source      string     `json:"source"` // SourceAI | SourceSynthetic
	Kind        ReportKind `json:"kind"`
	Scope       string     `json:"scope"` // attraction id or "all"
}

// ReportPayload is the full analytical artifact owned by one Report.
// The narrative sections are never empty: the validator and the synthesizer
// both fall back to catalogue entries rather than yield an empty list.
type ReportPayload struct {
	ExecutiveSummary string             `json:"executiveSummary"`
	KeyFindings      []string           `json:"keyFindings"`
	Insights         []string           `json:"insights"`
	Recommendations  []string           `json:"recommendations"`
	Snapshot         AggregatedSnapshot `json:"snapshot"`
	Forecast         *ForecastMetrics   `json:"forecast,omitempty"`
	RevenueScenarios []Scenario         `json:"revenueScenarios,omitempty"`
	VisitorScenarios []Scenario         `json:"visitorScenarios,omitempty"`
	TrendFactors     []TrendFactor      `json:"trendFactors,omitempty"`
	Provenance       Provenance         `json:"provenance"`
}
