package ai

import (
	"encoding/json"
	"fmt"

	"app/models"
)

// periodProfile declares the analysis focus and the numeric bounds the
// reasoning service is instructed to stay within for one period class.
// The same bounds are re-asserted by the validator on the way back.
type periodProfile struct {
	Focus       string
	GrowthMin   float64
	GrowthMax   float64
	VisitorsMin float64
	VisitorsMax float64
}

var periodProfiles = map[models.Period]periodProfile{
	models.PeriodWeek: {
		Focus:       "short-term visitor flow, day-of-week effects and immediate staffing needs",
		GrowthMin:   -10,
		GrowthMax:   15,
		VisitorsMin: 500,
		VisitorsMax: 5000,
	},
	models.PeriodMonth: {
		Focus:       "monthly visitor and revenue momentum, pricing and promotion impact",
		GrowthMin:   -15,
		GrowthMax:   25,
		VisitorsMin: 2000,
		VisitorsMax: 20000,
	},
	models.PeriodQuarter: {
		Focus:       "seasonal positioning, capacity planning and quarter-over-quarter trends",
		GrowthMin:   -20,
		GrowthMax:   35,
		VisitorsMin: 8000,
		VisitorsMax: 60000,
	},
	models.PeriodYear: {
		Focus:       "long-term demand trajectory, market development and annual investment planning",
		GrowthMin:   -25,
		GrowthMax:   50,
		VisitorsMin: 30000,
		VisitorsMax: 250000,
	},
}

// GrowthBounds returns the declared growth-rate range for a period.
func GrowthBounds(period models.Period) (float64, float64) {
	p := profileFor(period)
	return p.GrowthMin, p.GrowthMax
}

func profileFor(period models.Period) periodProfile {
	if p, ok := periodProfiles[period]; ok {
		return p
	}
	return periodProfiles[models.PeriodMonth]
}

// FormatBounds renders a numeric range the way the prompt embeds it, so
// bound literals are identical between prompt and tests.
func FormatBounds(min, max float64) string {
	return fmt.Sprintf("between %g and %g", min, max)
}

// responseSchema is the exact nested-object contract asserted in every
// prompt. The reasoning service has no typed API, so the contract lives in
// the prompt text and is re-verified by the validator on the way back.
const responseSchema = `{"forecastMetrics":{"nextMonthVisitors":number,"nextMonthRevenue":number,"quarterlyRevenue":number,"seasonalIndex":number,"accuracyScore":number,"growthRate":number},"revenueScenarios":[{"month":"YYYY-MM","optimistic":number,"realistic":number,"pessimistic":number,"confidence":number}],"visitorScenarios":[{"month":"YYYY-MM","optimistic":number,"realistic":number,"pessimistic":number,"confidence":number}],"insights":{"keyPredictions":["string"],"riskFactors":["string"],"opportunities":["string"]}}`

// PromptParams carries the report parameters the prompt embeds.
type PromptParams struct {
	Kind    models.ReportKind
	Period  models.Period
	Horizon int
	Scope   string
}

// BuildPrompt turns a snapshot and report parameters into the instruction
// text sent to the reasoning service. Pure function, no I/O.
func BuildPrompt(snapshot *models.AggregatedSnapshot, params PromptParams) string {
	profile := profileFor(params.Period)

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		// The snapshot is a plain value type; Marshal cannot fail on it.
		snapshotJSON = []byte("{}")
	}

	return fmt.Sprintf(`You are an expert tourism data analyst. Generate a %s analysis with a %d-month forecast for the scope "%s".

Analysis focus for this %s period: %s.

Aggregated visitor statistics for the analysis window:
%s

Hard numeric constraints you must respect:
- growthRate must be a percentage %s.
- nextMonthVisitors must be %s visitors.
- seasonalIndex must be between 0.5 and 2.0.
- accuracyScore must be between 85 and 98.
- Every scenario confidence must be between 70 and 95.
- In every scenario: optimistic >= realistic >= pessimistic >= 0.
- Provide exactly %d entries in revenueScenarios and in visitorScenarios, months formatted YYYY-MM.

Required output: a single minified JSON object with this exact structure. Do not include markdown formatting, backticks, or any text before or after the JSON object.

%s`,
		params.Kind,
		params.Horizon,
		params.Scope,
		params.Period,
		profile.Focus,
		string(snapshotJSON),
		FormatBounds(profile.GrowthMin, profile.GrowthMax),
		FormatBounds(profile.VisitorsMin, profile.VisitorsMax),
		params.Horizon,
		responseSchema,
	)
}
