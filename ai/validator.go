package ai

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"app/analytics"
	"app/models"
)

// trackedFieldCount is the number of independently validated top-level
// fields: six forecast metrics, two scenario arrays, three insight lists.
// When more than half of them fall back to defaults the payload is labeled
// synthetic even though the reasoning call technically succeeded.
const trackedFieldCount = 11

// ExtractJSON returns the first balanced brace-delimited substring of raw,
// or "" when none exists. The reasoning service routinely wraps its JSON
// in prose despite being told not to.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

// ValidatePayload maps untrusted reasoning output to a structurally
// complete ReportPayload. It never fails: every absent, wrong-typed or
// out-of-bounds field is individually defaulted or clamped, and a single
// bad field never discards the rest. The second return value is the number
// of tracked fields that fell back to defaults.
func ValidatePayload(raw string, params PromptParams, snapshot *models.AggregatedSnapshot, now time.Time) (*models.ReportPayload, int) {
	// The synthetic payload doubles as the per-field default catalogue.
	payload := Synthesize(snapshot, params, now)

	jsonStr := ExtractJSON(raw)
	if jsonStr == "" {
		return payload, trackedFieldCount
	}
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var decoded map[string]any
	if dec.Decode(&decoded) != nil {
		return payload, trackedFieldCount
	}
	obj, _ := analytics.NormalizeTree(decoded).(map[string]any)

	defaulted := 0
	growthMin, growthMax := GrowthBounds(params.Period)

	metrics, _ := obj["forecastMetrics"].(map[string]any)
	defaulted += validateMetric(metrics, "nextMonthVisitors", &payload.Forecast.NextMonthVisitors, 0, math.MaxFloat64)
	defaulted += validateMetric(metrics, "nextMonthRevenue", &payload.Forecast.NextMonthRevenue, 0, math.MaxFloat64)
	defaulted += validateMetric(metrics, "quarterlyRevenue", &payload.Forecast.QuarterlyRevenue, 0, math.MaxFloat64)
	defaulted += validateMetric(metrics, "seasonalIndex", &payload.Forecast.SeasonalIndex, 0.5, 2.0)
	defaulted += validateMetric(metrics, "accuracyScore", &payload.Forecast.AccuracyScore, 85, 98)
	defaulted += validateMetric(metrics, "growthRate", &payload.Forecast.GrowthRate, growthMin, growthMax)

	var ok bool
	if payload.RevenueScenarios, ok = validateScenarios(obj["revenueScenarios"], payload.RevenueScenarios); !ok {
		defaulted++
	}
	if payload.VisitorScenarios, ok = validateScenarios(obj["visitorScenarios"], payload.VisitorScenarios); !ok {
		defaulted++
	}

	insights, _ := obj["insights"].(map[string]any)
	if payload.KeyFindings, ok = validateStringList(insights["keyPredictions"], payload.KeyFindings); !ok {
		defaulted++
	}
	if payload.Insights, ok = validateStringList(insights["riskFactors"], payload.Insights); !ok {
		defaulted++
	}
	if payload.Recommendations, ok = validateStringList(insights["opportunities"], payload.Recommendations); !ok {
		defaulted++
	}

	// Summary restated over the validated numbers so narrative and metrics
	// never disagree.
	payload.ExecutiveSummary = summaryText(params, snapshot, payload.Forecast)

	if defaulted*2 <= trackedFieldCount {
		payload.Provenance.Source = models.SourceAI
	}
	return payload, defaulted
}

// validateMetric copies a numeric field into dst clamped to [lo, hi].
// Returns 1 when the field was absent or wrong-typed and dst kept its
// default, 0 otherwise.
func validateMetric(m map[string]any, key string, dst *float64, lo, hi float64) int {
	if m == nil {
		return 1
	}
	v, ok := m[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	*dst = clamp(v, lo, hi)
	return 0
}

// validateScenarios validates one scenario array element-wise against the
// defaults. Output length always equals the defaults' length (the forecast
// horizon): short arrays are padded with defaults, long ones truncated.
// Reports false when no element contributed anything, so an array of
// non-objects counts as defaulted just like a missing array.
func validateScenarios(v any, defaults []models.Scenario) ([]models.Scenario, bool) {
	arr, isArray := v.([]any)
	if !isArray || len(arr) == 0 {
		return defaults, false
	}

	out := make([]models.Scenario, len(defaults))
	usable := false
	for i := range defaults {
		out[i] = defaults[i]
		if i >= len(arr) {
			continue
		}
		if m, isObj := arr[i].(map[string]any); isObj {
			out[i] = validateScenario(m, defaults[i])
			usable = true
		}
	}
	return out, usable
}

func validateScenario(m map[string]any, def models.Scenario) models.Scenario {
	s := def
	if month, ok := m["month"].(string); ok {
		if _, err := time.Parse("2006-01", month); err == nil {
			s.Month = month
		}
	}
	if v, ok := m["optimistic"].(float64); ok {
		s.Optimistic = math.Max(v, 0)
	}
	if v, ok := m["realistic"].(float64); ok {
		s.Realistic = math.Max(v, 0)
	}
	if v, ok := m["pessimistic"].(float64); ok {
		s.Pessimistic = math.Max(v, 0)
	}
	if v, ok := m["confidence"].(float64); ok {
		s.Confidence = clamp(v, 70, 95)
	}

	// Reorder the triple rather than reject it when the service mixes up
	// which projection is which.
	triple := []float64{s.Optimistic, s.Realistic, s.Pessimistic}
	sort.Sort(sort.Reverse(sort.Float64Slice(triple)))
	s.Optimistic, s.Realistic, s.Pessimistic = triple[0], triple[1], triple[2]
	return s
}

// validateStringList keeps the good elements of an untrusted list and
// reports whether anything usable survived. Empty results fall back to the
// defaults: downstream rendering assumes at least one entry per section.
func validateStringList(v any, defaults []string) ([]string, bool) {
	arr, isArray := v.([]any)
	if !isArray {
		return defaults, false
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, isString := e.(string); isString && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaults, false
	}
	return out, true
}
