package ai

import (
	"app/models"
)

func testSnapshot() *models.AggregatedSnapshot {
	return &models.AggregatedSnapshot{
		StartDate:      "2026-07-01",
		EndDate:        "2026-07-31",
		TotalVisits:    4200,
		TotalRevenue:   96500.50,
		UniqueVisitors: 3100,
		AverageRating:  4.3,
		Trend: []models.TrendPoint{
			{Date: "2026-07-01", Visits: 130, Revenue: 3010},
			{Date: "2026-07-02", Visits: 145, Revenue: 3305.5},
		},
		TopAttractions: []models.AttractionStat{
			{AttractionID: 7, Name: "City Museum", Visits: 900, Revenue: 21000, AvgRating: 4.5},
			{AttractionID: 12, Name: "Harbor Tour", Visits: 640, Revenue: 18200, AvgRating: 4.1},
		},
		ByGender:   map[string]float64{"female": 2150, "male": 2050},
		ByAgeGroup: map[string]float64{"18-30": 1400, "31-50": 1900, "51+": 900},
	}
}

func testParams(period models.Period) PromptParams {
	return PromptParams{
		Kind:    models.KindRevenueReport,
		Period:  period,
		Horizon: 3,
		Scope:   "all",
	}
}
