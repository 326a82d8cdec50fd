package models

// TrendPoint holds the visit and revenue totals of a single day.
type TrendPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Visits  float64 `json:"visits"`
	Revenue float64 `json:"revenue"`
}

// AttractionStat is one entry of the ranked top-attractions list.
type AttractionStat struct {
	AttractionID int64   `json:"attractionId"`
	Name         string  `json:"name"`
	Visits       float64 `json:"visits"`
	Revenue      float64 `json:"revenue"`
	AvgRating    float64 `json:"avgRating"`
}

// AggregatedSnapshot is the normalized statistical picture of one report's
// date range and scope. Every numeric field is non-negative and already
// converted from the database's wide aggregate types to float64; the trend
// sequence is ordered ascending by date with no duplicate dates.
type AggregatedSnapshot struct {
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
	TotalVisits    float64            `json:"totalVisits"`
	TotalRevenue   float64            `json:"totalRevenue"`
	UniqueVisitors float64            `json:"uniqueVisitors"`
	AverageRating  float64            `json:"averageRating"`
	Trend          []TrendPoint       `json:"trend"`
	TopAttractions []AttractionStat   `json:"topAttractions"`
	ByGender       map[string]float64 `json:"byGender"`
	ByAgeGroup     map[string]float64 `json:"byAgeGroup"`
}
