package models

import "time"

// ReportKind enumerates the supported analytical report types.
type ReportKind string

const (
	KindVisitorAnalysis       ReportKind = "visitor_analysis"
	KindRevenueReport         ReportKind = "revenue_report"
	KindAttractionPerformance ReportKind = "attraction_performance"
	KindDemographicInsights   ReportKind = "demographic_insights"
	KindCustom                ReportKind = "custom"
)

// Valid reports whether k is one of the enumerated report kinds.
func (k ReportKind) Valid() bool {
	switch k {
	case KindVisitorAnalysis, KindRevenueReport, KindAttractionPerformance,
		KindDemographicInsights, KindCustom:
		return true
	}
	return false
}

// ReportStatus models the report lifecycle. Transitions are monotonic:
// pending -> processing -> completed | failed.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusProcessing ReportStatus = "processing"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

// Period is the analysis window class derived from a report's resolved
// date range. It selects the numeric bounds the AI prompt declares.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Named date-range tokens accepted by report requests.
const (
	RangeLast7Days  = "last_7_days"
	RangeLast30Days = "last_30_days"
	RangeLast90Days = "last_90_days"
	RangeLastYear   = "last_year"
)

// ReportRequest is the immutable input of a report generation.
type ReportRequest struct {
	Kind           ReportKind `json:"kind"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	DateRange      string     `json:"dateRange"`
	AttractionID   *int64     `json:"attractionId,omitempty"` // nil = authority-wide
	ForecastMonths int        `json:"forecastMonths"`
	Format         string     `json:"format,omitempty"`
}

// Report is the persistent report entity.
type Report struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Kind          ReportKind     `json:"kind"`
	Title         string         `json:"title"`
	Description   *string        `json:"description,omitempty"`
	DateRange     string         `json:"dateRange"`
	AttractionID  *int64         `json:"attractionId,omitempty"`
	Status        ReportStatus   `json:"status"`
	Payload       *ReportPayload `json:"payload,omitempty"`
	DownloadCount int            `json:"downloadCount"`
	ErrorMessage  *string        `json:"errorMessage,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
}
