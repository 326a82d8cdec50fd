package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// User roles recognized by the platform.
const (
	RoleOwner     = "owner"     // attraction owner, scoped to own attractions
	RoleAuthority = "authority" // tourism authority, sees every attraction
)

// --- Core Models ---

// Attraction represents a tourist attraction in the system.
type Attraction struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	City     string  `json:"city"`
	OwnerID  *string `json:"owner_id,omitempty"`
}

// Visit represents a single recorded attraction visit. Rows in the
// attraction_visits table are the raw input of every report.
type Visit struct {
	ID           int64   `json:"id"`
	AttractionID int64   `json:"attractionId"`
	VisitorID    string  `json:"visitorId"`
	VisitDate    string  `json:"visitDate"`
	AmountPaid   float64 `json:"amountPaid"`
	Rating       *int    `json:"rating,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	AgeGroup     *string `json:"ageGroup,omitempty"`
}
