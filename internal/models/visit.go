package models

import (
	"strings"
	"time"
)

// SiteVisit is one tracked page view. Visits are append-only.
type SiteVisit struct {
	ID        string    `json:"id" bson:"_id"`
	Page      string    `json:"page" bson:"page"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	UserAgent *string   `json:"user_agent" bson:"user_agent,omitempty"`
	Referrer  *string   `json:"referrer" bson:"referrer,omitempty"`
	IPAddress *string   `json:"ip_address" bson:"ip_address,omitempty"`
}

// SiteVisitCreate is the tracking payload sent by the frontend. The caller's
// IP address is taken from the request, never from here.
type SiteVisitCreate struct {
	Page      string  `json:"page" validate:"required,max=500"`
	UserAgent *string `json:"user_agent" validate:"omitempty,max=1000"`
	Referrer  *string `json:"referrer" validate:"omitempty,max=2000"`
}

func (v *SiteVisitCreate) Validate() error {
	v.Page = strings.TrimSpace(v.Page)
	return validateStruct(v)
}

// PageCount is the number of visits recorded for one page.
type PageCount struct {
	Page  string `json:"page" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// VisitStats summarises visits over the last PeriodDays days.
type VisitStats struct {
	TotalVisits int         `json:"total_visits"`
	PageVisits  []PageCount `json:"page_visits"`
	PeriodDays  int         `json:"period_days"`
}
