package dropcountr

import "encoding/json"

// ResourceRef is a hyperlink-style reference to another API resource.
type ResourceRef struct {
	ID string `json:"@id"`
}

// SeriesRef points at a templated time-series endpoint; Template carries
// {period} and {during} placeholders.
type SeriesRef struct {
	Template string `json:"template"`
}

// User is the authenticated account returned by Me. Premises carry only
// references; fetch each with Premise.
type User struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Premises []ResourceRef `json:"premises"`
}

// Premise is a metered property on the account.
type Premise struct {
	ID                 string              `json:"@id"`
	Name               string              `json:"name"`
	ServiceConnections []ServiceConnection `json:"service_connections"`
}

// ServiceConnection is a single metered connection at a premise.
type ServiceConnection struct {
	ID          string      `json:"@id"`
	MeterID     json.Number `json:"meter_id"`
	UsageSeries SeriesRef   `json:"usage_series"`
	CostSeries  SeriesRef   `json:"cost_series"`
	GoalSeries  SeriesRef   `json:"goal_series"`
}

// SeriesPage is one page of time-series entries. Usage, cost and goal
// series all share this shape.
type SeriesPage struct {
	Member []SeriesEntry `json:"member"`
}

// SeriesEntry is a single period bucket of a series. Price and Items are
// populated only on cost series; the server omits fields that do not apply.
type SeriesEntry struct {
	During        string     `json:"during"`
	TotalGallons  float64    `json:"total_gallons"`
	IsLeaking     bool       `json:"is_leaking"`
	Price         *float64   `json:"price"`
	PriceCurrency string     `json:"priceCurrency"`
	Items         []CostItem `json:"items"`
}

// CostItem is one component of a cost breakdown.
type CostItem struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}
