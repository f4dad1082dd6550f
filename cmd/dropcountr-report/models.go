package main

// ReportRow is one CSV line: a single period bucket for one meter. Pointer
// fields stay nil when the corresponding series had no entry for the bucket.
type ReportRow struct {
	During        string
	Premise       string
	MeterID       string
	TotalGallons  *float64
	IsLeaking     *bool
	Price         *float64
	PriceCurrency string
	GoalGallons   *float64
}
