package model

// DerivedFields are read-time projections over a request snapshot.
// They are recomputed on every read and never persisted.
type DerivedFields struct {
	ProjectNumber      string
	CustomerName       string
	DaysOpen           int
	ProgressPercentage int
	IsOverdue          bool
	CurrentQuote       *Quote
}
