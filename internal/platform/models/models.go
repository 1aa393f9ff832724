package models

import "time"

// Status is product record lifecycle status.
type Status string

const (
	StatusPending Status = "pending"
	StatusScraped Status = "scraped"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

const (
	// MinPriority is the highest priority value.
	MinPriority = 1
	// MaxPriority is the lowest priority value.
	MaxPriority = 10
	// DefaultPriority is priority assigned to newly discovered records.
	DefaultPriority = 5
)

// ValidPriority reports whether priority is within MinPriority and MaxPriority.
func ValidPriority(priority int) bool {
	return priority >= MinPriority && priority <= MaxPriority
}

// ProductRecord is registry entry of a discovered product id.
type ProductRecord struct {
	ProductID     string
	CategoryID    string
	CategoryName  string
	DiscoveredAt  time.Time
	LastAttemptAt *time.Time
	Status        Status
	Priority      int
	ErrorCount    int
	Active        bool
	LastError     *string
}

// Discovery is single product id observed in discovery feed.
type Discovery struct {
	ProductID    string
	CategoryID   string
	CategoryName string
	DiscoveredAt time.Time
}

// DiscoveryResult contains discovery with decoding error if there is any.
type DiscoveryResult struct {
	Discovery Discovery
	Error     error
}

// DiscoveryRun holds statistics of single discovery feed ingest.
type DiscoveryRun struct {
	FeedURL string
	Created int32
	Updated int32
	Failed  int32
}

// RecordFilter narrows registry listing.
// Empty fields don't filter.
type RecordFilter struct {
	CategoryID      string
	Statuses        []Status
	IncludeInactive bool
}

// OutcomeKind is kind of fetch outcome.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeFailure         OutcomeKind = "failure"
	OutcomePermanentReject OutcomeKind = "permanent_reject"
)

// Outcome is result of a single fetch attempt.
// Zero AttemptedAt means attempt time is unknown and outcome is applied at the time it's received.
type Outcome struct {
	Kind        OutcomeKind
	Reason      string
	Fields      Fields
	AttemptedAt time.Time
}

// At returns outcome of attempt started at attemptedAt.
func (o Outcome) At(attemptedAt time.Time) Outcome {
	o.AttemptedAt = attemptedAt
	return o
}

// Success returns successful outcome carrying fetched fields.
func Success(fields Fields) Outcome {
	return Outcome{Kind: OutcomeSuccess, Fields: fields}
}

// Failure returns transient failure outcome.
func Failure(reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason}
}

// PermanentReject returns outcome for ids which shouldn't be fetched again.
func PermanentReject(reason string) Outcome {
	return Outcome{Kind: OutcomePermanentReject, Reason: reason}
}

// FetchResult is outcome reported for a product id.
type FetchResult struct {
	ProductID string
	Outcome   Outcome
}
