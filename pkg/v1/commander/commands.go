package commander

import "time"

// Message types recognized by market tracker.
const (
	TypeDiscoverItem       = "discover.item"
	TypeDiscoverFeed       = "discover.feed"
	TypeFetchResult        = "fetch.result"
	TypeCrawlPass          = "pass.crawl"
	TypeAggregatePass      = "pass.aggregate"
	TypeDeactivate         = "registry.deactivate"
	TypeReactivate         = "registry.reactivate"
	TypeSetPriority        = "registry.priority"
	TypeBoostCategory      = "registry.boost"
	OutcomeSuccess         = "success"
	OutcomeFailure         = "failure"
	OutcomePermanentReject = "permanent_reject"
)

// DiscoverItemCommand registers single discovered product id.
type DiscoverItemCommand struct {
	ProductID    string     `json:"productId"`
	CategoryID   string     `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	DiscoveredAt *time.Time `json:"discoveredAt,omitempty"`
}

// DiscoverFeedCommand ingests discovery feed file available under FeedURL.
type DiscoverFeedCommand struct {
	FeedURL string `json:"feedUrl"`
}

// FetchResultCommand reports outcome of fetch attempt made by external fetcher.
// AttemptedAt identifies the attempt, redelivered results of the same attempt are applied once.
type FetchResultCommand struct {
	ProductID   string         `json:"productId"`
	Outcome     string         `json:"outcome"`
	Reason      string         `json:"reason,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	AttemptedAt *time.Time     `json:"attemptedAt,omitempty"`
}

// CrawlPassCommand starts crawl pass of at most MaxN products.
type CrawlPassCommand struct {
	MaxN int `json:"maxN"`
}

// AggregatePassCommand recomputes derived metrics.
// ProductID narrows pass to single product, CategoryID to single category.
type AggregatePassCommand struct {
	ProductID  string     `json:"productId,omitempty"`
	CategoryID string     `json:"categoryId,omitempty"`
	AsOf       *time.Time `json:"asOf,omitempty"`
}

// RecordCommand addresses single product record.
type RecordCommand struct {
	ProductID string `json:"productId"`
}

// SetPriorityCommand overrides product record priority.
type SetPriorityCommand struct {
	ProductID string `json:"productId"`
	Priority  int    `json:"priority"`
}

// BoostCategoryCommand raises priority of pending records in category.
type BoostCategoryCommand struct {
	CategoryID string `json:"categoryId"`
	Amount     int    `json:"amount"`
}
