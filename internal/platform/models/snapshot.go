package models

import "time"

// SnapshotKind distinguishes observed snapshots from computed ones.
type SnapshotKind string

const (
	SnapshotRaw     SnapshotKind = "raw"
	SnapshotDerived SnapshotKind = "derived"
)

// Raw snapshot field names.
const (
	FieldPrice       = "price"
	FieldRating      = "rating"
	FieldReviewCount = "review_count"
	FieldSales       = "sales"
	FieldTitle       = "title"
	FieldSeller      = "seller"
	FieldTags        = "tags"
)

// Derived snapshot field names.
const (
	FieldPriceVolatility = "price_volatility"
	FieldTrendScore      = "trend_score"
	FieldSalesVelocity   = "sales_velocity"
	FieldRatingStability = "rating_stability"
	FieldMarginScore     = "margin_score"
	FieldPriceChangePct  = "price_change_pct"
	FieldSeasonalTags    = "seasonal_tags"
	FieldObservations    = "observations"
	FieldInsufficient    = "insufficient"
)

// Fields is mapping of named numeric and text snapshot values.
type Fields map[string]any

// Snapshot is immutable point-in-time observation of a product.
type Snapshot struct {
	ID         int64
	ProductID  string
	CapturedAt time.Time
	Kind       SnapshotKind
	Fields     Fields
}

// SnapshotQuery selects product snapshots.
// Nil bounds are open, To is inclusive.
type SnapshotQuery struct {
	ProductID string
	Kind      SnapshotKind
	From      *time.Time
	To        *time.Time
}

// DerivedMetrics are product metrics computed from raw snapshot history.
// Nil metric means there was not enough data to compute it.
type DerivedMetrics struct {
	ProductID       string
	AsOf            time.Time
	Observations    int
	PriceVolatility *float64
	TrendScore      *float64
	SalesVelocity   *float64
	RatingStability *float64
	MarginScore     *float64
	PriceChangePct  *float64
	SeasonalTags    []string
	Insufficient    []string
}

// Fields returns derived snapshot fields. Absent metrics are left out.
func (m DerivedMetrics) Fields() Fields {
	fields := Fields{
		FieldObservations: m.Observations,
		FieldSeasonalTags: append([]string{}, m.SeasonalTags...),
	}

	for name, value := range map[string]*float64{
		FieldPriceVolatility: m.PriceVolatility,
		FieldTrendScore:      m.TrendScore,
		FieldSalesVelocity:   m.SalesVelocity,
		FieldRatingStability: m.RatingStability,
		FieldMarginScore:     m.MarginScore,
		FieldPriceChangePct:  m.PriceChangePct,
	} {
		if value != nil {
			fields[name] = *value
		}
	}

	if len(m.Insufficient) > 0 {
		fields[FieldInsufficient] = append([]string{}, m.Insufficient...)
	}

	return fields
}

// CategoryMetrics is category level aggregate over latest product snapshots.
type CategoryMetrics struct {
	ID            int64           `json:"-"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	AsOf          time.Time       `json:"asOf"`
	ProductCount  int             `json:"productCount"`
	AveragePrice  *float64        `json:"averagePrice,omitempty"`
	AverageRating *float64        `json:"averageRating,omitempty"`
	TotalSales    float64         `json:"totalSales"`
	Sellers       []SellerMetrics `json:"sellers"`
}

// SellerMetrics is per seller aggregate within a category.
type SellerMetrics struct {
	Seller        string   `json:"seller"`
	ProductCount  int      `json:"productCount"`
	AveragePrice  *float64 `json:"averagePrice,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	TotalSales    float64  `json:"totalSales"`
	MarketShare   *float64 `json:"marketShare,omitempty"`
}
