package aggregation

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/samber/lo"
)

const maxRating = 5.0

// priceVolatility is coefficient of variation of observed prices.
func priceVolatility(series []observation) *float64 {
	prices := values(series, func(o observation) *float64 { return o.Price })
	if len(prices) < 2 {
		return nil
	}

	m := mean(prices)
	if m == 0 {
		return nil
	}

	return lo.ToPtr(stddev(prices) / m)
}

// priceChangePct is price change from first to last observation in percents.
func priceChangePct(series []observation) *float64 {
	prices := values(series, func(o observation) *float64 { return o.Price })
	if len(prices) < 2 || prices[0] <= 0 {
		return nil
	}

	return lo.ToPtr((prices[len(prices)-1] - prices[0]) / prices[0] * 100)
}

// salesVelocity returns sales change per day and the same change relative to starting sales.
func salesVelocity(series []observation) (*float64, *float64) {
	points := lo.Filter(series, func(o observation, _ int) bool { return o.Sales != nil })
	if len(points) < 2 {
		return nil, nil
	}

	first, last := points[0], points[len(points)-1]
	days := last.CapturedAt.Sub(first.CapturedAt).Hours() / 24
	if days <= 0 {
		return nil, nil
	}

	delta := *last.Sales - *first.Sales
	perDay := delta / days
	relative := perDay / max(*first.Sales, 1)

	return &perDay, &relative
}

// ratingStability is 1 for constant rating and approaches 0 as rating spread reaches half of the scale.
func ratingStability(series []observation) *float64 {
	ratings := values(series, func(o observation) *float64 { return o.Rating })
	if len(ratings) < 2 {
		return nil
	}

	return lo.ToPtr(clamp(1-stddev(ratings)/(maxRating/2), 0, 1))
}

// trendWindow returns observations captured within window ending at asOf. Zero window keeps all.
func trendWindow(series []observation, window time.Duration, asOf time.Time) []observation {
	if window <= 0 {
		return series
	}

	from := asOf.Add(-window)
	return lo.Filter(series, func(o observation, _ int) bool { return !o.CapturedAt.Before(from) })
}

// trendScore combines squashed relative sales velocity with rating stability.
// Score needs velocity, stability only contributes when present.
func trendScore(relativeVelocity, stability *float64, weights TrendWeights) *float64 {
	if relativeVelocity == nil || weights.Velocity <= 0 {
		return nil
	}

	return weighted(
		component{value: lo.ToPtr(squash(*relativeVelocity)), weight: weights.Velocity},
		component{value: stability, weight: weights.Stability},
	)
}

// marginScore normalizes each criterion against category peers before weighting.
// Criterion is left out when product lacks it or fewer than two peers report it.
func marginScore(latest observation, peers []observation, weights MarginWeights) *float64 {
	normalized := func(pick func(o observation) *float64) *float64 {
		value := pick(latest)
		if value == nil {
			return nil
		}

		peerValues := values(peers, pick)
		if len(peerValues) < 2 {
			return nil
		}

		return lo.ToPtr(minMax(*value, peerValues))
	}

	inversePrice := normalized(func(o observation) *float64 { return o.Price })
	if inversePrice != nil {
		inversePrice = lo.ToPtr(1 - *inversePrice)
	}

	return weighted(
		component{value: normalized(func(o observation) *float64 { return o.Rating }), weight: weights.Rating},
		component{value: normalized(func(o observation) *float64 { return o.Sales }), weight: weights.Sales},
		component{value: inversePrice, weight: weights.InversePrice},
		component{value: normalized(func(o observation) *float64 { return o.ReviewCount }), weight: weights.Reviews},
	)
}

// seasonalTags returns sorted season labels matching product text or category.
func seasonalTags(record *models.ProductRecord, latest observation, seasons map[string]SeasonRule) []string {
	text := strings.ToLower(strings.Join(append([]string{latest.Title, record.CategoryName}, latest.Tags...), " "))
	words := lo.SliceToMap(strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), func(w string) (string, struct{}) { return w, struct{}{} })

	tags := []string{}
	for season, rule := range seasons {
		if slices.Contains(rule.Categories, record.CategoryID) && record.CategoryID != "" {
			tags = append(tags, season)
			continue
		}

		for _, keyword := range rule.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}

			_, isWord := words[keyword]
			if isWord || (strings.Contains(keyword, " ") && strings.Contains(text, keyword)) {
				tags = append(tags, season)
				break
			}
		}
	}

	slices.Sort(tags)
	return tags
}

// derive computes product metrics from its raw series and latest observations of category peers.
func derive(
	record *models.ProductRecord,
	series []observation,
	peers []observation,
	asOf time.Time,
	cfg Config,
) *models.DerivedMetrics {
	latest := series[len(series)-1]
	window := trendWindow(series, cfg.TrendWindow, asOf)
	perDay, relative := salesVelocity(window)
	stability := ratingStability(window)

	metrics := &models.DerivedMetrics{
		ProductID:       record.ProductID,
		AsOf:            asOf,
		Observations:    len(series),
		PriceVolatility: priceVolatility(series),
		SalesVelocity:   perDay,
		RatingStability: stability,
		TrendScore:      trendScore(relative, stability, cfg.Trend),
		MarginScore:     marginScore(latest, peers, cfg.Margin),
		PriceChangePct:  priceChangePct(series),
		SeasonalTags:    seasonalTags(record, latest, cfg.Seasons),
	}

	for name, value := range map[string]*float64{
		models.FieldPriceVolatility: metrics.PriceVolatility,
		models.FieldSalesVelocity:   metrics.SalesVelocity,
		models.FieldRatingStability: metrics.RatingStability,
		models.FieldTrendScore:      metrics.TrendScore,
		models.FieldMarginScore:     metrics.MarginScore,
		models.FieldPriceChangePct:  metrics.PriceChangePct,
	} {
		if value == nil {
			metrics.Insufficient = append(metrics.Insufficient, name)
		}
	}
	slices.Sort(metrics.Insufficient)

	return metrics
}

// categoryMetrics reduces latest product observations of category.
func categoryMetrics(categoryID, categoryName string, latest []observation, asOf time.Time) *models.CategoryMetrics {
	result := &models.CategoryMetrics{
		CategoryID:   categoryID,
		CategoryName: categoryName,
		AsOf:         asOf,
		ProductCount: len(latest),
		Sellers:      []models.SellerMetrics{},
	}

	prices := values(latest, func(o observation) *float64 { return o.Price })
	if len(prices) > 0 {
		result.AveragePrice = lo.ToPtr(mean(prices))
	}

	ratings := values(latest, func(o observation) *float64 { return o.Rating })
	if len(ratings) > 0 {
		result.AverageRating = lo.ToPtr(mean(ratings))
	}

	result.TotalSales = lo.Sum(values(latest, func(o observation) *float64 { return o.Sales }))

	bySeller := lo.GroupBy(latest, func(o observation) string { return o.Seller })
	for seller, products := range bySeller {
		sm := models.SellerMetrics{
			Seller:       seller,
			ProductCount: len(products),
			TotalSales:   lo.Sum(values(products, func(o observation) *float64 { return o.Sales })),
		}

		if prices := values(products, func(o observation) *float64 { return o.Price }); len(prices) > 0 {
			sm.AveragePrice = lo.ToPtr(mean(prices))
		}
		if ratings := values(products, func(o observation) *float64 { return o.Rating }); len(ratings) > 0 {
			sm.AverageRating = lo.ToPtr(mean(ratings))
		}
		if result.TotalSales > 0 {
			sm.MarketShare = lo.ToPtr(sm.TotalSales / result.TotalSales)
		}

		result.Sellers = append(result.Sellers, sm)
	}

	slices.SortFunc(result.Sellers, func(a, b models.SellerMetrics) int {
		if a.TotalSales != b.TotalSales {
			if a.TotalSales > b.TotalSales {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Seller, b.Seller)
	})

	return result
}
