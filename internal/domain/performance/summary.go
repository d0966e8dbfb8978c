package performance

import (
	"github.com/shopspring/decimal"
)

// buildSummary buckets ratings by their nearest whole star.
func buildSummary(ratings []decimal.Decimal) Summary {
	summary := Summary{
		Reviews:            len(ratings),
		RatingDistribution: map[string]int{},
	}
	if len(ratings) == 0 {
		return summary
	}
	total := decimal.Zero
	for _, rating := range ratings {
		total = total.Add(rating)
		summary.RatingDistribution[rating.Round(0).String()]++
	}
	avg := total.DivRound(decimal.NewFromInt(int64(len(ratings))), 2).StringFixed(2)
	low := decimal.Min(ratings[0], ratings[1:]...).StringFixed(1)
	high := decimal.Max(ratings[0], ratings[1:]...).StringFixed(1)
	summary.AverageRating = &avg
	summary.MinRating = &low
	summary.MaxRating = &high
	return summary
}
