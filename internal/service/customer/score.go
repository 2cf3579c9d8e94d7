package customer

import (
	"time"

	"crm-service/internal/domain/customer"

	"github.com/shopspring/decimal"
)

// Revenue thresholds for the 0-40 revenue sub-score.
var (
	revenueTiers = []struct {
		min    decimal.Decimal
		points int
	}{
		{decimal.NewFromInt(10000), 40},
		{decimal.NewFromInt(5000), 35},
		{decimal.NewFromInt(2000), 30},
		{decimal.NewFromInt(1000), 25},
		{decimal.NewFromInt(500), 20},
		{decimal.NewFromInt(1), 15},
	}
)

func scoreRevenue(total decimal.Decimal) int {
	for _, tier := range revenueTiers {
		if total.GreaterThanOrEqual(tier.min) {
			return tier.points
		}
	}
	return 0
}

func scoreOrderCount(count int64) int {
	switch {
	case count >= 20:
		return 30
	case count >= 10:
		return 25
	case count >= 5:
		return 20
	case count >= 3:
		return 15
	case count >= 1:
		return 10
	default:
		return 0
	}
}

// scoreRecency scores how recently the customer was contacted, in whole
// days before now. A customer never contacted scores 0.
func scoreRecency(lastContact *time.Time, now time.Time) int {
	if lastContact == nil {
		return 0
	}
	days := int(now.Sub(*lastContact).Hours() / 24)
	switch {
	case days <= 7:
		return 30
	case days <= 30:
		return 25
	case days <= 90:
		return 20
	case days <= 180:
		return 15
	case days <= 365:
		return 10
	default:
		return 5
	}
}

// BuildScoreCard combines lifetime revenue, order count and contact recency
// into the 0-100 customer score with its rating band. Pure function of its
// inputs; now is passed in so the recency window is reproducible.
func BuildScoreCard(revenue decimal.Decimal, orderCount int64, lastContact *time.Time, now time.Time) customer.ScoreCard {
	card := customer.ScoreCard{
		RevenueScore: scoreRevenue(revenue),
		OrderScore:   scoreOrderCount(orderCount),
		ContactScore: scoreRecency(lastContact, now),
	}
	card.Score = card.RevenueScore + card.OrderScore + card.ContactScore

	switch {
	case card.Score >= 85:
		card.Rating, card.Label, card.Color = "A+", "Premium", "success"
	case card.Score >= 70:
		card.Rating, card.Label, card.Color = "A", "Very Good", "success"
	case card.Score >= 55:
		card.Rating, card.Label, card.Color = "B", "Good", "info"
	case card.Score >= 40:
		card.Rating, card.Label, card.Color = "C", "Normal", "warning"
	default:
		card.Rating, card.Label, card.Color = "D", "Inactive", "danger"
	}
	return card
}
