package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/moneymap/moneytree/internal/model"
)

// Budget is the budget screen aggregate.
type Budget struct {
	svc    Service
	userID string
}

// NewBudget returns a Budget for userID.
func NewBudget(svc Service, userID string) *Budget {
	return &Budget{svc: svc, userID: userID}
}

// Load fetches the report. A report with HasData false means no statement
// has been uploaded yet.
func (b *Budget) Load(ctx context.Context) (*model.BudgetReport, error) {
	report, err := b.svc.Budget(ctx, b.userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: loading budget: %w", err)
	}
	return report, nil
}

// TopCategories returns up to n categories with the largest spend.
func TopCategories(report *model.BudgetReport, n int) []model.SpendingCategory {
	if report == nil || n <= 0 {
		return nil
	}
	cats := slices.Clone(report.SpendingCategories)
	slices.SortStableFunc(cats, func(a, b model.SpendingCategory) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		default:
			return 0
		}
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// PotentialSavings sums the savings estimates of all insights.
func PotentialSavings(report *model.BudgetReport) float64 {
	if report == nil {
		return 0
	}
	var total float64
	for _, in := range report.Insights {
		if in.PotentialSavings != nil {
			total += *in.PotentialSavings
		}
	}
	return total
}
