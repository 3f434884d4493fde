package api

import (
	"context"
	"net/http"

	"github.com/moneymap/moneytree/internal/model"
)

// Dashboard returns the home screen aggregate.
func (c *Client) Dashboard(ctx context.Context, userID string) (*model.Dashboard, error) {
	var out model.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Budget returns the budget aggregate.
func (c *Client) Budget(ctx context.Context, userID string) (*model.BudgetReport, error) {
	var out model.BudgetReport
	if err := c.do(ctx, http.MethodGet, "/api/budget/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpendingReport returns the legacy spending analysis.
func (c *Client) SpendingReport(ctx context.Context, userID string) (*model.SpendingReport, error) {
	var out model.SpendingReport
	if err := c.do(ctx, http.MethodGet, "/api/spending/report/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SharkStatus returns the user's streak growth summary.
func (c *Client) SharkStatus(ctx context.Context, userID string) (*model.SharkStatus, error) {
	var out model.SharkStatus
	if err := c.do(ctx, http.MethodGet, "/api/shark/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
