package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/moneymap/moneytree/internal/model"
)

// Onboard creates a user. When req.StatementPath is set the statement is
// uploaded as multipart form data; otherwise the profile is sent as JSON.
func (c *Client) Onboard(ctx context.Context, req model.OnboardRequest) (*model.OnboardResponse, error) {
	debts := make([]model.Debt, 0, len(req.Debts))
	for _, d := range req.Debts {
		if d.Type != "" && d.Amount > 0 {
			debts = append(debts, d)
		}
	}

	var resp model.OnboardResponse
	if req.StatementPath == "" {
		body := struct {
			Age          int          `json:"age"`
			AnnualIncome float64      `json:"annual_income"`
			Debts        []model.Debt `json:"debts"`
		}{req.Age, req.AnnualIncome, debts}
		if err := c.do(ctx, http.MethodPost, "/api/users/onboard", body, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	body, contentType, err := onboardForm(req, debts)
	if err != nil {
		return nil, &RequestError{Method: http.MethodPost, Path: "/api/users/onboard", Message: err.Error(), Err: err}
	}
	if err := c.send(ctx, http.MethodPost, "/api/users/onboard", body, contentType, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func onboardForm(req model.OnboardRequest, debts []model.Debt) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	debtsJSON, err := json.Marshal(debts)
	if err != nil {
		return nil, "", fmt.Errorf("api: encoding debts: %w", err)
	}

	fields := [][2]string{
		{"age", strconv.Itoa(req.Age)},
		{"annual_income", strconv.FormatFloat(req.AnnualIncome, 'f', -1, 64)},
		{"debts", string(debtsJSON)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("api: writing form: %w", err)
		}
	}

	f, err := os.Open(req.StatementPath) //nolint:gosec // path chosen by the local user
	if err != nil {
		return nil, "", fmt.Errorf("api: opening statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	part, err := w.CreateFormFile("transactions_csv", filepath.Base(req.StatementPath))
	if err != nil {
		return nil, "", fmt.Errorf("api: writing form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("api: reading statement: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("api: writing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
