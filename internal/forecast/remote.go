package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

const (
	remoteTimeout = 30 * time.Second
	maxBodySize   = 1 << 20 // 1 MB
)

// Remote is a Predictor backed by an external forecasting service. The
// service receives the history and the wanted dates and answers with
// one predicted value per date.
type Remote struct {
	baseURL string
	http    *http.Client
}

// NewRemote creates a client for the service at baseURL. Returns nil
// if baseURL is empty.
func NewRemote(baseURL string) *Remote {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Remote{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

type remoteHistoryPoint struct {
	Date  string          `json:"ds"`
	Value decimal.Decimal `json:"y"`
}

type remoteRequest struct {
	History []remoteHistoryPoint `json:"history"`
	Dates   []string             `json:"dates"`
}

type remotePrediction struct {
	Date      string          `json:"ds"`
	Predicted decimal.Decimal `json:"yhat"`
}

type remoteResponse struct {
	Points []remotePrediction `json:"points"`
}

// Predict implements Predictor by POSTing to /forecast.
func (r *Remote) Predict(ctx context.Context, history []model.NetCashDay, dates []time.Time) ([]decimal.Decimal, error) {
	payload := remoteRequest{
		History: make([]remoteHistoryPoint, len(history)),
		Dates:   make([]string, len(dates)),
	}
	for i, h := range history {
		payload.History[i] = remoteHistoryPoint{Date: h.Date.Format(model.DateLayout), Value: h.Net}
	}
	for i, d := range dates {
		payload.Dates[i] = d.Format(model.DateLayout)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("forecast: encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("forecast: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("forecast: reading response: %w", err)
	}
	var parsed remoteResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("forecast: parsing response: %w", err)
	}

	byDate := make(map[string]decimal.Decimal, len(parsed.Points))
	for _, p := range parsed.Points {
		byDate[p.Date] = p.Predicted
	}
	out := make([]decimal.Decimal, len(dates))
	for i, ds := range payload.Dates {
		v, ok := byDate[ds]
		if !ok {
			return nil, fmt.Errorf("forecast: service returned no value for %s", ds)
		}
		out[i] = v
	}
	return out, nil
}
