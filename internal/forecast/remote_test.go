package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashplan-dev/cashplan/internal/model"
)

func TestRemotePredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/forecast" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.History) != 2 {
			t.Errorf("history length = %d, want 2", len(req.History))
		}

		var resp remoteResponse
		for i, ds := range req.Dates {
			resp.Points = append(resp.Points, remotePrediction{
				Date:      ds,
				Predicted: decimal.NewFromInt(int64(i + 1)),
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL)
	history := []model.NetCashDay{
		day(t, "2023-01-01", "10"),
		day(t, "2023-01-02", "-5"),
	}
	dates := []time.Time{mustDate(t, "2023-01-03"), mustDate(t, "2023-01-04")}

	got, err := r.Predict(context.Background(), history, dates)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("predictions = %d, want 2", len(got))
	}
	if !got[0].Equal(dec("1")) || !got[1].Equal(dec("2")) {
		t.Errorf("predictions = %s, %s, want 1, 2", got[0], got[1])
	}
}

func TestRemotePredictMissingDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"points":[]}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL)
	_, err := r.Predict(context.Background(), nil, []time.Time{mustDate(t, "2023-01-03")})
	if err == nil {
		t.Fatal("expected an error when the service omits a date")
	}
}

func TestRemotePredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL)
	_, err := r.Predict(context.Background(), nil, []time.Time{mustDate(t, "2023-01-03")})
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestNewRemoteEmptyURL(t *testing.T) {
	if r := NewRemote("  "); r != nil {
		t.Fatal("expected nil client for an empty URL")
	}
}
