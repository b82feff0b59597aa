package finmind

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"etf-fortune/internal/domain/dataingestion"
)

func TestFetchRange_MapsRows(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/data" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"msg":"success","status":200,"data":[
			{"date":"2024-01-02","stock_id":"0050","Trading_Volume":12345678,"open":130.0,"max":131.5,"min":129.2,"close":131.0}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", time.Second)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices, err := c.FetchRange(context.Background(), "0050", start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotQuery != "data_id=0050&dataset=TaiwanStockDaily&end_date=2024-01-06&start_date=2024-01-01" {
		t.Fatalf("unexpected query %s", gotQuery)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prices))
	}
	p := prices[0]
	if p.High != 131.5 || p.Low != 129.2 || p.Volume != 12345678 || p.Source != dataingestion.SourceFinMind {
		t.Fatalf("unexpected mapping: %+v", p)
	}
	if math.Abs(p.Change-1.0) > 1e-9 || math.Abs(p.ChangePercent-1.0/130*100) > 1e-9 {
		t.Fatalf("unexpected change: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("mapped row should validate: %v", err)
	}
}

func TestFetchRange_StatusNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msg":"Your level is register","status":402,"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.FetchRange(context.Background(), "0050", time.Now(), time.Now()); err == nil {
		t.Fatalf("expected error for api status 402")
	}
}

func TestFetchRange_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("anonymous client should not send Authorization")
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.FetchRange(context.Background(), "0050", time.Now(), time.Now()); err == nil {
		t.Fatalf("expected error for http 500")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "", 0)
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("unexpected base url %s", c.baseURL)
	}
	if c.httpClient.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %s", c.httpClient.Timeout)
	}
}
