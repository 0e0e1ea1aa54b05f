package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("LISTING_READ_TIMEOUT", "750ms")
	t.Setenv("LISTING_WRITE_TIMEOUT", "12")
	t.Setenv("LISTING_IDLE_TIMEOUT", "soon")
	cfg := LoadTimeoutConfig(DefaultTimeoutConfig())
	if cfg.Read != 750*time.Millisecond {
		t.Errorf("Expected 750ms, got %v", cfg.Read)
	}
	if cfg.Write != 12*time.Second {
		t.Errorf("Expected 12s, got %v", cfg.Write)
	}
	if cfg.Idle != 60*time.Second {
		t.Errorf("Expected default idle timeout, got %v", cfg.Idle)
	}
}

func TestJsonHandler(t *testing.T) {
	h := JsonHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		switch r.URL.Query().Get("case") {
		case "missing":
			return nil, WithStatus(http.StatusNotFound, errors.New("no such widget"))
		case "broken":
			return nil, errors.New("boom")
		}
		return map[string]int{"page": 2}, nil
	})

	cases := []struct {
		query  string
		status int
		body   string
	}{
		{"", http.StatusOK, `{"page":2}`},
		{"?case=missing", http.StatusNotFound, `{"error":"no such widget"}`},
		{"?case=broken", http.StatusInternalServerError, `{"error":"boom"}`},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/"+c.query, nil))
		if rec.Code != c.status || strings.TrimSpace(rec.Body.String()) != c.body {
			t.Errorf("Expected %d %s, got %d %s", c.status, c.body, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://www.mass.gov")
	h(rec, req)
	if rec.Code != http.StatusAccepted || rec.Header().Get("Access-Control-Allow-Origin") != "https://www.mass.gov" {
		t.Errorf("Expected cors preflight response, got %d", rec.Code)
	}
}

func TestWithStatusNil(t *testing.T) {
	if WithStatus(http.StatusBadRequest, nil) != nil {
		t.Error("Expected nil error to stay nil")
	}
}
