package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/erenkarakoc/ekap-editor/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.GeminiAPIKey = "test"
	cfg.GeminiBaseURL = "https://example.test/v1beta"
	cfg.GeminiModel = "gemini-test"
	cfg.GeminiRateLimitRPM = 100000
	cfg.GeminiMaxRetries = 5
	cfg.GeminiRetryBaseSec = 0
	return cfg
}

func modelResponse(t *testing.T, payload string) *http.Response {
	t.Helper()
	body := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{"parts": []map[string]any{{"text": payload}}},
		}},
	}
	blob, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(blob))),
		Header:     make(http.Header),
	}
}

func TestExtractPageWithRetry(t *testing.T) {
	attempt := 0

	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if !strings.Contains(r.URL.Path, "models/gemini-test:generateContent") {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(strings.NewReader(`{"error":"quota"}`)),
					Header:     make(http.Header),
				}, nil
			}
			payload := `{"page_category": "İşçilik Rayiçleri", "entries": [{"poz_no": "10.100.1047", "description": "Soğuk demirci usta yardımcısı", "unit": "Sa", "location": null, "birim_fiyat": 230.0, "montaj_fiyat": null, "category": null}]}`
			return modelResponse(t, payload), nil
		}),
	}

	result, err := client.ExtractPage(context.Background(), []byte("fake-image"), "image/png", 1)
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts = %d, want 2", attempt)
	}
	if result.PageCategory == nil || *result.PageCategory != "İşçilik Rayiçleri" {
		t.Errorf("page category = %v", result.PageCategory)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d", len(result.Entries))
	}
	e := result.Entries[0]
	if e.ItemCode != "10.100.1047" || e.UnitPrice == nil || *e.UnitPrice != 230.0 {
		t.Errorf("entry = %+v", e)
	}
}

func TestExtractPageExhaustsRetries(t *testing.T) {
	attempt := 0

	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempt++
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       io.NopCloser(strings.NewReader(`{"error":"boom"}`)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if _, err := client.ExtractPage(context.Background(), []byte("fake-image"), "image/png", 3); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempt != 5 {
		t.Fatalf("attempts = %d, want 5", attempt)
	}
}

func TestExtractPageStripsCodeFence(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return modelResponse(t, "```json\n{\"page_category\": null, \"entries\": []}\n```"), nil
		}),
	}

	result, err := client.ExtractPage(context.Background(), []byte("fake-image"), "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.PageCategory != nil || len(result.Entries) != 0 {
		t.Errorf("result = %+v", result)
	}
}
