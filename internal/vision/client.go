// Package vision extracts catalog entries from scanned page images through
// the Gemini REST API. It is the fallback path for documents whose text
// layer is too damaged for the line parser.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/config"
)

const extractionPrompt = `You are a data extraction expert. Analyze this page containing Turkish construction unit prices.

Extract ALL POZ entries from this page into a structured JSON format. Each entry should have:
- poz_no: The POZ number (e.g., "10.100.1047", "25.100.1001")
- description: The item description (Turkish text)
- unit: The measurement unit if present (e.g., "Sa", "Ton", "m³", "Ad.", "Kg", "Tk.") - may be null
- location: The purchase/delivery location if present (e.g., "Fabrikada", "Depoda", "İşbaşında", "Ocakta") - may be null
- birim_fiyat: The unit price (as a number, convert Turkish format 1.234,56 to 1234.56) - may be null
- montaj_fiyat: The installation/montage price if present (as a number) - may be null
- category: The category/section name from the page header

IMPORTANT RULES:
1. Extract ONLY actual POZ entries (lines starting with POZ numbers)
2. DO NOT extract dates (like 01.01.2026) as POZ numbers
3. DO NOT extract page numbers or header information as entries
4. DO NOT extract section headers like "25.100.1000 LAVABOLAR" as priced entries (they have no prices)
5. If a description spans multiple lines, combine them
6. Convert Turkish number format (1.234.567,89) to standard decimal (1234567.89)
7. The category should be extracted from the page header/title
8. If no entries are found on this page, return an empty array

Return ONLY valid JSON in this exact format:
{"page_category": "extracted category name", "entries": [{"poz_no": "...", "description": "...", "unit": null, "location": null, "birim_fiyat": 1234.56, "montaj_fiyat": null, "category": "..."}]}

If there's an error or no data, return: {"page_category": null, "entries": []}`

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.GeminiTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.GeminiRateLimitRPM),
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractPage sends one page image to the model and decodes the structured
// result. Retryable failures (429, 5xx, transport errors) back off
// exponentially up to the configured retry budget.
func (c *Client) ExtractPage(ctx context.Context, image []byte, mimeType string, page int) (internal.PageResult, error) {
	if strings.TrimSpace(c.cfg.GeminiAPIKey) == "" {
		return internal.PageResult{}, errors.New("missing GEMINI_API_KEY")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: extractionPrompt},
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return internal.PageResult{}, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.GeminiBaseURL, "/"), c.cfg.GeminiModel, c.cfg.GeminiAPIKey)

	maxRetries := c.cfg.GeminiMaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return internal.PageResult{}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				c.backoff(ctx, attempt)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			break
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("gemini page %d: status=%d body=%s", page, resp.StatusCode, truncate(body, 200))
			if isRetryableStatus(resp.StatusCode) && attempt < maxRetries {
				c.backoff(ctx, attempt)
				continue
			}
			break
		}

		result, err := decodePageResult(body)
		if err != nil {
			lastErr = fmt.Errorf("gemini page %d: %w", page, err)
			if attempt < maxRetries {
				c.backoff(ctx, attempt)
				continue
			}
			break
		}
		return result, nil
	}

	return internal.PageResult{}, lastErr
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := c.cfg.GeminiRetryBaseSec
	if base < 0 {
		base = 0
	}
	delay := time.Duration(base*(1<<(attempt-1))) * time.Second
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func decodePageResult(body []byte) (internal.PageResult, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return internal.PageResult{}, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return internal.PageResult{}, errors.New("empty response")
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var result internal.PageResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return internal.PageResult{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
