package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateRequest is the payload sent to the generation service.
type GenerateRequest struct {
	RequestID string `json:"request_id"`
	System    string `json:"system"`
	Prompt    string `json:"prompt"`
	Language  string `json:"language"`
}

// Client handles communication with the text-generation service.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	stubMode   bool
}

// NewClient creates a new generation client with the given configuration.
// In stub mode no HTTP calls are made; a canned structured response is
// returned for local development.
func NewClient(baseURL, secret string, timeout time.Duration, stubMode bool) *Client {
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		stubMode:   stubMode,
	}
}

// Generate sends a prompt to the generation service and returns the parsed
// result. Transport and non-200 failures are returned as errors; a body
// that fails schema validation is not an error, it comes back as a
// fallback Result.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	if c.stubMode {
		return c.stubResult(req), nil
	}

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("X-Generation-Secret", c.secret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	return ParseResult(body), nil
}

// stubResult fabricates a plausible structured insight so the rest of the
// pipeline can be exercised without the generation service.
func (c *Client) stubResult(req GenerateRequest) Result {
	// Simulated processing delay
	time.Sleep(500 * time.Millisecond)

	return Result{Parsed: &StructuredInsight{
		Language: req.Language,
		Overview: "Спокойный период: записи в основном ровные, с небольшим подъёмом к выходным.",
		MoodTrend: MoodTrend{
			Summary: "Настроение держалось в нейтральной зоне и немного выросло к концу периода.",
		},
		Themes: []Theme{
			{Tag: "работа", Note: "Рабочие темы появляются в большинстве записей."},
			{Tag: "сон", Note: "Несколько записей упоминают недосып в начале периода."},
		},
		NotableMoments: []Moment{
			{Title: "Прогулка в парке", Date: time.Now().Format("2006-01-02"), Summary: "Самая позитивная запись периода."},
		},
		Suggestions: []string{
			"Попробуйте сохранить вечерние прогулки — они совпадают с лучшим настроением.",
			"Обратите внимание на режим сна в начале недели.",
		},
		Meta: &Meta{TokensUsed: 0},
	}}
}
