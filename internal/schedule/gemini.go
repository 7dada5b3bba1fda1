package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	suggestAttempts = 2
	retryDelay      = 1 * time.Second
)

// GeminiClient calls the generative-language completion service and
// extracts a structured suggestion result from its free-form reply.
type GeminiClient struct {
	APIKey  string
	Model   string
	BaseURL string        // overridable for tests
	Timeout time.Duration // per attempt

	HTTPClient *http.Client
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    defaultGeminiBaseURL,
		Timeout:    timeout,
		HTTPClient: http.DefaultClient,
	}
}

// Suggest sends the prompt and returns a shape-validated result.
// Any failure (network, parse, validation) is retried once after a
// short delay; only the final attempt's error is surfaced.
func (c *GeminiClient) Suggest(ctx context.Context, prompt string) (*SuggestionResult, error) {
	var lastErr error
	for attempt := 1; attempt <= suggestAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		res, err := c.suggestOnce(ctx, prompt)
		if err == nil {
			return res, nil
		}
		lastErr = err
		log.Printf("[WARN] gemini attempt %d/%d failed: %v", attempt, suggestAttempts, err)
	}
	return nil, lastErr
}

func (c *GeminiClient) suggestOnce(ctx context.Context, prompt string) (*SuggestionResult, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": 0.7,
		},
	}
	payload, _ := json.Marshal(body)

	base := c.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, c.Model, c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var reply struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("decode gemini envelope: %w", err)
	}

	var text strings.Builder
	for _, cand := range reply.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
		break
	}
	if text.Len() == 0 {
		return nil, errors.New("empty completion")
	}

	return parseCompletion(text.String())
}

// wire shapes for the model's JSON reply; scheduledTime stays a string
// here because models emit a variety of timestamp formats.
type wireSuggestion struct {
	TaskID          int    `json:"taskId"`
	ScheduledTime   string `json:"scheduledTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason"`
	Color           string `json:"color"`
}

type wireResult struct {
	Suggestions []wireSuggestion `json:"suggestions"`
	Summary     string           `json:"summary"`
	Statistics  *Statistics      `json:"statistics"`
}

// parseCompletion locates the first brace-matched JSON object in the
// free-form completion text, parses it (repairing malformed JSON once)
// and validates that a suggestions array is present.
func parseCompletion(text string) (*SuggestionResult, error) {
	payload, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var parsed wireResult
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(payload)
		if rerr != nil {
			return nil, fmt.Errorf("parse completion: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return nil, fmt.Errorf("parse repaired completion: %w", err)
		}
	}

	if parsed.Suggestions == nil {
		return nil, errors.New("completion has no suggestions array")
	}

	res := &SuggestionResult{
		Suggestions: make([]Suggestion, 0, len(parsed.Suggestions)),
		Summary:     parsed.Summary,
	}
	if parsed.Statistics != nil {
		res.Statistics = *parsed.Statistics
	}
	for _, ws := range parsed.Suggestions {
		res.Suggestions = append(res.Suggestions, Suggestion{
			TaskID:          ws.TaskID,
			ScheduledTime:   parseWhen(ws.ScheduledTime),
			DurationMinutes: ws.DurationMinutes,
			Reason:          ws.Reason,
			Color:           ws.Color,
		})
	}
	return res, nil
}

// extractJSONObject returns the first top-level brace-matched JSON
// object inside text. The completion usually wraps the object in prose
// or markdown fences.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", errors.New("no json object in completion")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced json object in completion")
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen accepts the timestamp formats models actually emit.
// Unparseable input yields the zero time; the normalizer drops those.
func parseWhen(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
