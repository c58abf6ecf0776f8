package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ddebettencourt/social-activity-matcher/internal/errors"
	"github.com/ddebettencourt/social-activity-matcher/internal/resilience"
	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	defaultModel   = "claude-sonnet-4-20250514"

	apiVersion = "2023-06-01"
	maxTokens  = 1500
)

// Client classifies free-text event descriptions through the Anthropic
// messages API, behind a circuit-breaker-protected connection pool.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	pool    *resilience.ConnectionPool
}

// Option adjusts a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel selects the model used for classification.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// NewClient creates a classifier client with connection pooling.
func NewClient(apiKey string, opts ...Option) *Client {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 3,
	})
	pool := resilience.NewConnectionPool(10, 20, 30*time.Second, cb)

	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		pool:    pool,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Classify analyzes an event description. When the user's activity
// collection is supplied, the model is also asked for its five most similar
// activities so downstream strategies can weight by similarity. The answer
// is validated before being returned.
func (c *Client) Classify(ctx context.Context, description string, activities []types.Activity) (*types.CustomEvent, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("event description is required")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("classifier API key not configured")
	}

	payload, err := json.Marshal(apiRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []apiMessage{{Role: "user", Content: buildPrompt(description, activities)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         c.apiKey,
		"anthropic-version": apiVersion,
	}

	retryCfg := resilience.FastRetryPolicy.Config
	retryCfg.RetryableErrors = apperrors.IsRetryableError

	resp, err := resilience.RetryHTTP(ctx, retryCfg, func() (*http.Response, error) {
		return c.pool.DoRequest(ctx, http.MethodPost, c.baseURL, payload, headers)
	})
	if resp == nil {
		return nil, fmt.Errorf("failed to classify event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("classifier API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if len(envelope.Content) == 0 || envelope.Content[0].Type != "text" {
		return nil, fmt.Errorf("unexpected classifier response shape")
	}

	var raw RawAnalysis
	if err := json.Unmarshal([]byte(envelope.Content[0].Text), &raw); err != nil {
		return nil, fmt.Errorf("classifier returned invalid JSON: %w", err)
	}
	if raw.Title == "" || raw.Dimensions == nil {
		return nil, fmt.Errorf("classifier response missing required fields")
	}

	event := Validate(raw)
	return &event, nil
}

func buildPrompt(description string, activities []types.Activity) string {
	var b strings.Builder
	b.WriteString("You are an expert social activity analyst. Analyze the following social event description and provide a structured analysis.\n\n")
	fmt.Fprintf(&b, "Event Description: %q\n\n", description)
	b.WriteString(`Please analyze this event across these 6 dimensions on a scale of 1-10:

1. Social Intensity (1 = very intimate/private, 10 = large groups/high social interaction)
2. Structure (1 = very spontaneous/unplanned, 10 = highly organized/scheduled)
3. Novelty (1 = very familiar/routine, 10 = completely new/unique experience)
4. Formality (1 = very casual/relaxed, 10 = very formal/professional)
5. Energy Level (1 = very calm/low-key, 10 = very active/high-energy)
6. Scale & Immersion (1 = brief/surface-level, 10 = long-term/deeply immersive)

For tags, please select 3-8 relevant tags from this existing list (use these exact tag names):
`)
	b.WriteString(strings.Join(Vocabulary, ", "))
	b.WriteString(`

For each tag you select, also rate its IMPORTANCE to this specific activity on a scale of 1-5:
- 5 = Essential
- 4 = Very Important
- 3 = Important
- 2 = Somewhat Important
- 1 = Generic
`)

	if len(activities) > 0 {
		b.WriteString("\nUSER'S ACTIVITY PREFERENCES:\n")
		for i := range activities {
			fmt.Fprintf(&b, "%d. %q - %s\n", i+1, activities[i].Title, activities[i].Subtitle)
		}
		b.WriteString(`
After analyzing the custom event, also find the 5 most similar activities from the user's list above. For each, provide the exact activity title, a similarity score from 0.0 to 1.0, and a brief explanation. Order from most similar to least similar.
`)
	}

	b.WriteString(`
IMPORTANT:
- Respond with ONLY valid JSON (no markdown, no explanations, no code blocks)
- Use exact numeric values (1-10 integers) for dimensions
- For tags, use format: [{"name": "tag-name", "importance": 4}]
- Use exact tag names from the provided list
`)
	if len(activities) > 0 {
		b.WriteString(`- Include "similarActivities" array with exactly 5 activities from the user list
`)
	} else {
		b.WriteString(`- Do NOT include "similarActivities" field
`)
	}
	b.WriteString(`
JSON format:
{"title": "...", "subtitle": "...", "dimensions": {"socialIntensity": 7, "structure": 5, "novelty": 8, "formality": 3, "energyLevel": 6, "scaleImmersion": 4}, "tags": [{"name": "social", "importance": 5}]`)
	if len(activities) > 0 {
		b.WriteString(`, "similarActivities": [{"title": "...", "similarity": 0.85, "explanation": "..."}]`)
	}
	b.WriteString("}")
	return b.String()
}

// PoolStats exposes the underlying connection pool statistics.
func (c *Client) PoolStats() map[string]interface{} {
	return c.pool.GetStats()
}

// Close releases pooled connections.
func (c *Client) Close() error {
	return c.pool.Close()
}
