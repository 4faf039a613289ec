package summary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Generator turns structured facts into prose. Implementations must
// tolerate absent optional fact groups; callers must expect failure and
// carry their own fallback.
type Generator interface {
	Narrative(ctx context.Context, facts Facts) (string, error)
	Comparison(ctx context.Context, facts []Facts) (string, error)
}

const narrativeSystemPrompt = "You are an analytics consultant. Analyze the " +
	"provided company page data and answer with JSON of the form " +
	`{"summary": "..."} containing a 2-3 sentence executive summary.`

const comparisonSystemPrompt = "You are an analytics consultant. Compare the " +
	"provided company pages and answer with JSON of the form " +
	`{"summary": "..."} naming the stronger presence and the key differences.`

// OpenAIConfig carries the chat-completions endpoint settings.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns the generator settings used when nothing
// overrides them.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 30 * time.Second,
	}
}

// OpenAIGenerator calls an OpenAI-style chat-completions endpoint. Requests
// go through a circuit breaker so a struggling endpoint fails fast into the
// caller's fallback path.
type OpenAIGenerator struct {
	cfg     OpenAIConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	log     *zap.Logger
}

// NewOpenAIGenerator wires a generator for the configured endpoint.
func NewOpenAIGenerator(cfg OpenAIConfig, log *zap.Logger) *OpenAIGenerator {
	defaults := DefaultOpenAIConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &OpenAIGenerator{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "narrative",
			MaxRequests: 1,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		log: log,
	}
}

// Narrative produces an executive summary for one page.
func (g *OpenAIGenerator) Narrative(ctx context.Context, facts Facts) (string, error) {
	payload, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("encode facts: %w", err)
	}
	return g.complete(ctx, narrativeSystemPrompt,
		"Analyze this company page data:\n"+string(payload))
}

// Comparison produces a comparative summary across pages.
func (g *OpenAIGenerator) Comparison(ctx context.Context, facts []Facts) (string, error) {
	payload, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("encode facts: %w", err)
	}
	return g.complete(ctx, comparisonSystemPrompt,
		"Compare these company pages:\n"+string(payload))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	req.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	return g.breaker.Execute(func() (string, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := g.http.Do(httpReq)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("generator status %d", resp.StatusCode)
		}

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}

		var chat chatResponse
		if err := json.Unmarshal(respBody, &chat); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(chat.Choices) == 0 {
			return "", fmt.Errorf("generator returned no choices")
		}

		var answer struct {
			Summary string `json:"summary"`
		}
		if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &answer); err != nil {
			return "", fmt.Errorf("decode answer: %w", err)
		}
		if answer.Summary == "" {
			return "", fmt.Errorf("generator returned an empty summary")
		}
		return answer.Summary, nil
	})
}
