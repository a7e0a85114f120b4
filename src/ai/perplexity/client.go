package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aletheia-labs/aletheia/src/ai/core"
	"github.com/aletheia-labs/aletheia/src/webclient"
)

func init() {
	core.RegisterProvider("perplexity", newClient, "sonar")
}

const defaultEndpoint = "https://api.perplexity.ai/chat/completions"

// client is a search-grounded binding: every completion is answered against
// live web results and carries citations. It ignores function-tool schemas,
// so an agent driving it terminates on the first round-trip.
type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.PerplexityKey == "" {
		return nil, fmt.Errorf("perplexity: API key not configured")
	}

	return &client{
		apiKey:     cfg.PerplexityKey,
		endpoint:   defaultEndpoint,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "sonar"),
			Temperature:         orFloat(cfg.Temperature, 0.1),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 1000),
		},
	}, nil
}

func (c *client) Chat(ctx context.Context, req core.ChatRequest) (core.ChatResponse, error) {
	merged := c.merge(req.Options)

	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		// Tool turns have no meaning here; fold them into user context.
		role := m.Role
		if role == "tool" {
			role = "user"
		}
		messages = append(messages, map[string]string{"role": role, "content": m.Content})
	}

	payload := map[string]interface{}{
		"model":       merged.Model,
		"messages":    messages,
		"temperature": merged.Temperature,
		"max_tokens":  merged.MaxCompletionTokens,
	}

	bodyBytes, _ := json.Marshal(payload)
	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return core.ChatResponse{}, fmt.Errorf("perplexity: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return core.ChatResponse{}, fmt.Errorf("perplexity: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.ChatResponse{}, fmt.Errorf("perplexity: no choices in response")
	}

	return core.ChatResponse{
		Content:   result.Choices[0].Message.Content,
		Citations: result.Citations,
	}, nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	return out
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
