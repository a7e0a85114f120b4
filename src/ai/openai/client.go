package openai

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
	core.RegisterProvider("openai", newClient, "gpt")
}

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	return &client{
		apiKey:     cfg.OpenAIKey,
		endpoint:   defaultEndpoint,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature:         orFloat(cfg.Temperature, 1),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 4000),
		},
	}, nil
}

func (c *client) Chat(ctx context.Context, req core.ChatRequest) (core.ChatResponse, error) {
	merged := c.merge(req.Options)

	payload := map[string]interface{}{
		"model":                 merged.Model,
		"messages":              encodeMessages(req.Messages),
		"temperature":           merged.Temperature,
		"max_completion_tokens": merged.MaxCompletionTokens,
	}
	if len(req.Tools) > 0 {
		payload["tools"] = encodeTools(req.Tools)
		choice := req.ToolChoice
		if choice == "" {
			choice = "auto"
		}
		payload["tool_choice"] = choice
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
			return resp.StatusCode, b, apiError(resp.StatusCode, b)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return core.ChatResponse{}, fmt.Errorf("openai: %w", err)
	}

	var result chatCompletion
	if err := json.Unmarshal(body, &result); err != nil {
		return core.ChatResponse{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.ChatResponse{}, fmt.Errorf("openai: no choices in response")
	}

	msg := result.Choices[0].Message
	out := core.ChatResponse{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
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

func encodeMessages(msgs []core.Message) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(msgs))
	for _, m := range msgs {
		entry := map[string]interface{}{
			"role":    m.Role,
			"content": m.Content,
		}
		if len(m.ToolCalls) > 0 {
			calls := make([]map[string]interface{}, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, map[string]interface{}{
					"id":   tc.ID,
					"type": "function",
					"function": map[string]interface{}{
						"name":      tc.Name,
						"arguments": tc.Arguments,
					},
				})
			}
			entry["tool_calls"] = calls
		}
		if m.ToolCallID != "" {
			entry["tool_call_id"] = m.ToolCallID
		}
		out = append(out, entry)
	}
	return out
}

func encodeTools(tools []core.ToolSpec) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		funcDef := map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
		}
		if t.Parameters != nil {
			funcDef["parameters"] = t.Parameters
		}
		out = append(out, map[string]interface{}{
			"type":     "function",
			"function": funcDef,
		})
	}
	return out
}

func apiError(status int, body []byte) error {
	var errorResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
		return fmt.Errorf("OpenAI API error: %s (type: %s, code: %s)",
			errorResp.Error.Message, errorResp.Error.Type, errorResp.Error.Code)
	}
	return fmt.Errorf("status %d", status)
}

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
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
