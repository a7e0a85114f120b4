package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aletheia-labs/aletheia/src/ai/core"
	"github.com/aletheia-labs/aletheia/src/logging"
	"github.com/aletheia-labs/aletheia/src/search"
)

const (
	defaultMaxIterations = 10
	defaultMaxResults    = 5
	maxToolPayload       = 8 * 1024
)

// Searcher executes the three search tools the agent may request.
// *search.Client satisfies it; tests substitute stubs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []search.Result
	FactCheck(ctx context.Context, claim string, maxResults int) []search.Result
	News(ctx context.Context, topic string, maxResults int) []search.Result
}

// Agent drives the iterative tool-use loop: send the conversation with the
// declared tool schema, execute requested searches, feed results back, and
// repeat until the model answers without tools or the iteration cap is hit.
type Agent struct {
	client        core.Client
	searcher      Searcher
	maxIterations int
	maxResults    int
}

// NewAgent constructs an agent with the default iteration cap.
func NewAgent(client core.Client, searcher Searcher) *Agent {
	return &Agent{
		client:        client,
		searcher:      searcher,
		maxIterations: defaultMaxIterations,
		maxResults:    defaultMaxResults,
	}
}

// WithMaxIterations overrides the round-trip cap. Values below 1 are ignored.
func (a *Agent) WithMaxIterations(n int) *Agent {
	if n >= 1 {
		a.maxIterations = n
	}
	return a
}

// Answer is the agent loop's terminal output: the model's final raw text
// plus any citations a search-grounded provider attached along the way.
type Answer struct {
	Text      string
	Citations []string
}

// Analyze runs the loop for one claim and returns the model's final raw
// answer. The conversation grows monotonically; tool-call requests are
// recorded verbatim and every tool turn is keyed to its call id, because the
// model's next round depends on exact correlation. Hitting the iteration cap
// is not an error: the last assistant text is returned for best-effort
// extraction.
func (a *Agent) Analyze(ctx context.Context, text string) (Answer, error) {
	messages := []core.Message{
		{Role: "system", Content: agentSystemPrompt},
		{Role: "user", Content: "Please analyze the following text for misinformation:\n\n" + text},
	}

	var answer Answer
	for iteration := 0; iteration < a.maxIterations; iteration++ {
		resp, err := a.client.Chat(ctx, core.ChatRequest{
			Messages:   messages,
			Tools:      toolSchema(),
			ToolChoice: "auto",
		})
		if err != nil {
			return Answer{}, fmt.Errorf("agent: model round-trip %d: %w", iteration+1, err)
		}

		answer.Text = resp.Content
		answer.Citations = append(answer.Citations, resp.Citations...)
		messages = append(messages, core.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			return answer, nil
		}

		for _, call := range resp.ToolCalls {
			log.Printf("agent: tool call %s args=%s", call.Name, logging.Truncate(call.Arguments, 256))
			payload := a.executeTool(ctx, call)
			messages = append(messages, core.Message{
				Role:       "tool",
				Content:    payload,
				ToolCallID: call.ID,
			})
		}
	}

	log.Printf("agent: iteration cap (%d) reached, salvaging last response", a.maxIterations)
	return answer, nil
}

// executeTool dispatches one tool call and serializes its results. The
// dispatch table is closed; a hallucinated tool name becomes an inline error
// payload fed back to the model rather than an aborted loop.
func (a *Agent) executeTool(ctx context.Context, call core.ToolCall) string {
	args, err := decodeArguments(call.Arguments)
	if err != nil {
		return fmt.Sprintf(`{"error":"invalid tool arguments: %v"}`, err)
	}

	var results []search.Result
	switch call.Name {
	case "general_search":
		results = a.searcher.Search(ctx, args["query"], a.maxResults)
	case "news_search":
		results = a.searcher.News(ctx, args["query"], a.maxResults)
	case "fact_check_search":
		results = a.searcher.FactCheck(ctx, args["claim"], a.maxResults)
	default:
		return fmt.Sprintf(`{"error":"unknown tool: %s"}`, call.Name)
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to serialize results: %v"}`, err)
	}
	if len(payload) > maxToolPayload {
		payload = payload[:maxToolPayload]
	}
	return string(payload)
}

func decodeArguments(raw string) (map[string]string, error) {
	out := map[string]string{}
	if raw == "" {
		return out, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	for k, v := range parsed {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}

func toolSchema() []core.ToolSpec {
	queryParams := func(name, desc string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				name: map[string]any{
					"type":        "string",
					"description": desc,
				},
			},
			"required": []string{name},
		}
	}

	return []core.ToolSpec{
		{
			Name:        "general_search",
			Description: "Search the web for general information. Use this to find facts, verify claims, or get context about a topic.",
			Parameters:  queryParams("query", "The search query to look up"),
		},
		{
			Name:        "news_search",
			Description: "Search for recent news articles. Use this to find recent news coverage and verify if a news story is being reported by credible sources.",
			Parameters:  queryParams("query", "The news topic or claim to search for"),
		},
		{
			Name:        "fact_check_search",
			Description: "Search for fact-checks from reputable fact-checking organizations. Use this to see if a claim has already been verified or debunked.",
			Parameters:  queryParams("claim", "The specific claim to fact-check"),
		},
	}
}
