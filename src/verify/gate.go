package verify

import (
	"context"
	"fmt"
	"log"

	"github.com/aletheia-labs/aletheia/src/ai/core"
)

// Gate is the cheap pre-filter deciding whether input is fact-checkable at
// all, short-circuiting the expensive agent pipeline for conversational or
// non-substantive messages.
type Gate struct {
	client core.Client
	model  string
}

// NewGate returns a gate backed by the given model client. An empty model
// uses the provider's default.
func NewGate(client core.Client, model string) *Gate {
	return &Gate{client: client, model: model}
}

// Check classifies text as news/claim vs. conversational. It fails OPEN: any
// request or parse failure reports is_news=true, so ambiguous input is never
// silently skipped. One extra pipeline run is cheaper than a missed claim.
func (g *Gate) Check(ctx context.Context, text string) GateResult {
	resp, err := g.client.Chat(ctx, core.ChatRequest{
		Messages: []core.Message{
			{Role: "user", Content: fmt.Sprintf(gatePrompt, text)},
		},
		Options: core.Options{Model: g.model, Temperature: 0.1},
	})
	if err != nil {
		log.Printf("gate: classification request failed: %v", err)
		return failOpen()
	}

	parsed, err := ExtractJSON(resp.Content)
	if err != nil {
		log.Printf("gate: unparseable classification reply: %v", err)
		return failOpen()
	}

	return GateResult{
		IsNews: boolField(parsed, "is_news", true),
		Reason: stringField(parsed, "reason", ""),
	}
}

func failOpen() GateResult {
	return GateResult{IsNews: true, Reason: "Could not determine, treating as potential news"}
}
