package llm

import (
	"context"
	"strings"
)

const systemPreamble = `You are an assistant managing a workforce schedule.
You can either:
(1) Answer questions based on the given table; or
(2) Output a STRICT JSON object to modify configuration.
Use DOUBLE QUOTES for JSON keys and values.
Examples:
{"type":"update_staff","staff_name":"Staff 3","field":"Staff Cost","value":90}
{"type":"update_demand","day":"Fri","value":2}
{"type":"update_demand_delta","day":"Fri","delta":-1}

Here is the current schedule:
`

// SystemPrompt embeds the schedule table (CSV) in the assistant instructions
func SystemPrompt(scheduleCSV string) string {
	return systemPreamble + scheduleCSV
}

// Assistant adapts a Client to the instruction pipeline
type Assistant struct {
	client Client
	model  string
}

// NewAssistant wraps client. An empty model leaves the client's default in place.
func NewAssistant(client Client, model string) *Assistant {
	return &Assistant{client: client, model: model}
}

// Generate asks the service to answer or restate the operator's request
func (a *Assistant) Generate(ctx context.Context, userText, scheduleCSV string) (string, error) {
	resp, err := a.client.Chat(ctx, ChatRequest{
		Model: a.model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt(scheduleCSV)},
			{Role: "user", Content: userText},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
