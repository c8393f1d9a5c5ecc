// Package agent hosts the capability registry and the reasoning loop that
// lets an external language model drive warehouse operations.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/agent/llm"
	"github.com/rs/zerolog/log"
)

const defaultMaxSteps = 6

// Dispatcher runs a tool-selection loop: the model is shown the capability
// listing, picks one per turn, and observations are fed back until it answers.
type Dispatcher struct {
	llm      llm.Client
	registry *Registry
	maxSteps int
}

func NewDispatcher(client llm.Client, registry *Registry, maxSteps int) *Dispatcher {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &Dispatcher{llm: client, registry: registry, maxSteps: maxSteps}
}

// action is the one-object-per-turn protocol the model is instructed to follow.
type action struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Answer string `json:"answer"`
}

// Ask answers one free-text request, invoking at most maxSteps capabilities.
func (d *Dispatcher) Ask(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}

	messages := []llm.ChatMessage{
		{Role: "system", Content: d.systemPrompt()},
		{Role: "user", Content: prompt},
	}

	for step := 0; step < d.maxSteps; step++ {
		reply, err := d.llm.Chat(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("reasoning model call failed: %w", err)
		}

		act, err := parseAction(reply)
		if err != nil {
			// Treat an unparseable reply as the final answer; models sometimes
			// skip the protocol for trivial questions.
			return strings.TrimSpace(reply), nil
		}

		if act.Answer != "" {
			return act.Answer, nil
		}

		observation := d.invoke(ctx, act)
		log.Debug().Str("tool", act.Tool).Int("step", step).Msg("capability invoked")

		messages = append(messages,
			llm.ChatMessage{Role: "assistant", Content: reply},
			llm.ChatMessage{Role: "user", Content: "Observation: " + observation},
		)
	}

	return "", fmt.Errorf("no answer after %d reasoning steps", d.maxSteps)
}

func (d *Dispatcher) invoke(ctx context.Context, act action) string {
	capability, ok := d.registry.Get(act.Tool)
	if !ok {
		return fmt.Sprintf("unknown tool %q; available tools: %s",
			act.Tool, strings.Join(d.registry.Names(), ", "))
	}

	result, err := capability.Run(ctx, act.Input)
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", act.Tool, err)
	}
	return result
}

func (d *Dispatcher) systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a warehouse operations assistant. ")
	sb.WriteString("You can call the following tools:\n")
	for _, c := range d.registry.List() {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Description)
	}
	sb.WriteString("\nRespond with exactly one JSON object per turn. ")
	sb.WriteString(`To call a tool: {"tool": "<name>", "input": "<input string>"}. `)
	sb.WriteString(`To finish: {"answer": "<your answer>"}. `)
	sb.WriteString("Do not include any other text.")
	return sb.String()
}

// parseAction extracts the protocol object from a model reply, tolerating
// code fences and surrounding prose.
func parseAction(reply string) (action, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return action{}, fmt.Errorf("no JSON object in reply")
	}

	var act action
	if err := json.Unmarshal([]byte(reply[start:end+1]), &act); err != nil {
		return action{}, fmt.Errorf("malformed action object: %w", err)
	}
	if act.Tool == "" && act.Answer == "" {
		return action{}, fmt.Errorf("action names neither a tool nor an answer")
	}
	return act, nil
}
