package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/agent/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM plays back canned replies and records what it was shown.
type scriptedLLM struct {
	replies  []string
	seen     [][]llm.ChatMessage
	repeated string
}

func (s *scriptedLLM) Chat(_ context.Context, messages []llm.ChatMessage) (string, error) {
	s.seen = append(s.seen, append([]llm.ChatMessage(nil), messages...))
	if len(s.replies) == 0 {
		return s.repeated, nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func echoRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(Capability{
		Name:        "echo",
		Description: "echoes its input",
		Run: func(_ context.Context, input string) (string, error) {
			return "echoed " + input, nil
		},
	}))
	require.NoError(t, r.Register(Capability{
		Name:        "boom",
		Description: "always fails",
		Run: func(_ context.Context, _ string) (string, error) {
			return "", fmt.Errorf("store unavailable")
		},
	}))
	return r
}

func TestAskToolThenAnswer(t *testing.T) {
	model := &scriptedLLM{replies: []string{
		`{"tool": "echo", "input": "hi"}`,
		`{"answer": "all done"}`,
	}}
	d := NewDispatcher(model, echoRegistry(t), 4)

	answer, err := d.Ask(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "all done", answer)

	// The second call must carry the tool observation back to the model.
	require.Len(t, model.seen, 2)
	last := model.seen[1][len(model.seen[1])-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "Observation: echoed hi", last.Content)
}

func TestAskUnknownToolIsObserved(t *testing.T) {
	model := &scriptedLLM{replies: []string{
		`{"tool": "teleport", "input": "x"}`,
		`{"answer": "ok"}`,
	}}
	d := NewDispatcher(model, echoRegistry(t), 4)

	_, err := d.Ask(context.Background(), "q")
	require.NoError(t, err)

	last := model.seen[1][len(model.seen[1])-1]
	assert.Contains(t, last.Content, `unknown tool "teleport"`)
	assert.Contains(t, last.Content, "echo")
}

func TestAskToolErrorIsObservedNotFatal(t *testing.T) {
	model := &scriptedLLM{replies: []string{
		`{"tool": "boom", "input": ""}`,
		`{"answer": "could not reach the warehouse"}`,
	}}
	d := NewDispatcher(model, echoRegistry(t), 4)

	answer, err := d.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "could not reach the warehouse", answer)

	last := model.seen[1][len(model.seen[1])-1]
	assert.Contains(t, last.Content, "tool boom failed")
}

func TestAskStepBudgetExhausted(t *testing.T) {
	model := &scriptedLLM{repeated: `{"tool": "echo", "input": "again"}`}
	d := NewDispatcher(model, echoRegistry(t), 3)

	_, err := d.Ask(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 reasoning steps")
	assert.Len(t, model.seen, 3)
}

func TestAskPlainTextReplyIsTheAnswer(t *testing.T) {
	model := &scriptedLLM{replies: []string{"Just a plain sentence."}}
	d := NewDispatcher(model, echoRegistry(t), 4)

	answer, err := d.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Just a plain sentence.", answer)
}

func TestAskEmptyPromptRejected(t *testing.T) {
	d := NewDispatcher(&scriptedLLM{}, echoRegistry(t), 4)
	_, err := d.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestParseActionToleratesFences(t *testing.T) {
	act, err := parseAction("```json\n{\"tool\": \"echo\", \"input\": \"x\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "echo", act.Tool)
	assert.Equal(t, "x", act.Input)

	_, err = parseAction("{}")
	assert.Error(t, err, "an object naming neither tool nor answer is invalid")
}

func TestSystemPromptListsCapabilities(t *testing.T) {
	d := NewDispatcher(&scriptedLLM{}, echoRegistry(t), 4)
	prompt := d.systemPrompt()
	assert.Contains(t, prompt, "- echo: echoes its input")
	assert.Contains(t, prompt, "- boom: always fails")
}
