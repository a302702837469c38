// Package runner coordinates message exchange with the Anthropic Messages
// API and dispatches tool calls.
//
// Invariant: tool_use and the corresponding tool_result stay adjacent within
// a turn.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/youtrack-kb-agent/internal/telemetry"
	"github.com/petasbytes/youtrack-kb-agent/internal/windowing"
	"github.com/petasbytes/youtrack-kb-agent/tools"
)

const maxResponseTokens = 1024

type Runner struct {
	Client *anthropic.Client
	Tools  []tools.ToolDefinition
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition) *Runner {
	return &Runner{Client: client, Tools: toolDefs}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep sends the budgeted window of conv, prints text blocks and
// returns tool results to append to the conversation.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	v := os.Getenv("AGT_TOKEN_BUDGET")
	if v == "" {
		return nil, nil, fmt.Errorf("AGT_TOKEN_BUDGET not set; export it then try again")
	}
	budget, err := strconv.Atoi(v)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid AGT_TOKEN_BUDGET %q: %w", v, err)
	}

	window, stats := windowing.Prepare(conv, budget)

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
	}
	ctx = telemetry.WithTurnID(ctx, turnID)

	telemetry.Emit("send_window", map[string]any{
		"turn_id":            turnID,
		"model":              string(model),
		"budget":             stats.Budget,
		"estimated":          stats.Estimated,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})

	// With capped tool payloads the newest group should always fit; failing
	// fast here beats silently dropping the user's latest message.
	if stats.OverBudgetNewest {
		return nil, nil, fmt.Errorf("windowing: newest group exceeds AGT_TOKEN_BUDGET; increase the budget")
	}

	msg, err := r.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxResponseTokens),
		Messages:  window,
		Tools:     r.anthropicTools(),
	})
	if err != nil {
		return nil, nil, err
	}

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Printf("\u001b[93mClaude\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return msg, toolResults, nil
}

// execTool dispatches one tool call. The handler runs on its own goroutine
// and is awaited under ctx, so a blocking HTTP call inside a tool can never
// stall the dispatch loop; on cancellation the call still runs to
// completion, only the wait stops.
func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	emit := func(start time.Time, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(input),
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	if def == nil {
		emit(start, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		text, err := def.Function(input)
		ch <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		emit(start, 0, "context done")
		return anthropic.NewToolResultBlock(id, "canceled: "+ctx.Err().Error(), true)
	case out := <-ch:
		if out.err != nil {
			// Generic error string in telemetry; the detailed message goes
			// back to the model only.
			emit(start, 0, "tool error")
			return anthropic.NewToolResultBlock(id, out.err.Error(), true)
		}
		emit(start, len(out.text), "")
		telemetry.EmitPayloadFeatures(turnID, name, out.text)
		return anthropic.NewToolResultBlock(id, out.text, false)
	}
}
