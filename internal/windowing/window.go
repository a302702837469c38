// Package windowing prepares budgeted send windows over a conversation.
//
// Invariant: an assistant message whose tool_use blocks are answered by the
// immediately following user message is one atomic group; it is included or
// skipped whole, so tool_use and tool_result never get separated.
package windowing

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// blockOverhead is a fixed per-block cost added to the rune heuristic to
// account for minimal formatting.
const blockOverhead = 4

// Group is a contiguous span [Start, End) of messages sent or skipped whole.
type Group struct {
	Start, End int
}

// Stats summarizes a prepared window.
type Stats struct {
	Budget           int
	Estimated        int // estimated cost of included groups only
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool // the newest group alone exceeds the budget
}

// GroupMessages splits msgs into atomic groups, pairing an assistant
// tool_use message with the user tool_result message that answers it.
func GroupMessages(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		if i+1 < len(msgs) && answersToolUses(msgs[i], msgs[i+1]) {
			groups = append(groups, Group{Start: i, End: i + 2})
			i += 2
			continue
		}
		groups = append(groups, Group{Start: i, End: i + 1})
		i++
	}
	return groups
}

// answersToolUses reports whether user is the tool_result message for
// assistant: every tool_use id answered, no extra results, and all
// tool_result blocks leading the user message.
func answersToolUses(assistant, user anthropic.MessageParam) bool {
	if assistant.Role != anthropic.MessageParamRoleAssistant || user.Role != anthropic.MessageParamRoleUser {
		return false
	}
	uses := map[string]bool{}
	for _, blk := range assistant.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			uses[tu.ID] = true
		}
	}
	if len(uses) == 0 {
		return false
	}

	answered := map[string]bool{}
	leading := true
	for _, blk := range user.Content {
		tr := blk.OfToolResult
		if tr == nil {
			leading = false
			continue
		}
		if !leading || !uses[tr.ToolUseID] {
			return false
		}
		answered[tr.ToolUseID] = true
	}
	return len(answered) == len(uses)
}

// EstimateMessage is a deterministic rune-count estimator: text block runes
// plus a fixed overhead per block; nested tool_result text counts too.
func EstimateMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += blockOverhead
		if tb := blk.OfText; tb != nil {
			total += utf8.RuneCountInString(tb.Text)
			continue
		}
		if tr := blk.OfToolResult; tr != nil {
			for _, nb := range tr.Content {
				if nt := nb.OfText; nt != nil {
					total += utf8.RuneCountInString(nt.Text)
				}
			}
		}
	}
	return total
}

// Prepare returns the newest suffix of msgs that fits within budget without
// splitting groups, walking groups newest to oldest.
func Prepare(msgs []anthropic.MessageParam, budget int) ([]anthropic.MessageParam, Stats) {
	stats := Stats{Budget: budget}
	if len(msgs) == 0 {
		return nil, stats
	}

	groups := GroupMessages(msgs)
	stats.SkippedGroups = len(groups)
	if budget <= 0 {
		stats.OverBudgetNewest = true
		return nil, stats
	}

	total := 0
	start := len(groups) // index of the oldest included group
	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := 0
		for i := groups[gi].Start; i < groups[gi].End; i++ {
			cost += EstimateMessage(msgs[i])
		}
		if total+cost > budget {
			break
		}
		total += cost
		start = gi
	}

	if start == len(groups) {
		stats.OverBudgetNewest = true
		return nil, stats
	}
	stats.Estimated = total
	stats.IncludedGroups = len(groups) - start
	stats.SkippedGroups = start
	return msgs[groups[start].Start:], stats
}
