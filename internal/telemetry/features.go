package telemetry

import (
	"strings"
	"unicode/utf8"
)

// Features are cheap local size measures of a text payload, used to track
// tool output growth without persisting the payload itself.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word and line counts for s.
func CountFeatures(s string) Features {
	lines := 0
	if s != "" {
		lines = 1 + strings.Count(s, "\n")
	}
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: lines,
	}
}

// EmitPayloadFeatures emits the feature counts of one tool payload.
func EmitPayloadFeatures(turnID, tool, payload string) {
	if !ObserveEnabled() {
		return
	}
	f := CountFeatures(payload)
	Emit("payload_features", map[string]any{
		"turn_id":   turnID,
		"tool_name": tool,
		"bytes":     f.Bytes,
		"runes":     f.Runes,
		"words":     f.Words,
		"lines":     f.Lines,
	})
}
