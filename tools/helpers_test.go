package tools_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/petasbytes/youtrack-kb-agent/tools"
)

// fakeGetter records requests and plays back a canned response or error.
type fakeGetter struct {
	resource string
	params   url.Values
	calls    int
	body     []byte
	err      error
}

func (f *fakeGetter) Get(_ context.Context, resource string, params url.Values) ([]byte, error) {
	f.calls++
	f.resource = resource
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

// closableGetter additionally records Close calls.
type closableGetter struct {
	fakeGetter
	closed   int
	closeErr error
}

func (c *closableGetter) Close() error {
	c.closed++
	return c.closeErr
}

func findTool(t *testing.T, ts *tools.Toolset, name string) tools.ToolDefinition {
	t.Helper()
	for _, d := range ts.Definitions() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("tool %q not in definitions", name)
	return tools.ToolDefinition{}
}

// callTool invokes a tool with the given input struct and asserts the
// never-raises contract before returning the payload.
func callTool(t *testing.T, ts *tools.Toolset, name string, input any) string {
	t.Helper()
	b, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	out, err := findTool(t, ts, name).Function(b)
	if err != nil {
		t.Fatalf("article tools must not return errors, got: %v", err)
	}
	return out
}

// errorOf decodes an {"error": ...} payload; fails when the payload is not
// an error object.
func errorOf(t *testing.T, payload string) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("payload is not a JSON object: %q", payload)
	}
	msg, ok := m["error"]
	if !ok {
		t.Fatalf("payload has no error key: %q", payload)
	}
	return msg
}
