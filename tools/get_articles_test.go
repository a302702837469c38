package tools_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/petasbytes/youtrack-kb-agent/tools"
)

const articlesBody = `[{"id":"226-0","summary":"a"},{"id":"226-1","summary":"b","tags":[{"name":"howto"}]}]`

func TestGetArticles_GlobalListing(t *testing.T) {
	fake := &fakeGetter{body: []byte(articlesBody)}
	ts := tools.NewWithTransport(fake)

	out := callTool(t, ts, "get_articles", tools.GetArticlesInput{})

	if fake.resource != "articles" {
		t.Fatalf("resource: got %q want articles", fake.resource)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("payload is not a JSON array: %v\n%s", err, out)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for i, item := range items {
		if _, ok := item["id"]; !ok {
			t.Fatalf("element %d has no id: %v", i, item)
		}
	}
}

func TestGetArticles_ProjectScopedListing(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	callTool(t, ts, "get_articles", tools.GetArticlesInput{ProjectID: "DEMO"})

	if fake.resource != "admin/projects/DEMO/articles" {
		t.Fatalf("resource: got %q want project-scoped path", fake.resource)
	}
}

func TestGetArticles_DefaultPaging(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	callTool(t, ts, "get_articles", tools.GetArticlesInput{})

	if got := fake.params.Get("$top"); got != "20" {
		t.Fatalf("$top: got %q want default 20", got)
	}
	if _, ok := fake.params["$skip"]; ok {
		t.Fatal("$skip must be absent when skip is 0")
	}
}

func TestGetArticles_ExplicitPaging(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	callTool(t, ts, "get_articles", tools.GetArticlesInput{Limit: 5, Skip: 10})

	if got := fake.params.Get("$top"); got != "5" {
		t.Fatalf("$top: got %q want 5", got)
	}
	if got := fake.params.Get("$skip"); got != "10" {
		t.Fatalf("$skip: got %q want 10", got)
	}
}

func TestGetArticles_DefaultFieldsOmitContent(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	callTool(t, ts, "get_articles", tools.GetArticlesInput{})

	if fields := fake.params.Get("fields"); strings.Contains(fields, "content") {
		t.Fatalf("listing default must omit content: %q", fields)
	}
}

func TestGetArticles_FieldsPassthrough(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	callTool(t, ts, "get_articles", tools.GetArticlesInput{Fields: "id,idReadable"})

	if fields := fake.params.Get("fields"); fields != "id,idReadable" {
		t.Fatalf("fields passthrough lost: %q", fields)
	}
}

func TestGetArticles_EmptyListingIsArray(t *testing.T) {
	fake := &fakeGetter{body: []byte(`[]`)}
	ts := tools.NewWithTransport(fake)

	out := callTool(t, ts, "get_articles", tools.GetArticlesInput{})
	if out != "[]" {
		t.Fatalf("empty listing must serialize as []: %q", out)
	}
}

func TestGetArticles_TransportErrorBecomesPayload(t *testing.T) {
	fake := &fakeGetter{err: fmt.Errorf("connection refused")}
	ts := tools.NewWithTransport(fake)

	out := callTool(t, ts, "get_articles", tools.GetArticlesInput{})
	if msg := errorOf(t, out); !strings.Contains(msg, "connection refused") {
		t.Fatalf("error payload should carry the cause: %q", msg)
	}
}

func TestGetArticles_BadInputBecomesPayload(t *testing.T) {
	ts := tools.NewWithTransport(&fakeGetter{body: []byte(`[]`)})

	out, err := findTool(t, ts, "get_articles").Function(json.RawMessage(`{"limit": "twenty"}`))
	if err != nil {
		t.Fatalf("article tools must not return errors, got: %v", err)
	}
	if msg := errorOf(t, out); !strings.Contains(msg, "invalid input") {
		t.Fatalf("expected invalid input payload, got %q", msg)
	}
}

func TestGetArticles_ExtraAttributesSurviveToPayload(t *testing.T) {
	fake := &fakeGetter{body: []byte(articlesBody)}
	ts := tools.NewWithTransport(fake)

	out := callTool(t, ts, "get_articles", tools.GetArticlesInput{})
	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := items[1]["tags"]; !ok {
		t.Fatalf("unmodeled attribute dropped from payload: %v", items[1])
	}
}
