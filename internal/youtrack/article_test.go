package youtrack_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/petasbytes/youtrack-kb-agent/internal/youtrack"
)

func TestParseArticle_TypedFields(t *testing.T) {
	data := []byte(`{
		"id": "226-0",
		"idReadable": "NP-A-1",
		"summary": "Getting started",
		"content": "body text",
		"project": {"id": "0-0", "shortName": "NP"},
		"reporter": {"id": "1-1", "login": "root", "name": "Root"},
		"created": 1714000000000,
		"updated": 1714100000000,
		"hasChildren": true,
		"hasStar": false
	}`)

	a, err := youtrack.ParseArticle(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.ID != "226-0" || a.IDReadable != "NP-A-1" || a.Summary != "Getting started" || a.Content != "body text" {
		t.Fatalf("unexpected typed fields: %+v", a)
	}
	if a.Project["shortName"] != "NP" || a.Reporter["login"] != "root" {
		t.Fatalf("unexpected associations: project=%v reporter=%v", a.Project, a.Reporter)
	}
	if a.Created != 1714000000000 || a.Updated != 1714100000000 {
		t.Fatalf("unexpected timestamps: %d %d", a.Created, a.Updated)
	}
	if !a.HasChildren || a.HasStar {
		t.Fatalf("unexpected booleans: %+v", a)
	}
	if len(a.Extra) != 0 {
		t.Fatalf("expected no extra attributes, got %v", a.Extra)
	}
}

func TestParseArticle_MissingID(t *testing.T) {
	_, err := youtrack.ParseArticle([]byte(`{"summary": "no id"}`))
	if err == nil || !strings.Contains(err.Error(), "no id") {
		t.Fatalf("expected missing-id error, got %v", err)
	}
}

func TestParseArticle_WrongIDType(t *testing.T) {
	_, err := youtrack.ParseArticle([]byte(`{"id": 42}`))
	if err == nil {
		t.Fatal("expected type error for numeric id")
	}
}

func TestParseArticle_NotAnObject(t *testing.T) {
	_, err := youtrack.ParseArticle([]byte(`[1,2]`))
	if err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestParseArticle_NullsTreatedAsAbsent(t *testing.T) {
	a, err := youtrack.ParseArticle([]byte(`{"id": "1-1", "summary": null, "project": null}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Summary != "" || a.Project != nil {
		t.Fatalf("null fields should stay zero: %+v", a)
	}
}

func TestParseArticle_ExtraAttributesKept(t *testing.T) {
	data := []byte(`{"id": "226-0", "tags": [{"name": "howto"}], "visibility": {"$type": "UnlimitedVisibility"}}`)
	a, err := youtrack.ParseArticle(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := a.Extra["tags"]; !ok {
		t.Fatalf("tags missing from Extra: %v", a.Extra)
	}
	if _, ok := a.Extra["visibility"]; !ok {
		t.Fatalf("visibility missing from Extra: %v", a.Extra)
	}
}

func TestArticle_RoundTripPreservesUnmodeledAttributes(t *testing.T) {
	data := []byte(`{"id":"226-0","summary":"s","tags":[{"name":"howto"}],"attachments":[],"ordinal":3}`)

	var a youtrack.Article
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var want bytes.Buffer
	if err := json.Compact(&want, data); err != nil {
		t.Fatalf("compact: %v", err)
	}
	if string(out) != want.String() {
		t.Fatalf("round trip changed the payload:\n got %s\nwant %s", out, want.String())
	}
}

func TestArticle_MarshalHandConstructed(t *testing.T) {
	a := youtrack.Article{
		ID:      "1-2",
		Summary: "hand made",
		Extra:   map[string]json.RawMessage{"ordinal": json.RawMessage(`7`)},
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["id"] != "1-2" || m["summary"] != "hand made" || m["ordinal"] != float64(7) {
		t.Fatalf("unexpected payload: %v", m)
	}
	if _, ok := m["content"]; ok {
		t.Fatalf("unset fields should be omitted: %v", m)
	}
}
