package youtrack

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Article is one knowledge-base entry as returned by the API. The attribute
// set is open-ended: the caller-controlled fields parameter decides what the
// server sends, so anything without a typed field below lands in Extra and
// survives re-serialization unchanged.
type Article struct {
	ID          string
	IDReadable  string
	Summary     string
	Content     string
	Project     map[string]any
	Reporter    map[string]any
	UpdatedBy   map[string]any
	Created     int64 // epoch milliseconds
	Updated     int64 // epoch milliseconds
	HasChildren bool
	HasStar     bool

	// Extra holds response attributes with no typed field, keyed by
	// attribute name, values as raw JSON.
	Extra map[string]json.RawMessage

	// raw is the original response object; when present it is the
	// serialized form, so round trips are exact.
	raw json.RawMessage
}

// ParseArticle validates one response object into an Article. The only hard
// requirement is a non-empty string id; typed fields are type-checked, nulls
// are treated as absent, and unknown attributes are kept.
func ParseArticle(data []byte) (Article, error) {
	if !gjson.ValidBytes(data) {
		return Article{}, fmt.Errorf("article: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return Article{}, fmt.Errorf("article: expected JSON object, got %s", res.Type)
	}

	a := Article{raw: append(json.RawMessage(nil), data...)}
	var ferr error
	bad := func(key string, v gjson.Result) {
		if ferr == nil {
			ferr = fmt.Errorf("article: attribute %q has unexpected type %s", key, v.Type)
		}
	}

	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Null {
			return true
		}
		switch key.Str {
		case "id":
			if value.Type != gjson.String {
				bad("id", value)
				return true
			}
			a.ID = value.Str
		case "idReadable":
			if value.Type != gjson.String {
				bad("idReadable", value)
				return true
			}
			a.IDReadable = value.Str
		case "summary":
			if value.Type != gjson.String {
				bad("summary", value)
				return true
			}
			a.Summary = value.Str
		case "content":
			if value.Type != gjson.String {
				bad("content", value)
				return true
			}
			a.Content = value.Str
		case "project", "reporter", "updatedBy":
			if !value.IsObject() {
				bad(key.Str, value)
				return true
			}
			m := map[string]any{}
			if err := json.Unmarshal([]byte(value.Raw), &m); err != nil {
				bad(key.Str, value)
				return true
			}
			switch key.Str {
			case "project":
				a.Project = m
			case "reporter":
				a.Reporter = m
			case "updatedBy":
				a.UpdatedBy = m
			}
		case "created", "updated":
			if value.Type != gjson.Number {
				bad(key.Str, value)
				return true
			}
			if key.Str == "created" {
				a.Created = value.Int()
			} else {
				a.Updated = value.Int()
			}
		case "hasChildren", "hasStar":
			if value.Type != gjson.True && value.Type != gjson.False {
				bad(key.Str, value)
				return true
			}
			if key.Str == "hasChildren" {
				a.HasChildren = value.Bool()
			} else {
				a.HasStar = value.Bool()
			}
		default:
			if a.Extra == nil {
				a.Extra = map[string]json.RawMessage{}
			}
			a.Extra[key.Str] = json.RawMessage(value.Raw)
		}
		return true
	})

	if ferr != nil {
		return Article{}, ferr
	}
	if a.ID == "" {
		return Article{}, fmt.Errorf("article: response has no id")
	}
	return a, nil
}

// MarshalJSON re-serializes the article. Records parsed from a response emit
// the original object so unmodeled attributes and key order are preserved;
// hand-constructed records are built from the typed fields.
func (a Article) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}

	out := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, v)
		}
	}
	set("id", a.ID)
	if a.IDReadable != "" {
		set("idReadable", a.IDReadable)
	}
	if a.Summary != "" {
		set("summary", a.Summary)
	}
	if a.Content != "" {
		set("content", a.Content)
	}
	if a.Project != nil {
		set("project", a.Project)
	}
	if a.Reporter != nil {
		set("reporter", a.Reporter)
	}
	if a.UpdatedBy != nil {
		set("updatedBy", a.UpdatedBy)
	}
	if a.Created != 0 {
		set("created", a.Created)
	}
	if a.Updated != 0 {
		set("updated", a.Updated)
	}
	if a.HasChildren {
		set("hasChildren", true)
	}
	if a.HasStar {
		set("hasStar", true)
	}
	for k, v := range a.Extra {
		if err == nil {
			out, err = sjson.SetRawBytes(out, k, v)
		}
	}
	return out, err
}

// UnmarshalJSON parses via ParseArticle so validation and extra-attribute
// handling apply on every decode path.
func (a *Article) UnmarshalJSON(data []byte) error {
	parsed, err := ParseArticle(data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
