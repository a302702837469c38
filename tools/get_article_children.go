package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/youtrack-kb-agent/internal/youtrack"
)

type GetArticleChildrenInput struct {
	ArticleID      string `json:"article_id" jsonschema_description:"Parent article database ID like '226-0'."`
	Limit          int    `json:"limit,omitempty" jsonschema_description:"Maximum number of sub-articles to return (default 20)."`
	Skip           int    `json:"skip,omitempty" jsonschema_description:"Number of items to skip for pagination (default 0)."`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema_description:"Include the content body (default false)."`
	Fields         string `json:"fields,omitempty" jsonschema_description:"YouTrack fields parameter controlling which attributes are returned (optional)."`
}

var GetArticleChildrenInputSchema = GenerateSchema[GetArticleChildrenInput]()

// getArticleChildren lists the sub-articles of a parent article.
func (t *Toolset) getArticleChildren(input json.RawMessage) (string, error) {
	var in GetArticleChildrenInput
	if err := json.Unmarshal(input, &in); err != nil {
		return errorPayload("invalid input: " + err.Error()), nil
	}
	if in.ArticleID == "" {
		return errorPayload(errArticleIDRequired), nil
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	skip := in.Skip
	if skip < 0 {
		skip = 0
	}
	opts := youtrack.ListOptions{
		Top:            limit,
		Skip:           skip,
		IncludeContent: in.IncludeContent,
		Fields:         in.Fields,
	}

	children, err := t.articles.ListChildArticles(context.Background(), in.ArticleID, opts)
	if err != nil {
		return fail("get_article_children", in.ArticleID, err), nil
	}

	b, err := json.Marshal(children)
	if err != nil {
		return fail("get_article_children", in.ArticleID, err), nil
	}
	return string(b), nil
}
