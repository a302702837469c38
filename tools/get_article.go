package tools

import (
	"context"
	"encoding/json"
)

type GetArticleInput struct {
	ArticleID      string `json:"article_id" jsonschema_description:"Article database ID like '226-0' (a readable ID is accepted when the server resolves it)."`
	IncludeContent *bool  `json:"include_content,omitempty" jsonschema_description:"Include the full content body (default true)."`
	Fields         string `json:"fields,omitempty" jsonschema_description:"YouTrack fields parameter controlling which attributes are returned (optional)."`
}

var GetArticleInputSchema = GenerateSchema[GetArticleInput]()

const errArticleIDRequired = "Article ID is required"

// getArticle fetches one article. Fetching a single article implies the
// caller wants to read it, so the content body is included unless switched
// off.
func (t *Toolset) getArticle(input json.RawMessage) (string, error) {
	var in GetArticleInput
	if err := json.Unmarshal(input, &in); err != nil {
		return errorPayload("invalid input: " + err.Error()), nil
	}
	if in.ArticleID == "" {
		return errorPayload(errArticleIDRequired), nil
	}

	includeContent := true
	if in.IncludeContent != nil {
		includeContent = *in.IncludeContent
	}

	article, err := t.articles.GetArticle(context.Background(), in.ArticleID, includeContent, in.Fields)
	if err != nil {
		return fail("get_article", in.ArticleID, err), nil
	}

	b, err := json.Marshal(article)
	if err != nil {
		return fail("get_article", in.ArticleID, err), nil
	}
	return string(b), nil
}
