package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/youtrack-kb-agent/internal/youtrack"
)

type GetArticlesInput struct {
	ProjectID      string `json:"project_id,omitempty" jsonschema_description:"Project identifier like 'DEMO' or '0-0' (optional)."`
	Limit          int    `json:"limit,omitempty" jsonschema_description:"Maximum number of articles to return (default 20)."`
	Skip           int    `json:"skip,omitempty" jsonschema_description:"Number of articles to skip for pagination (default 0)."`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema_description:"Include the article content body (default false)."`
	Fields         string `json:"fields,omitempty" jsonschema_description:"YouTrack fields parameter controlling which attributes are returned (optional)."`
}

var GetArticlesInputSchema = GenerateSchema[GetArticlesInput]()

// getArticles lists articles, project-scoped when project_id is given,
// global otherwise. Listing defaults to summaries only; the content body is
// fetched only on request.
func (t *Toolset) getArticles(input json.RawMessage) (string, error) {
	var in GetArticlesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return errorPayload("invalid input: " + err.Error()), nil
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

	ctx := context.Background()
	var (
		articles []youtrack.Article
		err      error
	)
	if in.ProjectID != "" {
		articles, err = t.articles.ListProjectArticles(ctx, in.ProjectID, opts)
	} else {
		articles, err = t.articles.ListArticles(ctx, opts)
	}
	if err != nil {
		return fail("get_articles", in.ProjectID, err), nil
	}

	b, err := json.Marshal(articles)
	if err != nil {
		return fail("get_articles", in.ProjectID, err), nil
	}
	return string(b), nil
}
