package youtrack

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// defaultFieldSet keeps default payloads small: identity, summary and
// metadata, no body. Content is appended only on request.
const defaultFieldSet = "id,idReadable,summary,project(id,shortName),reporter(id,login,name),updated,created,hasChildren,hasStar"

// ArticlesClient translates typed calls into the Articles REST endpoints.
// It never catches transport or validation errors; the tool layer is the
// error-handling boundary.
type ArticlesClient struct {
	transport Getter
}

func NewArticlesClient(transport Getter) *ArticlesClient {
	return &ArticlesClient{transport: transport}
}

// ListOptions carries the optional inputs shared by the listing operations.
// Top and Skip are forwarded as $top/$skip only when positive; otherwise the
// server's own paging defaults apply.
type ListOptions struct {
	Top            int
	Skip           int
	IncludeContent bool
	Fields         string // overrides the default field selection when set
}

func defaultFields(includeContent bool) string {
	if includeContent {
		return defaultFieldSet + ",content"
	}
	return defaultFieldSet
}

func (o ListOptions) params() url.Values {
	fields := o.Fields
	if fields == "" {
		fields = defaultFields(o.IncludeContent)
	}
	params := url.Values{"fields": {fields}}
	if o.Top > 0 {
		params.Set("$top", strconv.Itoa(o.Top))
	}
	if o.Skip > 0 {
		params.Set("$skip", strconv.Itoa(o.Skip))
	}
	return params
}

// ListArticles fetches articles across all projects.
// See: GET /api/articles
func (c *ArticlesClient) ListArticles(ctx context.Context, opts ListOptions) ([]Article, error) {
	return c.list(ctx, "articles", opts)
}

// GetArticle fetches one article by its database id. A readable id (e.g.
// "NP-A-1") is passed through untouched for servers that resolve it.
// See: GET /api/articles/{articleID}
func (c *ArticlesClient) GetArticle(ctx context.Context, articleID string, includeContent bool, fields string) (Article, error) {
	if fields == "" {
		fields = defaultFields(includeContent)
	}
	body, err := c.transport.Get(ctx, "articles/"+articleID, url.Values{"fields": {fields}})
	if err != nil {
		return Article{}, err
	}
	return ParseArticle(body)
}

// ListChildArticles fetches the sub-articles of a parent article.
// See: GET /api/articles/{articleID}/childArticles
func (c *ArticlesClient) ListChildArticles(ctx context.Context, articleID string, opts ListOptions) ([]Article, error) {
	return c.list(ctx, "articles/"+articleID+"/childArticles", opts)
}

// ListProjectArticles fetches the articles of one project.
// See: GET /api/admin/projects/{projectID}/articles
func (c *ArticlesClient) ListProjectArticles(ctx context.Context, projectID string, opts ListOptions) ([]Article, error) {
	return c.list(ctx, "admin/projects/"+projectID+"/articles", opts)
}

// list runs one listing call and validates every element. Order is the
// server's; a single bad element fails the whole call rather than producing
// a partial result.
func (c *ArticlesClient) list(ctx context.Context, resource string, opts ListOptions) ([]Article, error) {
	body, err := c.transport.Get(ctx, resource, opts.params())
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("%s: expected JSON array, got %s", resource, res.Type)
	}

	articles := make([]Article, 0, len(res.Array()))
	var perr error
	res.ForEach(func(_, value gjson.Result) bool {
		a, err := ParseArticle([]byte(value.Raw))
		if err != nil {
			perr = fmt.Errorf("%s: element %d: %w", resource, len(articles), err)
			return false
		}
		articles = append(articles, a)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return articles, nil
}
