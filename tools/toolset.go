package tools

import (
	"encoding/json"
	"log"

	"github.com/petasbytes/youtrack-kb-agent/internal/telemetry"
	"github.com/petasbytes/youtrack-kb-agent/internal/youtrack"
)

// defaultListLimit is the fallback page size for the listing tools.
const defaultListLimit = 20

// Toolset owns one articles client (and transitively one HTTP client) for
// its lifetime and exposes the knowledge-base tools over it.
type Toolset struct {
	transport youtrack.Getter
	articles  *youtrack.ArticlesClient
}

// New builds a toolset talking to a real YouTrack instance.
func New(cfg youtrack.Config) *Toolset {
	return NewWithTransport(youtrack.NewClient(cfg))
}

// NewWithTransport builds a toolset over an injected transport.
func NewWithTransport(transport youtrack.Getter) *Toolset {
	return &Toolset{
		transport: transport,
		articles:  youtrack.NewArticlesClient(transport),
	}
}

// Definitions returns the article tool definitions wired for the agent.
func (t *Toolset) Definitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name: "get_articles",
			Description: "Get a list of knowledge base articles, optionally filtered by project. " +
				`Example: get_articles(project_id="DEMO", limit=10)`,
			InputSchema: GetArticlesInputSchema,
			Function:    t.getArticles,
		},
		{
			Name: "get_article",
			Description: "Get a knowledge base article by ID. " +
				`Example: get_article(article_id="226-0")`,
			InputSchema: GetArticleInputSchema,
			Function:    t.getArticle,
		},
		{
			Name: "get_article_children",
			Description: "Get sub-articles for a given article. " +
				`Example: get_article_children(article_id="226-0", limit=10)`,
			InputSchema: GetArticleChildrenInputSchema,
			Function:    t.getArticleChildren,
		},
	}
}

// Close releases the underlying transport when it supports release.
// Failures are logged, never returned; Close is safe to call on shutdown
// paths that must not fail.
func (t *Toolset) Close() {
	c, ok := t.transport.(interface{ Close() error })
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("tools: close transport: %v", err)
	}
}

// errorPayload wraps a failure as the {"error": message} text contract: the
// article tools always answer with a JSON payload, never a raised error.
func errorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// fail logs one tool failure with its operation context and returns the
// error payload.
func fail(tool, id string, err error) string {
	log.Printf("tools: %s %s: %v", tool, id, err)
	telemetry.Emit("article_tool_error", map[string]any{
		"tool_name": tool,
		"id":        id,
		"error":     err.Error(),
	})
	return errorPayload(err.Error())
}
