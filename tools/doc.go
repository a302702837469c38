// Package tools exposes YouTrack knowledge-base operations as agent tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Toolset: get_articles, get_article, get_article_children over one
//     owned API client, plus Close for transport release.
//   - Contract: article tools always return a JSON text payload; failures
//     come back as {"error": message}, never as a raised error.
package tools
