// Package categorizer groups search keywords into campaign categories with a
// chat-completion model. Every keyword receives exactly one category.
package categorizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Uncategorized is assigned to keywords the model skipped.
const Uncategorized = "Uncategorized"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

var ErrNoResponse = errors.New("no response from model")

// Assignment is the category chosen for one keyword.
type Assignment struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	Cached   bool   `json:"cached,omitempty"`
}

// Result lists one assignment per input keyword, in input order.
type Result struct {
	Assignments []Assignment `json:"assignments"`
}

// Categories returns the distinct categories in first-seen order.
func (r *Result) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range r.Assignments {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Chat completion wire types (OpenAI-compatible).
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message Message `json:"message"`
}

// ChatClient performs chat completion calls.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Cache maps normalized keywords to categories.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

// Categorizer assigns categories to keywords.
type Categorizer struct {
	client ChatClient
	cache  Cache
	model  string
}

// NewCategorizer creates a categorizer. An empty model selects DefaultModel.
func NewCategorizer(client ChatClient, cache Cache, model string) *Categorizer {
	if model == "" {
		model = DefaultModel
	}
	return &Categorizer{
		client: client,
		cache:  cache,
		model:  model,
	}
}

// Categorize assigns a category to every keyword. Cached keywords are not
// sent to the model. Duplicate input keywords share one assignment.
func (c *Categorizer) Categorize(ctx context.Context, keywords []string) (*Result, error) {
	result := &Result{Assignments: make([]Assignment, 0, len(keywords))}
	if len(keywords) == 0 {
		return result, nil
	}

	known := make(map[string]string, len(keywords))
	var uncached []string
	for _, kw := range keywords {
		key := normalize(kw)
		if _, ok := known[key]; ok {
			continue
		}
		if category, found := c.cache.Get(key); found {
			known[key] = category
			continue
		}
		known[key] = ""
		uncached = append(uncached, kw)
	}

	fresh := map[string]bool{}
	if len(uncached) > 0 {
		assigned, err := c.callModel(ctx, uncached)
		if err != nil {
			return nil, fmt.Errorf("keyword categorization failed: %w", err)
		}
		for _, a := range assigned {
			key := normalize(a.Keyword)
			category := strings.TrimSpace(a.Category)
			if category == "" {
				continue
			}
			// only keywords we asked about, first answer wins
			if pending, ok := known[key]; !ok || pending != "" {
				continue
			}
			known[key] = category
			fresh[key] = true
			c.cache.Set(key, category)
		}
	}

	for _, kw := range keywords {
		key := normalize(kw)
		category := known[key]
		if category == "" {
			category = Uncategorized
		}
		result.Assignments = append(result.Assignments, Assignment{
			Keyword:  kw,
			Category: category,
			Cached:   !fresh[key] && category != Uncategorized,
		})
	}

	return result, nil
}

func (c *Categorizer) callModel(ctx context.Context, keywords []string) ([]Assignment, error) {
	request := ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &ResponseFormat{
			Type: "json_object",
		},
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a search advertising strategist who groups keywords into campaign categories. Always respond with valid JSON.",
			},
			{
				Role:    "user",
				Content: buildPrompt(keywords),
			},
		},
	}

	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, ErrNoResponse
	}

	return parseAssignments(response.Choices[0].Message.Content)
}

// parseAssignments accepts {"categorizations": [...]} or a bare array, with
// or without surrounding text such as a markdown fence.
func parseAssignments(content string) ([]Assignment, error) {
	var wrapped struct {
		Categorizations []Assignment `json:"categorizations"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Categorizations != nil {
		return wrapped.Categorizations, nil
	}

	start, end := strings.Index(content, "["), strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("failed to parse model response: no JSON array found")
	}
	var list []Assignment
	if err := json.Unmarshal([]byte(content[start:end+1]), &list); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	return list, nil
}

func buildPrompt(keywords []string) string {
	var list strings.Builder
	for i, kw := range keywords {
		list.WriteString(fmt.Sprintf("%d. %s\n", i+1, kw))
	}

	return fmt.Sprintf(`Group the following search advertising keywords into categories an operator can manage campaigns with (bids, budgets, ad copy, landing pages).

Keywords:
%s
Instructions:
1. Design the categories yourself from the keyword patterns: search intent (informational, comparison, purchase, brand/navigation, problem solving), modifiers (price, location, time, audience, action) and product or service lines.
2. Keep category names short and immediately understandable.
3. Do not split too finely. Aim for roughly 5 to 15 categories, fewer for short lists.
4. Every keyword must appear exactly once with exactly one category.
5. Use the keyword text exactly as given.

Return a JSON object with this structure:
{
  "categorizations": [
    {"keyword": "exact keyword", "category": "category name"}
  ]
}`, list.String())
}

// normalize builds the cache key for a keyword.
func normalize(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}
