package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/pkg/llm"
)

// Candidate is one provisionally relevant model proposed before enrichment
// and synthesis narrow the list to a single pick.
type Candidate struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`

	// Placeholder marks a fallback entry standing in for genuine candidates.
	// Downstream stages must short-circuit on it.
	Placeholder bool `json:"-"`
}

// CatalogSource supplies the model dataset the recommender selects from.
type CatalogSource interface {
	ListModels(ctx context.Context) ([]*entity.CatalogModel, error)
}

// Recommender asks the LLM for 3-5 catalog models matching the task.
type Recommender struct {
	llmProvider llm.LLMProvider
	catalog     CatalogSource
	logger      *log.Logger
}

func NewRecommender(llmProvider llm.LLMProvider, catalog CatalogSource, logger *log.Logger) *Recommender {
	return &Recommender{
		llmProvider: llmProvider,
		catalog:     catalog,
		logger:      logger,
	}
}

// Recommend returns candidates for the task. exclude names a previously
// selected model to leave out (alternative mode); empty means no exclusion.
// Never returns an error: every failure degrades to a single placeholder
// candidate whose Reason is the user-facing explanation.
func (r *Recommender) Recommend(ctx context.Context, task, exclude string) []Candidate {
	models, err := r.catalog.ListModels(ctx)
	if err != nil {
		r.logger.Printf("[RECOMMENDER] Catalog fetch failed: %v", err)
		return placeholderList("I couldn't reach the model catalog right now. Please try again shortly.")
	}
	if len(models) == 0 {
		r.logger.Printf("[RECOMMENDER] Catalog is empty")
		return placeholderList("The model catalog is empty, so I have nothing to recommend yet.")
	}

	excludeClause := ""
	if exclude != "" {
		excludeClause = fmt.Sprintf(constant.RecommenderExcludeClause, exclude)
	}

	prompt := fmt.Sprintf(constant.RecommenderPrompt,
		constant.CandidateCountMax,
		excludeClause,
		task,
		formatCatalog(models),
	)

	response, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.RecommenderSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(0.2))
	if err != nil {
		r.logger.Printf("[RECOMMENDER] LLM call failed: %v", err)
		return placeholderList("Model recommendation failed. Please try again shortly.")
	}

	candidates, err := parseCandidates(response, exclude)
	if err != nil {
		r.logger.Printf("[RECOMMENDER] Malformed reply: %v (raw: %s)", err, truncate(response, 200))
		return placeholderList("I couldn't put together a model shortlist for that request. Could you rephrase it?")
	}

	r.logger.Printf("[RECOMMENDER] %d candidates selected", len(candidates))
	return candidates
}

func placeholderList(message string) []Candidate {
	return []Candidate{{Name: "unavailable", Reason: message, Placeholder: true}}
}

// IsPlaceholder reports whether the list carries no genuine candidates.
func IsPlaceholder(candidates []Candidate) bool {
	return len(candidates) == 0 || (len(candidates) == 1 && candidates[0].Placeholder)
}

func formatCatalog(models []*entity.CatalogModel) string {
	var b strings.Builder
	for _, m := range models {
		fmt.Fprintf(&b, "- %s (provider: %s, tasks: %s)", m.Name, m.Provider, m.TaskTypes)
		if m.Notes != "" {
			fmt.Fprintf(&b, " - %s", m.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// parseCandidates validates the reply once at the stage boundary: a JSON
// array of {name, reason} with 1..CandidateCountMax usable entries. The
// excluded name is filtered defensively in case the model ignored the clause.
func parseCandidates(response, exclude string) ([]Candidate, error) {
	raw := extractJSONArray(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var parsed []Candidate
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed))
	for _, c := range parsed {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		if exclude != "" && strings.EqualFold(c.Name, exclude) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable candidates in response")
	}
	if len(candidates) > constant.CandidateCountMax {
		candidates = candidates[:constant.CandidateCountMax]
	}
	return candidates, nil
}

func extractJSONArray(response string) string {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return response[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
