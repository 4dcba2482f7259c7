package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/pkg/llm"
	"ai-model-advisor-be/pkg/store"
)

// ErrMalformedReply marks a synthesis reply that could not be parsed into the
// expected structure. The runner recovers it into a user-safe apology; it
// must never escape the pipeline as a raw parse error.
var ErrMalformedReply = errors.New("malformed capability reply")

// tierOneProviders drives the deterministic backfill for speed/accuracy when
// synthesis omits them: established providers get "Fast"/"High", everything
// else "Moderate". Fixed policy, not per-call guesswork.
var tierOneProviders = map[string]struct{}{
	"openai":    {},
	"google":    {},
	"anthropic": {},
	"microsoft": {},
	"azure":     {},
	"aws":       {},
	"amazon":    {},
}

// Report synthesizes one final recommendation from the task, candidates and
// pricing data.
type Report struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewReport(llmProvider llm.LLMProvider, logger *log.Logger) *Report {
	return &Report{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Synthesize returns the single selected recommendation with all 7 fields
// populated. Transport and parse failures come back as errors for the runner
// to recover at the stage boundary.
func (r *Report) Synthesize(ctx context.Context, task string, candidates []Candidate, pricing []PricingInfo) (*store.Recommendation, error) {
	prompt := fmt.Sprintf(constant.ReportPrompt,
		task,
		formatCandidates(candidates),
		formatPricing(pricing),
	)

	response, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.ReportSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(0.4), llm.WithMaxTokens(800))
	if err != nil {
		return nil, fmt.Errorf("report synthesis: %w", err)
	}

	rec, err := parseRecommendation(response)
	if err != nil {
		r.logger.Printf("[REPORT] %v (raw: %s)", err, truncate(response, 200))
		return nil, err
	}

	backfill(rec, pricing)
	r.logger.Printf("[REPORT] Selected %q", rec.Name)
	return rec, nil
}

// parseRecommendation parses the reply defensively once, here at the stage
// boundary. Structured-output failure is classified as ErrMalformedReply
// rather than surfacing later as a missing-field error.
func parseRecommendation(response string) (*store.Recommendation, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedReply)
	}

	var rec store.Recommendation
	if err := json.Unmarshal([]byte(response[start:end+1]), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrMalformedReply)
	}
	return &rec, nil
}

// backfill guarantees all 7 fields are non-empty without ever printing
// "Unknown". Speed and accuracy fall back to the provider reputation tier;
// the rest fall back to pricing data or the estimation wording.
func backfill(rec *store.Recommendation, pricing []PricingInfo) {
	var fromPricing *PricingInfo
	for i := range pricing {
		if strings.EqualFold(pricing[i].Name, rec.Name) {
			fromPricing = &pricing[i]
			break
		}
	}

	if isBlankOrUnknown(rec.Provider) {
		if fromPricing != nil {
			rec.Provider = fromPricing.Provider
		} else {
			rec.Provider = "Not Public"
		}
	}
	if isBlankOrUnknown(rec.Price) {
		if fromPricing != nil {
			rec.Price = fromPricing.Price
		} else {
			rec.Price = "Estimated"
		}
	}
	if isBlankOrUnknown(rec.Region) {
		if fromPricing != nil {
			rec.Region = fromPricing.Region
		} else {
			rec.Region = "Likely Global"
		}
	}

	tierOne := isTierOne(rec.Provider)
	if isBlankOrUnknown(rec.Speed) {
		if tierOne {
			rec.Speed = "Fast"
		} else {
			rec.Speed = "Moderate"
		}
	}
	if isBlankOrUnknown(rec.Accuracy) {
		if tierOne {
			rec.Accuracy = "High"
		} else {
			rec.Accuracy = "Moderate"
		}
	}
	if isBlankOrUnknown(rec.Reason) {
		rec.Reason = "Best overall fit for the stated requirement among the shortlisted models."
	}
}

func isTierOne(provider string) bool {
	p := strings.ToLower(strings.TrimSpace(provider))
	for name := range tierOneProviders {
		if strings.Contains(p, name) {
			return true
		}
	}
	return false
}

func formatCandidates(candidates []Candidate) string {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Reason)
	}
	return b.String()
}

func formatPricing(pricing []PricingInfo) string {
	var b strings.Builder
	for _, p := range pricing {
		fmt.Fprintf(&b, "- %s: price %s, provider %s, region %s\n", p.Name, p.Price, p.Provider, p.Region)
	}
	return b.String()
}
