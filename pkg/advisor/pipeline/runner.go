package pipeline

import (
	"context"
	"fmt"
	"log"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/pkg/store"
)

// Result is the outcome of one pipeline run. Selected is nil when the run
// degraded to a placeholder or apology reply.
type Result struct {
	Reply    string
	Selected *store.Recommendation
}

// Runner composes recommender -> pricing -> report for turns classified as a
// new task or an alternative request. Each stage degrades independently; no
// stage failure aborts the turn.
type Runner struct {
	recommender *Recommender
	pricing     *Pricing
	report      *Report
	logger      *log.Logger
}

func NewRunner(recommender *Recommender, pricing *Pricing, report *Report, logger *log.Logger) *Runner {
	return &Runner{
		recommender: recommender,
		pricing:     pricing,
		report:      report,
		logger:      logger,
	}
}

// Run executes the three stages for task. exclude names the previously
// selected model to leave out (alternative mode), empty for a fresh task.
func (r *Runner) Run(ctx context.Context, task, exclude string) *Result {
	candidates := r.recommender.Recommend(ctx, task, exclude)
	if IsPlaceholder(candidates) {
		// No genuine candidates - return the placeholder's message directly,
		// skipping enrichment and synthesis.
		r.logger.Printf("[RUNNER] Placeholder shortlist, short-circuiting")
		return &Result{Reply: candidates[0].Reason}
	}

	pricing := r.pricing.Enrich(ctx, candidates)

	selected, err := r.report.Synthesize(ctx, task, candidates, pricing)
	if err != nil {
		r.logger.Printf("[RUNNER] Synthesis failed: %v", err)
		return &Result{Reply: constant.ReplyPipelineFailed}
	}

	return &Result{
		Reply:    FormatReport(selected),
		Selected: selected,
	}
}

// FormatReport renders the fixed 7-field report shape shown to the user.
func FormatReport(rec *store.Recommendation) string {
	return fmt.Sprintf(`Final Best Model Recommended:
1. Model Name           : %s
2. Price                : %s
3. Speed                : %s
4. Accuracy             : %s
5. Cloud                : %s
6. Region               : %s
7. Reason for Selection : %s`,
		rec.Name, rec.Price, rec.Speed, rec.Accuracy, rec.Provider, rec.Region, rec.Reason)
}
