package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	chatReply     string
	chatErr       error
	generateReply string
	generateErr   error
	chatCalls     int
	generateCalls int
}

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	f.chatCalls++
	return f.chatReply, f.chatErr
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.generateCalls++
	return f.generateReply, f.generateErr
}

type fakeCatalog struct {
	models []*entity.CatalogModel
	err    error
}

func (f *fakeCatalog) ListModels(ctx context.Context) ([]*entity.CatalogModel, error) {
	return f.models, f.err
}

func testLogger() *log.Logger {
	return log.New(&strings.Builder{}, "", 0)
}

func someCatalog() *fakeCatalog {
	return &fakeCatalog{models: []*entity.CatalogModel{
		{Name: "GPT-4o", Provider: "OpenAI", TaskTypes: "chat,summarization"},
		{Name: "Claude 3.5 Sonnet", Provider: "Anthropic", TaskTypes: "chat,analysis"},
		{Name: "Mistral Large", Provider: "Mistral", TaskTypes: "chat"},
	}}
}

func TestRecommendParsesCandidates(t *testing.T) {
	provider := &fakeProvider{
		chatReply: `Here you go: [{"name": "GPT-4o", "reason": "strong summarization"}, {"name": "Claude 3.5 Sonnet", "reason": "long context"}, {"name": "Mistral Large", "reason": "cost effective"}]`,
	}
	r := NewRecommender(provider, someCatalog(), testLogger())

	candidates := r.Recommend(context.Background(), "summarize meeting notes", "")

	require.Len(t, candidates, 3)
	assert.False(t, IsPlaceholder(candidates))
	assert.Equal(t, "GPT-4o", candidates[0].Name)
	assert.Equal(t, "strong summarization", candidates[0].Reason)
}

func TestRecommendFiltersExcludedName(t *testing.T) {
	provider := &fakeProvider{
		chatReply: `[{"name": "GPT-4o", "reason": "a"}, {"name": "Claude 3.5 Sonnet", "reason": "b"}]`,
	}
	r := NewRecommender(provider, someCatalog(), testLogger())

	candidates := r.Recommend(context.Background(), "summarize meeting notes", "gpt-4o")

	require.Len(t, candidates, 1)
	assert.Equal(t, "Claude 3.5 Sonnet", candidates[0].Name)
}

func TestRecommendCapsCandidateCount(t *testing.T) {
	provider := &fakeProvider{
		chatReply: `[{"name": "A", "reason": "r"}, {"name": "B", "reason": "r"}, {"name": "C", "reason": "r"},
			{"name": "D", "reason": "r"}, {"name": "E", "reason": "r"}, {"name": "F", "reason": "r"}]`,
	}
	r := NewRecommender(provider, someCatalog(), testLogger())

	candidates := r.Recommend(context.Background(), "task", "")

	assert.Len(t, candidates, constant.CandidateCountMax)
}

func TestRecommendDegradesToPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		catalog  *fakeCatalog
	}{
		{
			name:     "catalog error",
			provider: &fakeProvider{},
			catalog:  &fakeCatalog{err: errors.New("connection refused")},
		},
		{
			name:     "empty catalog",
			provider: &fakeProvider{},
			catalog:  &fakeCatalog{},
		},
		{
			name:     "llm transport failure",
			provider: &fakeProvider{chatErr: errors.New("dial tcp: timeout")},
			catalog:  someCatalog(),
		},
		{
			name:     "reply without json array",
			provider: &fakeProvider{chatReply: "I cannot help with that."},
			catalog:  someCatalog(),
		},
		{
			name:     "array of unusable entries",
			provider: &fakeProvider{chatReply: `[{"name": "", "reason": "blank"}]`},
			catalog:  someCatalog(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecommender(tt.provider, tt.catalog, testLogger())

			candidates := r.Recommend(context.Background(), "task", "")

			require.Len(t, candidates, 1)
			assert.True(t, IsPlaceholder(candidates))
			assert.NotEmpty(t, candidates[0].Reason)
			assert.NotContains(t, candidates[0].Reason, "connection refused")
			assert.NotContains(t, candidates[0].Reason, "dial tcp")
		})
	}
}

func TestEnrichReturnsOneRowPerCandidateInOrder(t *testing.T) {
	provider := &fakeProvider{
		generateReply: `[{"name": "Claude 3.5 Sonnet", "price": "$3/M tokens", "provider": "Anthropic", "region": "Global"},
			{"name": "GPT-4o", "price": "$2.50/M tokens", "provider": "OpenAI", "region": "Global"}]`,
	}
	p := NewPricing(provider, nil, testLogger())

	candidates := []Candidate{{Name: "GPT-4o"}, {Name: "Claude 3.5 Sonnet"}, {Name: "ObscureModel"}}
	pricing := p.Enrich(context.Background(), candidates)

	require.Len(t, pricing, 3)
	assert.Equal(t, "$2.50/M tokens", pricing[0].Price)
	assert.Equal(t, "$3/M tokens", pricing[1].Price)
	// Model the LLM did not cover gets estimated values.
	assert.Equal(t, "Estimated", pricing[2].Price)
	assert.Equal(t, "Not Public", pricing[2].Provider)
}

func TestEnrichNeverSaysUnknown(t *testing.T) {
	provider := &fakeProvider{
		generateReply: `[{"name": "GPT-4o", "price": "Unknown", "provider": "unknown", "region": "N/A"}]`,
	}
	p := NewPricing(provider, nil, testLogger())

	pricing := p.Enrich(context.Background(), []Candidate{{Name: "GPT-4o"}})

	require.Len(t, pricing, 1)
	assert.Equal(t, "Estimated", pricing[0].Price)
	assert.Equal(t, "Not Public", pricing[0].Provider)
	assert.Equal(t, "Likely Global", pricing[0].Region)
}

func TestEnrichDegradesOnTransportFailure(t *testing.T) {
	provider := &fakeProvider{generateErr: errors.New("dial tcp: timeout")}
	p := NewPricing(provider, nil, testLogger())

	pricing := p.Enrich(context.Background(), []Candidate{{Name: "GPT-4o"}, {Name: "Claude 3.5 Sonnet"}})

	require.Len(t, pricing, 2)
	for _, info := range pricing {
		assert.Equal(t, "Estimated", info.Price)
	}
}

func TestSynthesizeBackfillsAllFields(t *testing.T) {
	provider := &fakeProvider{
		chatReply: `{"name": "GPT-4o", "reason": "best fit for summarization"}`,
	}
	r := NewReport(provider, testLogger())

	pricing := []PricingInfo{{Name: "GPT-4o", Price: "$2.50/M tokens", Provider: "OpenAI", Region: "Global"}}
	rec, err := r.Synthesize(context.Background(), "summarize notes", []Candidate{{Name: "GPT-4o"}}, pricing)

	require.NoError(t, err)
	assert.Equal(t, "GPT-4o", rec.Name)
	assert.Equal(t, "$2.50/M tokens", rec.Price)
	assert.Equal(t, "OpenAI", rec.Provider)
	assert.Equal(t, "Global", rec.Region)
	// OpenAI is an established provider: speed/accuracy backfill to the top tier.
	assert.Equal(t, "Fast", rec.Speed)
	assert.Equal(t, "High", rec.Accuracy)
}

func TestSynthesizeBackfillUsesModerateTierForUnrecognizedProvider(t *testing.T) {
	provider := &fakeProvider{
		chatReply: `{"name": "ObscureModel", "provider": "TinyLab", "reason": "cheap"}`,
	}
	r := NewReport(provider, testLogger())

	rec, err := r.Synthesize(context.Background(), "task", []Candidate{{Name: "ObscureModel"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Moderate", rec.Speed)
	assert.Equal(t, "Moderate", rec.Accuracy)
	assert.Equal(t, "Estimated", rec.Price)
	assert.Equal(t, "Likely Global", rec.Region)
}

func TestSynthesizeMalformedReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json object", "Sorry, I had trouble with that."},
		{"invalid json", `{"name": "GPT-4o", "reason": `},
		{"missing model name", `{"reason": "good"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(&fakeProvider{chatReply: tt.reply}, testLogger())

			rec, err := r.Synthesize(context.Background(), "task", nil, nil)

			assert.Nil(t, rec)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestRunShortCircuitsOnPlaceholder(t *testing.T) {
	provider := &fakeProvider{chatErr: errors.New("down")}
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	runner := NewRunner(
		NewRecommender(provider, catalog, testLogger()),
		NewPricing(provider, nil, testLogger()),
		NewReport(provider, testLogger()),
		testLogger(),
	)

	result := runner.Run(context.Background(), "task", "")

	assert.Nil(t, result.Selected)
	assert.NotEmpty(t, result.Reply)
	// Pricing and report stages never run on a placeholder shortlist.
	assert.Zero(t, provider.generateCalls)
	assert.Zero(t, provider.chatCalls)
}

func TestRunDegradesWhenSynthesisFails(t *testing.T) {
	recProvider := &fakeProvider{chatReply: `[{"name": "GPT-4o", "reason": "fit"}]`}
	pricingProvider := &fakeProvider{generateReply: `[]`}
	reportProvider := &fakeProvider{chatReply: "not json at all"}
	runner := NewRunner(
		NewRecommender(recProvider, someCatalog(), testLogger()),
		NewPricing(pricingProvider, nil, testLogger()),
		NewReport(reportProvider, testLogger()),
		testLogger(),
	)

	result := runner.Run(context.Background(), "task", "")

	assert.Nil(t, result.Selected)
	assert.Equal(t, constant.ReplyPipelineFailed, result.Reply)
}

func TestRunProducesSevenFieldReport(t *testing.T) {
	recProvider := &fakeProvider{chatReply: `[{"name": "GPT-4o", "reason": "fit"}]`}
	pricingProvider := &fakeProvider{
		generateReply: `[{"name": "GPT-4o", "price": "$2.50/M tokens", "provider": "OpenAI", "region": "Global"}]`,
	}
	reportProvider := &fakeProvider{chatReply: `{"name": "GPT-4o", "reason": "best summarizer in the shortlist"}`}
	runner := NewRunner(
		NewRecommender(recProvider, someCatalog(), testLogger()),
		NewPricing(pricingProvider, nil, testLogger()),
		NewReport(reportProvider, testLogger()),
		testLogger(),
	)

	result := runner.Run(context.Background(), "summarize notes", "")

	require.NotNil(t, result.Selected)
	assert.Equal(t, "GPT-4o", result.Selected.Name)
	assert.Contains(t, result.Reply, "Final Best Model Recommended:")
	for _, field := range []string{"Model Name", "Price", "Speed", "Accuracy", "Cloud", "Region", "Reason for Selection"} {
		assert.Contains(t, result.Reply, field)
	}
	assert.NotContains(t, result.Reply, "Unknown")
}
