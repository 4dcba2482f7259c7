package classifier

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-model-advisor-be/pkg/llm"
	"ai-model-advisor-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// fakeProvider returns a canned reply and records whether it was consulted.
type fakeProvider struct {
	reply  string
	err    error
	called int
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.called++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newTestClassifier(p *fakeProvider) *Classifier {
	return NewClassifier(p, log.New(io.Discard, "", 0))
}

func sessionWithSelection() *store.SessionState {
	return &store.SessionState{
		ID:       "s1",
		Selected: &store.Recommendation{Name: "X", Price: "$0.01/image"},
		LastTask: "generate product images",
	}
}

func TestClassifyHeuristics(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		session  *store.SessionState
		want     Category
		gateUsed bool
	}{
		{name: "empty message", message: "", session: &store.SessionState{}, want: CategoryEmpty},
		{name: "whitespace only", message: "   \n\t", session: &store.SessionState{}, want: CategoryEmpty},
		{name: "greeting", message: "hi", session: &store.SessionState{}, want: CategoryGreeting},
		{name: "greeting mixed case punctuated", message: "  Hello! ", session: &store.SessionState{}, want: CategoryGreeting},
		{name: "alternative phrase", message: "another model please", session: &store.SessionState{}, want: CategoryAlternative},
		{name: "alternative with context", message: "suggest a different model", session: sessionWithSelection(), want: CategoryAlternative},
		{name: "follow-up with selection", message: "what's the price?", session: sessionWithSelection(), want: CategoryFollowUp},
		{name: "follow-up keyword without selection falls to gate", message: "what's the price?", session: &store.SessionState{}, want: CategoryNewTask, gateUsed: true},
		{name: "new task", message: "generate a product description", session: &store.SessionState{}, want: CategoryNewTask, gateUsed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{reply: "Great, I will now suggest models. ##PROCEED##"}
			c := newTestClassifier(p)

			res := c.Classify(context.Background(), tt.message, nil, tt.session)

			assert.Equal(t, tt.want, res.Category)
			if tt.gateUsed {
				assert.Equal(t, 1, p.called)
			} else {
				assert.Zero(t, p.called, "heuristic categories must not hit the LLM")
			}
		})
	}
}

func TestGreetingIsExactMatchOnly(t *testing.T) {
	p := &fakeProvider{reply: "ok ##PROCEED##"}
	c := newTestClassifier(p)

	// "hi" embedded in a longer request is not a greeting
	res := c.Classify(context.Background(), "hi, I need a summarization model", nil, &store.SessionState{})
	assert.NotEqual(t, CategoryGreeting, res.Category)
}

func TestFollowUpRequiresBothSelectionAndTask(t *testing.T) {
	p := &fakeProvider{reply: "not a task ##HOLD##"}
	c := newTestClassifier(p)

	// Selection without task description: degraded state, treated as no context
	session := &store.SessionState{Selected: &store.Recommendation{Name: "X"}}
	res := c.Classify(context.Background(), "what is the cost?", nil, session)
	assert.NotEqual(t, CategoryFollowUp, res.Category)
}

func TestGateProceedStripsMarker(t *testing.T) {
	p := &fakeProvider{reply: "Great, I will now suggest the most suitable AI models for your case. ##PROCEED##"}
	c := newTestClassifier(p)

	res := c.Classify(context.Background(), "summarize legal documents", nil, &store.SessionState{})

	assert.Equal(t, CategoryNewTask, res.Category)
	assert.Equal(t, "Great, I will now suggest the most suitable AI models for your case.", res.Task)
	assert.NotContains(t, res.Task, "##")
}

func TestGateHoldRejects(t *testing.T) {
	p := &fakeProvider{reply: "That doesn't sound like a task for an AI model. ##HOLD##"}
	c := newTestClassifier(p)

	res := c.Classify(context.Background(), "how do I study for exams?", nil, &store.SessionState{})

	assert.Equal(t, CategoryRejected, res.Category)
	assert.Equal(t, "That doesn't sound like a task for an AI model.", res.Reply)
}

func TestGateMissingMarkersRejectsWithRawText(t *testing.T) {
	p := &fakeProvider{reply: "I am not sure what you mean."}
	c := newTestClassifier(p)

	res := c.Classify(context.Background(), "blorp", nil, &store.SessionState{})

	assert.Equal(t, CategoryRejected, res.Category)
	assert.Equal(t, "I am not sure what you mean.", res.Reply)
}

func TestGateTransportErrorRejectsSafely(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := newTestClassifier(p)

	res := c.Classify(context.Background(), "recommend something", nil, &store.SessionState{})

	assert.Equal(t, CategoryRejected, res.Category)
	assert.NotContains(t, res.Reply, "connection refused", "raw transport errors must not reach the user")
	assert.NotEmpty(t, res.Reply)
}

// Same message, same state, same gate reply -> same category.
func TestClassifyIdempotent(t *testing.T) {
	p := &fakeProvider{reply: "ok ##PROCEED##"}
	c := newTestClassifier(p)
	session := sessionWithSelection()

	first := c.Classify(context.Background(), "how fast is it?", nil, session)
	second := c.Classify(context.Background(), "how fast is it?", nil, session)

	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, CategoryFollowUp, first.Category)
}
