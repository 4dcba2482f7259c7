package classifier

import (
	"context"
	"log"
	"strings"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/pkg/llm"
	"ai-model-advisor-be/pkg/store"
)

// Category is the resolved kind of an incoming turn. Exactly one applies.
type Category string

const (
	CategoryEmpty       Category = "EMPTY"
	CategoryGreeting    Category = "GREETING"
	CategoryAlternative Category = "ALTERNATIVE"
	CategoryFollowUp    Category = "FOLLOW_UP"
	CategoryNewTask     Category = "NEW_TASK"
	CategoryRejected    Category = "REJECTED"
)

// Result carries the category plus the gate's output where it matters:
// Task is the normalized task description for NEW_TASK, Reply is the
// user-facing explanation for REJECTED.
type Result struct {
	Category Category
	Task     string
	Reply    string
}

// rule is one predicate in the evaluation chain. Returning ok=false passes
// evaluation to the next rule.
type rule struct {
	name  string
	match func(msg string, session *store.SessionState) (*Result, bool)
}

// Classifier decides the category of an incoming message. Cheap local
// heuristics run first, in a fixed order that encodes priority; only the
// final fallback consults the LLM. Given identical session state and an
// identical gate reply, classification is deterministic.
type Classifier struct {
	llmProvider llm.LLMProvider
	rules       []rule
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	c := &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
	// Order is the priority. The heuristics must stay visible as a list, not
	// buried in nested conditionals.
	c.rules = []rule{
		{name: "empty", match: matchEmpty},
		{name: "greeting", match: matchGreeting},
		{name: "alternative", match: matchAlternative},
		{name: "follow_up", match: matchFollowUp},
	}
	return c
}

// Classify resolves the category for message against the session's current
// state. The history is forwarded to the intent gate as conversational
// context only.
func (c *Classifier) Classify(ctx context.Context, message string, history []llm.Message, session *store.SessionState) *Result {
	for _, r := range c.rules {
		if res, ok := r.match(message, session); ok {
			c.logger.Printf("[CLASSIFIER] Rule %q matched: %s", r.name, res.Category)
			return res
		}
	}
	return c.gate(ctx, message, history)
}

func matchEmpty(msg string, _ *store.SessionState) (*Result, bool) {
	if strings.TrimSpace(msg) == "" {
		return &Result{Category: CategoryEmpty}, true
	}
	return nil, false
}

func matchGreeting(msg string, _ *store.SessionState) (*Result, bool) {
	normalized := strings.ToLower(strings.TrimSpace(msg))
	normalized = strings.TrimRight(normalized, "!.?")
	for _, token := range constant.GreetingTokens {
		if normalized == token {
			return &Result{Category: CategoryGreeting}, true
		}
	}
	return nil, false
}

// An alternative request matches regardless of stored context; the handler
// degrades to a "need context" reply when no prior task exists, without
// touching the pipeline.
func matchAlternative(msg string, _ *store.SessionState) (*Result, bool) {
	lower := strings.ToLower(msg)
	for _, phrase := range constant.AlternativePhrases {
		if strings.Contains(lower, phrase) {
			return &Result{Category: CategoryAlternative}, true
		}
	}
	return nil, false
}

// Follow-up requires a selected recommendation; without one the keywords are
// just words and the message falls through to the gate.
func matchFollowUp(msg string, session *store.SessionState) (*Result, bool) {
	if session == nil || session.Selected == nil || session.LastTask == "" {
		return nil, false
	}
	lower := strings.ToLower(msg)
	for _, kw := range constant.FollowUpKeywords {
		if strings.Contains(lower, kw) {
			return &Result{Category: CategoryFollowUp}, true
		}
	}
	return nil, false
}

// gate asks the LLM whether the message is an in-scope task description.
// The reply must carry exactly one of the sentinel markers; a reply with
// neither marker is a rejection with the raw text as explanation.
func (c *Classifier) gate(ctx context.Context, message string, history []llm.Message) *Result {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.IntentGateSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: strings.TrimSpace(message)})

	response, err := c.llmProvider.Chat(ctx, messages)
	if err != nil {
		c.logger.Printf("[CLASSIFIER] Intent gate failed: %v", err)
		return &Result{Category: CategoryRejected, Reply: constant.ReplyCapabilityDown}
	}

	result := strings.TrimSpace(response)
	if strings.Contains(result, constant.IntentMarkerProceed) {
		task := strings.TrimSpace(strings.ReplaceAll(result, constant.IntentMarkerProceed, ""))
		return &Result{Category: CategoryNewTask, Task: task}
	}

	reply := strings.TrimSpace(strings.ReplaceAll(result, constant.IntentMarkerHold, ""))
	if reply == "" {
		reply = constant.ReplyNeedTaskContext
	}
	return &Result{Category: CategoryRejected, Reply: reply}
}
