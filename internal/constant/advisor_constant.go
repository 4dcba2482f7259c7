package constant

const (
	// Sentinel markers the intent gate must emit. Anything without either
	// marker is treated as a rejection with the raw text as explanation.
	IntentMarkerProceed = "##PROCEED##"
	IntentMarkerHold    = "##HOLD##"

	// INTENT GATE (binary framing, marker-terminated)
	IntentGateSystemPrompt = `You are an intelligent assistant focused ONLY on recommending AI models.
If the user input is about using AI for tasks like summarization, text generation, image recognition, etc., respond with: 'Great, I will now suggest the most suitable AI models for your case.' and end with ##PROCEED##.

If it's NOT a valid model use-case (e.g. hello, exam question, how are you), reply naturally and POLITELY with varied wording depending on the input.
Do NOT repeat the same sentence. Be helpful but end by saying: 'Please ask something model-related so I can assist.' and then add ##HOLD##.`

	// CANDIDATE RECOMMENDATION (structured output, 3-5 entries)
	RecommenderSystemPrompt = `You are a helpful assistant for AI model recommendation.`

	RecommenderPrompt = `From the following catalog, pick the top %d models suitable for the user's requirement.
If the requirement spans multiple tasks, prefer models covering both.
%s
User needs:
%s

AI Model Catalog:
%s

Respond with ONLY a JSON array in this format:
[{"name": "<model name>", "reason": "<one-line reason>"}]`

	RecommenderExcludeClause = `Do NOT include the model "%s"; the user asked for an alternative to it.
`

	// PRICING ENRICHMENT. Policy: never "Unknown" - the model must degrade to
	// "Estimated" / "Likely" / "Not Public" wording instead.
	PricingPrompt = `You are a pricing analyst AI. Analyze and estimate pricing info for ONLY the models listed below.

For each model use your trusted knowledge base (latest known prices).

You must always return values for all of the following fields:
- price (in $, with unit such as "per 1k tokens" or "per image")
- provider (OpenAI, Google, Anthropic, Mistral, ...)
- region (Global, US, EU, ...)

If info is absolutely missing, use "Estimated", "Likely", or "Not Public" instead of "Unknown".

Respond with ONLY a JSON array in this format:
[{"name": "<model>", "price": "<price with unit>", "provider": "<provider>", "region": "<region>"}]

Models to analyze:
%s`

	// FINAL REPORT (exactly one pick, 7 fields, no blanks)
	ReportSystemPrompt = `You are a smart assistant generating final selection reports based on AI model recommendations. Output should be clean and accurate.`

	ReportPrompt = `You are an expert AI model selector.

1. User Requirement:
"""%s"""

2. Recommended Models:
%s

3. Pricing & Specs:
%s

Choose ONLY ONE best model and respond with ONLY a JSON object in this format:
{
  "name": "<model name>",
  "price": "<price with units>",
  "speed": "<descriptive speed>",
  "accuracy": "<percentage like 97.6%%>",
  "provider": "<cloud provider>",
  "region": "<deployment region>",
  "reason": "<clear reason why this model is best>"
}

Guidelines:
- Infer missing values (e.g. speed or accuracy) if not available.
- NEVER use "Not specified" or "Unknown".`

	// User-facing fallbacks. Raw transport errors never reach the user.
	ReplyEmptyInput      = "Input is empty. Please provide a requirement."
	ReplyNeedTaskContext = "I don't have a previous request to work from. Please describe the AI use-case you want help with."
	ReplyGreeting        = "Hello! Describe the task you want an AI model for and I'll recommend one."
	ReplySessionBusy     = "I'm still working on your previous request. Please try again in a moment."
	ReplyCapabilityDown  = "Something went wrong while analyzing your input. Please try again shortly."
	ReplyPipelineFailed  = "Sorry, something went wrong while generating the model selection report."

	CandidateCountMin = 3
	CandidateCountMax = 5
)

// GreetingTokens are matched exactly (trimmed, case-insensitive).
var GreetingTokens = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

// AlternativePhrases flag a request for a different recommendation than the
// one already selected.
var AlternativePhrases = []string{
	"another model",
	"other model",
	"different model",
	"other than this",
	"something else",
	"alternative",
	"instead of this",
}

// FollowUpKeywords only count as follow-up when the session already holds a
// selected recommendation.
var FollowUpKeywords = []string{
	"price", "cost", "pricing", "how much",
	"speed", "fast", "latency",
	"accuracy", "accurate",
	"provider", "cloud",
	"region", "availability", "available",
	"reason", "why",
}
