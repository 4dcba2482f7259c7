package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/pkg/llm"

	"github.com/redis/go-redis/v9"
)

// PricingInfo is the per-candidate enrichment produced by the pricing stage.
// Fields are always populated: missing data is annotated "Estimated", never
// surfaced to the user as "Unknown".
type PricingInfo struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Provider string `json:"provider"`
	Region   string `json:"region"`
}

const (
	pricingCacheKeyPrefix = "pricing:"
	pricingCacheTTL       = 12 * time.Hour
)

// Pricing enriches a candidate list with price/provider/region attributes.
// Lookups are cached in Redis by model name; the cache is best-effort and a
// nil client or a cache error degrades to a direct LLM call.
type Pricing struct {
	llmProvider llm.LLMProvider
	rdb         *redis.Client
	logger      *log.Logger
}

func NewPricing(llmProvider llm.LLMProvider, rdb *redis.Client, logger *log.Logger) *Pricing {
	return &Pricing{
		llmProvider: llmProvider,
		rdb:         rdb,
		logger:      logger,
	}
}

// Enrich returns exactly one PricingInfo per candidate, in candidate order.
// Never returns an error: a failed or malformed lookup degrades to estimated
// values for the affected candidates.
func (p *Pricing) Enrich(ctx context.Context, candidates []Candidate) []PricingInfo {
	byName := make(map[string]PricingInfo, len(candidates))
	missing := make([]string, 0, len(candidates))

	for _, c := range candidates {
		if cached, ok := p.fromCache(ctx, c.Name); ok {
			byName[strings.ToLower(c.Name)] = cached
			continue
		}
		missing = append(missing, c.Name)
	}

	if len(missing) > 0 {
		for _, info := range p.lookup(ctx, missing) {
			byName[strings.ToLower(info.Name)] = info
			p.toCache(ctx, info)
		}
	}

	result := make([]PricingInfo, 0, len(candidates))
	for _, c := range candidates {
		info, ok := byName[strings.ToLower(c.Name)]
		if !ok {
			info = estimatedPricing(c.Name)
		}
		result = append(result, sanitizePricing(info))
	}
	return result
}

func (p *Pricing) lookup(ctx context.Context, names []string) []PricingInfo {
	var list strings.Builder
	for _, name := range names {
		fmt.Fprintf(&list, "- %s\n", name)
	}

	response, err := p.llmProvider.Generate(ctx,
		fmt.Sprintf(constant.PricingPrompt, list.String()),
		llm.WithTemperature(0.0),
	)
	if err != nil {
		p.logger.Printf("[PRICING] LLM call failed: %v", err)
		return estimatedForAll(names)
	}

	raw := extractJSONArray(response)
	if raw == "" {
		p.logger.Printf("[PRICING] Malformed reply, no JSON array (raw: %s)", truncate(response, 200))
		return estimatedForAll(names)
	}

	var parsed []PricingInfo
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		p.logger.Printf("[PRICING] Malformed reply: %v", err)
		return estimatedForAll(names)
	}
	return parsed
}

func (p *Pricing) fromCache(ctx context.Context, name string) (PricingInfo, bool) {
	if p.rdb == nil {
		return PricingInfo{}, false
	}
	data, err := p.rdb.Get(ctx, pricingCacheKeyPrefix+strings.ToLower(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.logger.Printf("[PRICING] Cache read failed for %s: %v", name, err)
		}
		return PricingInfo{}, false
	}
	var info PricingInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return PricingInfo{}, false
	}
	return info, true
}

func (p *Pricing) toCache(ctx context.Context, info PricingInfo) {
	if p.rdb == nil || info.Name == "" {
		return
	}
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, pricingCacheKeyPrefix+strings.ToLower(info.Name), data, pricingCacheTTL).Err(); err != nil {
		p.logger.Printf("[PRICING] Cache write failed for %s: %v", info.Name, err)
	}
}

func estimatedForAll(names []string) []PricingInfo {
	result := make([]PricingInfo, 0, len(names))
	for _, name := range names {
		result = append(result, estimatedPricing(name))
	}
	return result
}

func estimatedPricing(name string) PricingInfo {
	return PricingInfo{
		Name:     name,
		Price:    "Estimated",
		Provider: "Not Public",
		Region:   "Likely Global",
	}
}

// sanitizePricing enforces the no-"Unknown" policy on whatever the model
// returned.
func sanitizePricing(info PricingInfo) PricingInfo {
	if isBlankOrUnknown(info.Price) {
		info.Price = "Estimated"
	}
	if isBlankOrUnknown(info.Provider) {
		info.Provider = "Not Public"
	}
	if isBlankOrUnknown(info.Region) {
		info.Region = "Likely Global"
	}
	return info
}

func isBlankOrUnknown(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return t == "" || t == "unknown" || t == "n/a" || t == "not specified"
}
