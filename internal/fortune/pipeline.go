package fortune

import (
	"context"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/cache"
	"github.com/fortunecookie-ai/fortune-api/internal/fingerprint"
	"github.com/fortunecookie-ai/fortune-api/internal/policy"
	"github.com/fortunecookie-ai/fortune-api/internal/quota"
	"github.com/fortunecookie-ai/fortune-api/internal/sanitize"
	"github.com/fortunecookie-ai/fortune-api/internal/telemetry"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// BlockedError reports a prompt rejected by injection detection.
type BlockedError struct {
	Rule    string
	Message string
}

func (e *BlockedError) Error() string { return e.Message }

// PolicyDeniedError reports a request denied by the content policy.
type PolicyDeniedError struct {
	Reason string
}

func (e *PolicyDeniedError) Error() string {
	if e.Reason == "" {
		return "Request denied by content policy"
	}
	return "Request denied by content policy: " + e.Reason
}

// Outcome is the successful result of a pipeline run.
type Outcome struct {
	Result *types.FortuneResult
	Quota  quota.Status
	Cached bool
}

// Pipeline runs a request through validation, sanitization, policy,
// caching, quota, and generation. Stage order matters: cached responses
// never consume quota, and quota is only checked on a cache miss.
type Pipeline struct {
	quota     quota.Store
	cache     cache.Store
	generator *Generator
	policy    *policy.Evaluator
	scanner   *sanitize.Scanner
	metrics   *telemetry.Metrics
	cacheTTL  func() time.Duration
}

func NewPipeline(q quota.Store, c cache.Store, g *Generator, p *policy.Evaluator, m *telemetry.Metrics, cacheTTL func() time.Duration) *Pipeline {
	if cacheTTL == nil {
		cacheTTL = func() time.Duration { return time.Hour }
	}
	return &Pipeline{
		quota:     q,
		cache:     c,
		generator: g,
		policy:    p,
		scanner:   sanitize.NewScanner(),
		metrics:   m,
		cacheTTL:  cacheTTL,
	}
}

// Process handles one request body for the given identity and tier.
// Errors are ErrInvalidJSON, *ValidationError, *BlockedError, or
// *PolicyDeniedError; any other outcome is a fortune.
func (p *Pipeline) Process(ctx context.Context, identity string, tier types.Tier, body []byte) (*Outcome, error) {
	req, err := ParseRequest(body)
	if err != nil {
		return nil, err
	}

	req.CustomPrompt = sanitize.Prompt(req.CustomPrompt)
	req.Scenario = sanitize.Prompt(req.Scenario)

	if det := p.scanner.Scan(req.CustomPrompt); len(det) > 0 {
		return nil, p.blocked(det[0].RuleName)
	}
	if det := p.scanner.Scan(req.Scenario); len(det) > 0 {
		return nil, p.blocked(det[0].RuleName)
	}

	if p.policy != nil && p.policy.Enabled() {
		allowed, reason := p.policy.Evaluate(ctx, policy.Input{
			Identity: policy.IdentityInput{ID: identity, Tier: string(tier)},
			Request: policy.RequestInput{
				Theme:    string(req.Theme),
				Prompt:   req.CustomPrompt,
				Scenario: req.Scenario,
				Language: req.Language,
			},
		})
		if !allowed {
			return nil, &PolicyDeniedError{Reason: reason}
		}
	}

	fp := fingerprint.Request(req)

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, fp); ok {
			if p.metrics != nil {
				p.metrics.RecordCacheHit(string(req.Theme))
			}
			status, _ := p.quota.Peek(ctx, identity, tier)
			return &Outcome{Result: cached, Quota: status, Cached: true}, nil
		}
	}

	res, err := p.quota.Consume(ctx, identity, tier)
	if err != nil {
		// Fail open: quota store trouble never blocks a request.
		res.Allowed = true
	}
	if !res.Allowed && p.metrics != nil {
		p.metrics.RecordQuotaDenied(string(tier))
	}

	result := p.generator.Generate(ctx, req, res.Allowed)

	// Fallback results are transient; caching them would pin degraded
	// output for the full TTL.
	if p.cache != nil && result.Source != types.SourceFallback {
		p.cache.Put(ctx, fp, result, p.cacheTTL())
	}

	return &Outcome{Result: result, Quota: res.Status}, nil
}

func (p *Pipeline) blocked(rule string) *BlockedError {
	if p.metrics != nil {
		p.metrics.RecordInjectionBlock(rule)
	}
	return &BlockedError{
		Rule:    rule,
		Message: "Prompt rejected: possible injection attempt",
	}
}
