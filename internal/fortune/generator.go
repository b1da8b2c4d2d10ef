package fortune

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/ai"
	"github.com/fortunecookie-ai/fortune-api/internal/messages"
	"github.com/fortunecookie-ai/fortune-api/internal/telemetry"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Generator selects a generation source for a request: AI completion when
// available and permitted, then the curated message store, then the static
// fallback. It never fails; every request produces a fortune.
type Generator struct {
	client    ai.Client
	breaker   *ai.CircuitBreaker
	store     messages.Store
	aiTimeout time.Duration
	metrics   *telemetry.Metrics
}

func NewGenerator(client ai.Client, breaker *ai.CircuitBreaker, store messages.Store, aiTimeout time.Duration, metrics *telemetry.Metrics) *Generator {
	if aiTimeout <= 0 {
		aiTimeout = 10 * time.Second
	}
	return &Generator{
		client:    client,
		breaker:   breaker,
		store:     store,
		aiTimeout: aiTimeout,
		metrics:   metrics,
	}
}

// Generate produces a fortune for the validated request. aiAllowed is false
// when the caller's quota is exhausted; the request still succeeds from a
// non-AI source.
func (g *Generator) Generate(ctx context.Context, req *types.FortuneRequest, aiAllowed bool) *types.FortuneResult {
	if msg, ok := g.tryAI(ctx, req, aiAllowed); ok {
		return g.assemble(msg, string(req.Theme), types.SourceAI)
	}

	if g.store != nil {
		msg, err := g.store.FindByTheme(ctx, req.Theme, req.Mood, req.Length)
		if err != nil {
			slog.Warn("message store lookup failed", "error", err, "theme", req.Theme)
		} else if msg != nil {
			return g.assemble(msg.Text, string(msg.Theme), types.SourceDatabase)
		}
	}

	return g.assemble(messages.FallbackText, string(req.Theme), types.SourceFallback)
}

func (g *Generator) tryAI(ctx context.Context, req *types.FortuneRequest, aiAllowed bool) (string, bool) {
	if !aiAllowed || g.client == nil {
		return "", false
	}
	if g.breaker != nil && !g.breaker.Allow() {
		g.recordAIFailure("circuit_open")
		return "", false
	}

	aiCtx, cancel := context.WithTimeout(ctx, g.aiTimeout)
	defer cancel()

	text, err := g.client.Complete(aiCtx, ai.BuildPrompt(req))
	if err != nil {
		if g.breaker != nil {
			g.breaker.RecordFailure()
		}
		g.recordAIFailure("error")
		slog.Warn("ai generation failed", "error", err, "theme", req.Theme)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		if g.breaker != nil {
			g.breaker.RecordFailure()
		}
		g.recordAIFailure("empty")
		return "", false
	}

	if g.breaker != nil {
		g.breaker.RecordSuccess()
	}
	return text, true
}

func (g *Generator) assemble(message, theme string, source types.Source) *types.FortuneResult {
	return &types.FortuneResult{
		Message:      message,
		LuckyNumbers: LuckyNumbers(),
		Theme:        theme,
		Source:       source,
		Timestamp:    types.NewTimestamp(time.Now()),
	}
}

func (g *Generator) recordAIFailure(reason string) {
	if g.metrics != nil {
		g.metrics.RecordAIFailure(reason)
	}
}
