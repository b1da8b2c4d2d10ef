// Package policy evaluates optional Rego content policies over sanitized
// requests, letting operators block prompt/theme combinations without a
// code change.
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/open-policy-agent/opa/rego"
)

// Input is the data sent to OPA for evaluation.
type Input struct {
	Identity IdentityInput `json:"identity"`
	Request  RequestInput  `json:"request"`
}

type IdentityInput struct {
	ID   string `json:"id"`
	Tier string `json:"tier"`
}

type RequestInput struct {
	Theme    string `json:"theme"`
	Prompt   string `json:"prompt"`
	Scenario string `json:"scenario"`
	Language string `json:"language"`
}

// Config controls policy evaluation.
type Config struct {
	Enabled           bool
	BundlePath        string
	EvaluationTimeout time.Duration
}

// Evaluator compiles and evaluates Rego modules under
// data.fortune.policy.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() Config
}

// NewEvaluator creates a policy evaluator. Call Load to compile policies.
func NewEvaluator(cfg func() Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the configured bundle path.
func (e *Evaluator) Load() error {
	cfg := e.cfg()
	modules, err := LoadRegoFiles(cfg.BundlePath)
	if err != nil {
		return fmt.Errorf("load rego files: %w", err)
	}
	if len(modules) == 0 {
		slog.Warn("no rego files found", "path", cfg.BundlePath)
		return nil
	}
	if err := e.LoadFromModules(modules); err != nil {
		return err
	}
	slog.Info("content policies loaded", "modules", len(modules))
	return nil
}

// LoadFromModules compiles policies from provided module sources (useful
// for testing).
func (e *Evaluator) LoadFromModules(modules map[string]string) error {
	r := rego.New(
		rego.Query("[data.fortune.policy.allow, data.fortune.policy.reason]"),
		func() func(*rego.Rego) {
			mods := make([]func(*rego.Rego), 0, len(modules))
			for name, src := range modules {
				mods = append(mods, rego.Module(name, src))
			}
			return func(r *rego.Rego) {
				for _, m := range mods {
					m(r)
				}
			}
		}(),
	)

	prepared, err := r.PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()
	return nil
}

// Evaluate runs the policy against the given input. With no policies
// loaded the request is allowed: the policy stage is opt-in, unlike the
// sanitizer which always runs.
func (e *Evaluator) Evaluate(ctx context.Context, input Input) (bool, string) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		return true, ""
	}

	cfg := e.cfg()
	timeout := cfg.EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := prepared.Eval(evalCtx, rego.EvalInput(input))
	if err != nil {
		slog.Error("policy evaluation failed", "error", err)
		return true, ""
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return true, ""
	}

	// Result is [allow, reason]
	arr, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(arr) < 2 {
		return true, ""
	}

	allowed, _ := arr[0].(bool)
	reason, _ := arr[1].(string)
	return allowed, reason
}
