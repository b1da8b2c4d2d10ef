package policy

import (
	"context"
	"testing"
	"time"
)

func testCfg() func() Config {
	return func() Config {
		return Config{
			Enabled:           true,
			EvaluationTimeout: 100 * time.Millisecond,
		}
	}
}

const defaultPolicy = `
package fortune.policy

import rego.v1

default allow := true
default reason := ""

deny contains msg if {
	input.request.theme == "love"
	input.identity.tier == "public"
	msg := "love fortunes require an API key"
}

deny contains msg if {
	contains(lower(input.request.prompt), "lottery numbers")
	msg := "we do not predict lottery outcomes"
}

allow := false if {
	count(deny) > 0
}

reason := concat("; ", deny) if {
	count(deny) > 0
}
`

func loadTestEvaluator(t *testing.T, policy string) *Evaluator {
	t.Helper()
	e := NewEvaluator(testCfg())
	if err := e.LoadFromModules(map[string]string{"test.rego": policy}); err != nil {
		t.Fatalf("failed to load policy: %v", err)
	}
	return e
}

func TestEvaluator_AllowByDefault(t *testing.T) {
	e := loadTestEvaluator(t, defaultPolicy)

	allowed, reason := e.Evaluate(context.Background(), Input{
		Identity: IdentityInput{ID: "ip:1.2.3.4", Tier: "public"},
		Request:  RequestInput{Theme: "funny", Prompt: "something about cats"},
	})
	if !allowed {
		t.Errorf("expected allowed, got denied: %s", reason)
	}
}

func TestEvaluator_DenyByRule(t *testing.T) {
	e := loadTestEvaluator(t, defaultPolicy)

	allowed, reason := e.Evaluate(context.Background(), Input{
		Identity: IdentityInput{ID: "ip:1.2.3.4", Tier: "public"},
		Request:  RequestInput{Theme: "love"},
	})
	if allowed {
		t.Error("expected deny for public love theme rule")
	}
	if reason == "" {
		t.Error("expected non-empty reason")
	}
}

func TestEvaluator_PromptRule(t *testing.T) {
	e := loadTestEvaluator(t, defaultPolicy)

	allowed, _ := e.Evaluate(context.Background(), Input{
		Identity: IdentityInput{Tier: "elevated"},
		Request:  RequestInput{Theme: "success", Prompt: "give me the Lottery Numbers please"},
	})
	if allowed {
		t.Error("expected deny by prompt content rule")
	}
}

func TestEvaluator_NoPoliciesLoaded_AllowsAll(t *testing.T) {
	e := NewEvaluator(testCfg())
	// Nothing loaded: the opt-in policy stage passes everything through.
	allowed, _ := e.Evaluate(context.Background(), Input{})
	if !allowed {
		t.Error("expected allow when no policies loaded")
	}
}

func TestEvaluator_Disabled(t *testing.T) {
	e := NewEvaluator(func() Config { return Config{Enabled: false} })
	if e.Enabled() {
		t.Error("expected evaluator to be disabled")
	}
}

func TestEvaluator_DenyAllPolicy(t *testing.T) {
	denyAll := `
package fortune.policy

import rego.v1

allow := false
reason := "all requests denied"
`
	e := loadTestEvaluator(t, denyAll)

	allowed, reason := e.Evaluate(context.Background(), Input{
		Request: RequestInput{Theme: "funny"},
	})
	if allowed {
		t.Error("expected denied by deny-all policy")
	}
	if reason != "all requests denied" {
		t.Errorf("expected 'all requests denied', got %s", reason)
	}
}
