package sanitize

import "regexp"

// Rule defines a prompt injection detection pattern.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Category string // "instruction_bypass", "role_override", "output_steering"
}

// DefaultRules returns the built-in injection detection rules. Any match
// rejects the request; the rule table exists so logs and metrics can name
// what fired.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "ignore_previous",
			Regex:    regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
			Category: "instruction_bypass",
		},
		{
			Name:     "disregard_prior",
			Regex:    regexp.MustCompile(`(?i)disregard\s+(all\s+)?prior\s+(commands|instructions|context|rules)`),
			Category: "instruction_bypass",
		},
		{
			Name:     "forget_everything",
			Regex:    regexp.MustCompile(`(?i)forget\s+everything\s+and`),
			Category: "instruction_bypass",
		},
		{
			Name:     "new_system_prompt",
			Regex:    regexp.MustCompile(`(?i)(new|updated|revised)\s+system\s+prompt\s*:`),
			Category: "role_override",
		},
		{
			Name:     "you_are_now",
			Regex:    regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\s+`),
			Category: "role_override",
		},
		{
			Name:     "system_prefix",
			Regex:    regexp.MustCompile(`(?i)^\s*system\s*:\s*`),
			Category: "role_override",
		},
		{
			Name:     "response_prefix",
			Regex:    regexp.MustCompile(`(?i)respond\s+with\s*:\s*(sure|absolutely|of course)`),
			Category: "output_steering",
		},
	}
}
