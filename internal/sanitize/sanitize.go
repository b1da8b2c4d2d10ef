// Package sanitize neutralizes unsafe or manipulative content in caller
// supplied prompt text before it reaches generation.
package sanitize

import "regexp"

// MaxPromptLen caps the sanitized prompt length in characters.
const MaxPromptLen = 500

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	tagPattern       = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>`)
	jsSchemePattern  = regexp.MustCompile(`(?i)javascript:`)
	eventAttrPattern = regexp.MustCompile(`(?i)\bon[a-zA-Z]+\s*=`)
)

// Prompt strips markup and script fragments from raw prompt text and caps
// its length. Total over all inputs: empty in, empty out; never errors.
// Idempotent: Prompt(Prompt(x)) == Prompt(x).
func Prompt(raw string) string {
	if raw == "" {
		return ""
	}

	// Strip to a fixpoint so removals cannot splice new matches together
	// (e.g. "jav<b>ascript:" style nesting).
	s := raw
	for {
		prev := s
		s = scriptTagPattern.ReplaceAllString(s, "")
		s = tagPattern.ReplaceAllString(s, "")
		s = jsSchemePattern.ReplaceAllString(s, "")
		s = eventAttrPattern.ReplaceAllString(s, "")
		if s == prev {
			break
		}
	}

	if runes := []rune(s); len(runes) > MaxPromptLen {
		s = string(runes[:MaxPromptLen])
	}
	return s
}

// Detection records a matched injection rule.
type Detection struct {
	RuleName string
	Category string
	Start    int
	End      int
}

// Scanner scans sanitized prompt text for injection phrasings.
type Scanner struct {
	rules []Rule
}

// NewScanner creates a scanner with the default rule table.
func NewScanner() *Scanner {
	return &Scanner{rules: DefaultRules()}
}

// Scan returns all rule matches in text. Run it on sanitized output so tag
// stripping cannot be used to split a phrase across markup.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, r := range s.rules {
		locs := r.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			detections = append(detections, Detection{
				RuleName: r.Name,
				Category: r.Category,
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}
	return detections
}
