package fortune

import (
	"encoding/json"
	"errors"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// ErrInvalidJSON marks a request body that could not be parsed at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// ValidationError reports a well-formed body with an invalid field value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseRequest parses and validates a request body into its normalized
// form. An absent or empty theme defaults to random. Mood and length are
// optional but must be valid enum values when present.
func ParseRequest(body []byte) (*types.FortuneRequest, error) {
	var raw types.RawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrInvalidJSON
	}

	req := &types.FortuneRequest{
		Theme:    types.ThemeRandom,
		Scenario: raw.Scenario,
		Tone:     raw.Tone,
		Language: raw.Language,
	}

	if raw.Theme != nil && *raw.Theme != "" {
		theme, ok := types.ParseTheme(*raw.Theme)
		if !ok {
			return nil, &ValidationError{Message: "Invalid theme: " + *raw.Theme}
		}
		req.Theme = theme
	}

	if raw.Mood != nil && *raw.Mood != "" {
		mood, ok := types.ParseMood(*raw.Mood)
		if !ok {
			return nil, &ValidationError{Message: "Invalid mood: " + *raw.Mood}
		}
		req.Mood = mood
	}

	if raw.Length != nil && *raw.Length != "" {
		length, ok := types.ParseLength(*raw.Length)
		if !ok {
			return nil, &ValidationError{Message: "Invalid length: " + *raw.Length}
		}
		req.Length = length
	}

	if raw.CustomPrompt != nil {
		req.CustomPrompt = *raw.CustomPrompt
	}

	return req, nil
}
