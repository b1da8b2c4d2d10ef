package ai

import (
	"fmt"
	"strings"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

var lengthHints = map[types.Length]string{
	types.LengthShort:  "at most 10 words",
	types.LengthMedium: "one sentence of 10 to 20 words",
	types.LengthLong:   "two sentences, up to 40 words",
}

// BuildPrompt composes the user prompt for the completion endpoint from a
// validated request. CustomPrompt is already sanitized by the pipeline.
func BuildPrompt(req *types.FortuneRequest) string {
	var b strings.Builder

	if req.Theme == types.ThemeRandom {
		b.WriteString("Write a fortune cookie message on any theme.")
	} else {
		fmt.Fprintf(&b, "Write a fortune cookie message about %s.", req.Theme)
	}

	if req.Mood != "" {
		fmt.Fprintf(&b, " The mood should be %s.", req.Mood)
	}
	if hint, ok := lengthHints[req.Length]; ok {
		fmt.Fprintf(&b, " Keep it to %s.", hint)
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, " Use a %s tone.", req.Tone)
	}
	if req.Scenario != "" {
		fmt.Fprintf(&b, " The occasion: %s.", req.Scenario)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, " Write it in %s.", req.Language)
	}
	if req.CustomPrompt != "" {
		fmt.Fprintf(&b, " Consider this request from the reader: %s", req.CustomPrompt)
	}

	return b.String()
}
