// Package messages serves curated fortune text when the AI provider is
// unavailable or quota is exhausted.
package messages

import (
	"context"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Message is a curated fortune.
type Message struct {
	ID     int64
	Text   string
	Theme  types.Theme
	Mood   types.Mood
	Length types.Length
}

// Store looks up curated fortunes. Mood and length are soft filters: a
// store prefers matching entries but may return any entry for the theme.
// A nil result with nil error means no entry exists for the theme.
type Store interface {
	FindByTheme(ctx context.Context, theme types.Theme, mood types.Mood, length types.Length) (*Message, error)
}
