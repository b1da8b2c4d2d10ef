package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// PGStore implements Store against the fortunes table.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// FindByTheme picks a random fortune for the theme, preferring rows whose
// mood and length match the soft filters. Random themes draw from the
// whole table.
func (s *PGStore) FindByTheme(ctx context.Context, theme types.Theme, mood types.Mood, length types.Length) (*Message, error) {
	query := `
		SELECT id, text, theme, mood, length
		FROM fortunes
		WHERE theme = $1
		ORDER BY (mood = $2) DESC, (length = $3) DESC, random()
		LIMIT 1
	`
	args := []any{string(theme), string(mood), string(length)}
	if theme == types.ThemeRandom {
		query = `
			SELECT id, text, theme, mood, length
			FROM fortunes
			ORDER BY (mood = $1) DESC, (length = $2) DESC, random()
			LIMIT 1
		`
		args = []any{string(mood), string(length)}
	}

	var m Message
	err := s.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Text, &m.Theme, &m.Mood, &m.Length)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query fortunes: %w", err)
	}
	return &m, nil
}

var _ Store = (*PGStore)(nil)
