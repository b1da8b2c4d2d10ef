package messages

import (
	"context"
	"testing"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

func TestStaticStore_EveryTheme(t *testing.T) {
	s := NewStaticStore()
	ctx := context.Background()

	for _, theme := range types.Themes() {
		m, err := s.FindByTheme(ctx, theme, "", "")
		if err != nil {
			t.Fatalf("theme %s: unexpected error: %v", theme, err)
		}
		if m == nil {
			t.Fatalf("theme %s: expected a curated message", theme)
		}
		if m.Text == "" {
			t.Errorf("theme %s: empty message text", theme)
		}
	}
}

func TestStaticStore_MoodSoftFilter(t *testing.T) {
	s := NewStaticStore()
	s.intn = func(n int) int { return 0 }
	ctx := context.Background()

	m, err := s.FindByTheme(ctx, types.ThemeLove, types.MoodNeutral, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Mood != types.MoodNeutral {
		t.Errorf("expected neutral mood preferred, got %s", m.Mood)
	}

	// A mood with no matching entry still returns something for the theme.
	m, err = s.FindByTheme(ctx, types.ThemeWisdom, types.MoodHumorous, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil {
		t.Fatal("soft filter must not turn into a hard miss")
	}
}

func TestStaticStore_RandomDrawsFromAll(t *testing.T) {
	s := NewStaticStore()
	ctx := context.Background()

	seen := map[types.Theme]bool{}
	for i := 0; i < 200; i++ {
		m, err := s.FindByTheme(ctx, types.ThemeRandom, "", "")
		if err != nil || m == nil {
			t.Fatalf("unexpected miss: %v", err)
		}
		seen[m.Theme] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected random theme to draw across the corpus, saw %d themes", len(seen))
	}
}

func TestStaticStore_ThemeTagged(t *testing.T) {
	s := NewStaticStore()
	m, err := s.FindByTheme(context.Background(), types.ThemeFunny, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Theme != types.ThemeFunny {
		t.Errorf("expected theme tag funny, got %s", m.Theme)
	}
}
