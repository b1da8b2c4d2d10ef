package messages

import (
	"context"
	"math/rand/v2"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// FallbackText is the always-available generic fortune served when both
// the AI provider and the curated store come up empty.
const FallbackText = "Fortune favors you today. Keep your eyes open for a small, unexpected joy."

var corpus = map[types.Theme][]Message{
	types.ThemeFunny: {
		{Text: "You will soon be hungry again. Order dessert.", Mood: types.MoodHumorous, Length: types.LengthShort},
		{Text: "He who laughs last is probably still reading the group chat.", Mood: types.MoodHumorous, Length: types.LengthMedium},
		{Text: "A closed mouth gathers no feet. A closed laptop gathers no meetings.", Mood: types.MoodHumorous, Length: types.LengthMedium},
		{Text: "Your socks will finally match on the day nobody is looking.", Mood: types.MoodHumorous, Length: types.LengthMedium},
	},
	types.ThemeInspirational: {
		{Text: "The best time to plant a tree was yesterday. The second best time is now.", Mood: types.MoodMotivational, Length: types.LengthMedium},
		{Text: "Small steps taken daily carry you further than leaps taken rarely.", Mood: types.MoodMotivational, Length: types.LengthMedium},
		{Text: "Begin, and the path appears.", Mood: types.MoodPositive, Length: types.LengthShort},
	},
	types.ThemeLove: {
		{Text: "An open heart will find its echo.", Mood: types.MoodPositive, Length: types.LengthShort},
		{Text: "The warmth you give away today returns to you doubled by evening.", Mood: types.MoodPositive, Length: types.LengthMedium},
		{Text: "Someone is thinking of you more often than you suspect.", Mood: types.MoodNeutral, Length: types.LengthMedium},
	},
	types.ThemeSuccess: {
		{Text: "Your persistence is about to pay a long-overdue debt.", Mood: types.MoodMotivational, Length: types.LengthMedium},
		{Text: "Opportunity knocks softly. Keep the hallway quiet.", Mood: types.MoodNeutral, Length: types.LengthShort},
		{Text: "The project you doubt most is the one that will open the next door.", Mood: types.MoodMotivational, Length: types.LengthMedium},
	},
	types.ThemeWisdom: {
		{Text: "A wise person hears one word and understands two.", Mood: types.MoodNeutral, Length: types.LengthShort},
		{Text: "Patience is not waiting; it is how you act while waiting.", Mood: types.MoodNeutral, Length: types.LengthMedium},
		{Text: "The obstacle in the path becomes the path.", Mood: types.MoodNeutral, Length: types.LengthShort},
	},
}

func init() {
	for theme, msgs := range corpus {
		for i := range msgs {
			msgs[i].Theme = theme
		}
	}
}

// StaticStore implements Store from a built-in corpus. Used when no
// database is configured and as the seed content for tests.
type StaticStore struct {
	intn func(n int) int
}

func NewStaticStore() *StaticStore {
	return &StaticStore{intn: rand.IntN}
}

func (s *StaticStore) FindByTheme(_ context.Context, theme types.Theme, mood types.Mood, length types.Length) (*Message, error) {
	pool := corpus[theme]
	if theme == types.ThemeRandom {
		for _, msgs := range corpus {
			pool = append(pool, msgs...)
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	// Soft filters: prefer entries matching mood then length, fall back to
	// any entry for the theme.
	best := filter(pool, func(m Message) bool { return mood != "" && m.Mood == mood })
	if len(best) == 0 {
		best = pool
	}
	if narrowed := filter(best, func(m Message) bool { return length != "" && m.Length == length }); len(narrowed) > 0 {
		best = narrowed
	}

	m := best[s.intn(len(best))]
	return &m, nil
}

func filter(in []Message, keep func(Message) bool) []Message {
	var out []Message
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

var _ Store = (*StaticStore)(nil)
