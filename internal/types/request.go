package types

// Theme selects the flavor of a generated fortune.
type Theme string

const (
	ThemeFunny         Theme = "funny"
	ThemeInspirational Theme = "inspirational"
	ThemeLove          Theme = "love"
	ThemeSuccess       Theme = "success"
	ThemeWisdom        Theme = "wisdom"
	ThemeRandom        Theme = "random"
)

// Themes lists every valid theme value.
func Themes() []Theme {
	return []Theme{ThemeFunny, ThemeInspirational, ThemeLove, ThemeSuccess, ThemeWisdom, ThemeRandom}
}

func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeFunny, ThemeInspirational, ThemeLove, ThemeSuccess, ThemeWisdom, ThemeRandom:
		return Theme(s), true
	default:
		return "", false
	}
}

// Mood narrows the emotional register of a fortune. Optional.
type Mood string

const (
	MoodPositive     Mood = "positive"
	MoodNeutral      Mood = "neutral"
	MoodMotivational Mood = "motivational"
	MoodHumorous     Mood = "humorous"
)

func Moods() []Mood {
	return []Mood{MoodPositive, MoodNeutral, MoodMotivational, MoodHumorous}
}

func ParseMood(s string) (Mood, bool) {
	switch Mood(s) {
	case MoodPositive, MoodNeutral, MoodMotivational, MoodHumorous:
		return Mood(s), true
	default:
		return "", false
	}
}

// Length controls how long the generated message should be. Optional.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

func Lengths() []Length {
	return []Length{LengthShort, LengthMedium, LengthLong}
}

func ParseLength(s string) (Length, bool) {
	switch Length(s) {
	case LengthShort, LengthMedium, LengthLong:
		return Length(s), true
	default:
		return "", false
	}
}

// FortuneRequest is the normalized, validated form of an incoming request.
// CustomPrompt holds the sanitized prompt text; raw caller input never
// travels past validation.
type FortuneRequest struct {
	Theme        Theme  `json:"theme"`
	Mood         Mood   `json:"mood,omitempty"`
	Length       Length `json:"length,omitempty"`
	CustomPrompt string `json:"customPrompt,omitempty"`

	// Free-form personalization fields, passed through to generation
	// unvalidated beyond type.
	Scenario string `json:"scenario,omitempty"`
	Tone     string `json:"tone,omitempty"`
	Language string `json:"language,omitempty"`
}

// RawRequest is the wire shape of a request body before validation.
// Pointer fields distinguish "absent" from "present but empty".
type RawRequest struct {
	Theme        *string `json:"theme"`
	Mood         *string `json:"mood"`
	Length       *string `json:"length"`
	CustomPrompt *string `json:"customPrompt"`
	Scenario     string  `json:"scenario"`
	Tone         string  `json:"tone"`
	Language     string  `json:"language"`
}
