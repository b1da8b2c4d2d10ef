package types

import "time"

// Source identifies which generation path produced a fortune.
type Source string

const (
	SourceAI       Source = "ai"
	SourceDatabase Source = "database"
	SourceFallback Source = "fallback"
)

// LuckyNumberCount is the number of lucky numbers on every fortune.
const LuckyNumberCount = 6

// LuckyNumberMax bounds the lucky number range [1, LuckyNumberMax].
const LuckyNumberMax = 63

// FortuneResult is the payload returned to the caller on success.
type FortuneResult struct {
	Message      string `json:"message"`
	LuckyNumbers []int  `json:"luckyNumbers"`
	Theme        string `json:"theme"`
	Source       Source `json:"source"`
	Timestamp    string `json:"timestamp"`
}

// NewTimestamp formats t the way FortuneResult carries it on the wire.
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
