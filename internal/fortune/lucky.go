package fortune

import (
	"math/rand/v2"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// LuckyNumbers draws the fixed set of distinct lucky numbers attached to
// every fortune, each in [1, LuckyNumberMax].
func LuckyNumbers() []int {
	seen := make(map[int]bool, types.LuckyNumberCount)
	numbers := make([]int, 0, types.LuckyNumberCount)
	for len(numbers) < types.LuckyNumberCount {
		n := rand.IntN(types.LuckyNumberMax) + 1
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}
