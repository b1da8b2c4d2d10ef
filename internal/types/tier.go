package types

// Tier classifies the caller for quota purposes. Higher tiers get higher
// request ceilings.
type Tier string

const (
	TierPublic        Tier = "public"
	TierAuthenticated Tier = "authenticated"
	TierElevated      Tier = "elevated"
)

// Level returns a numeric rank for comparison. Higher means more generous.
func (t Tier) Level() int {
	switch t {
	case TierPublic:
		return 0
	case TierAuthenticated:
		return 1
	case TierElevated:
		return 2
	default:
		return -1
	}
}

func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierPublic, TierAuthenticated, TierElevated:
		return Tier(s), true
	default:
		return "", false
	}
}
