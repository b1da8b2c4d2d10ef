// Package fingerprint derives stable cache keys from normalized requests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// keyLen is the number of hex characters kept from the digest. Half a
// SHA-256 is plenty to avoid accidental cross-request cache pollution.
const keyLen = 32

// Request returns a deterministic fingerprint over every semantically
// relevant field of req. Field-identical requests always map to the same
// fingerprint; CustomPrompt must already be sanitized.
func Request(req *types.FortuneRequest) string {
	var b strings.Builder
	b.WriteString("theme:")
	b.WriteString(string(req.Theme))
	b.WriteString("|mood:")
	b.WriteString(string(req.Mood))
	b.WriteString("|length:")
	b.WriteString(string(req.Length))
	b.WriteString("|prompt:")
	b.WriteString(req.CustomPrompt)
	b.WriteString("|scenario:")
	b.WriteString(req.Scenario)
	b.WriteString("|tone:")
	b.WriteString(req.Tone)
	b.WriteString("|language:")
	b.WriteString(req.Language)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:keyLen]
}
