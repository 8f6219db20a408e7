// Package password wraps bcrypt hashing for stored user credentials.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher produces and verifies salted bcrypt digests. The cost factor is
// tunable so test suites can run fast while production stays expensive to
// brute-force.
type Hasher struct {
	cost int
}

// DefaultCost is the production cost factor.
const DefaultCost = bcrypt.DefaultCost

// NewHasher returns a Hasher with the given bcrypt cost. A cost outside the
// valid bcrypt range falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of plaintext. Each call embeds a fresh random
// salt, so hashing the same input twice yields different strings.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. The underlying
// comparison is constant-time. A malformed digest is never an error: it simply
// does not match.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
