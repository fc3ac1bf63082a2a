package security

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes of its input and rejects longer ones.
const bcryptMaxInput = 72

// Hasher produces salted one-way password digests with bcrypt.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{cost: cost}
}

// Hash returns a bcrypt hash of plain with a fresh random salt, so two calls never match.
func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prepare(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify compares plain against a hash produced by Hash in constant time.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(plain)) == nil
}

// long inputs are digested first so every byte counts and bcrypt never refuses them
func prepare(plain string) []byte {
	if len(plain) <= bcryptMaxInput {
		return []byte(plain)
	}

	sum := sha256.Sum256([]byte(plain))

	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
