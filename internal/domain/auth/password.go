package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinSecretLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxSecretLength = 72
)

type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int {
	return h.cost
}

func (h *Hasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *Hasher) Compare(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// CompareDummy burns the same work as a real comparison for lookups that
// found no account.
func (h *Hasher) CompareDummy(secret string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("workforce-dummy-secret"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(secret))
}
