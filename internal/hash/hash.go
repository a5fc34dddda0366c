// Package hash implements the credential digest policies for both server
// modes: an iterated digest that re-hashes its own hex output many times, a
// single-pass digest, and a bounded memoizing decorator for the latter.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Digester derives a fixed-length hex digest from a plaintext credential.
// Implementations are deterministic and side-effect-free for a given input.
type Digester interface {
	Digest(plaintext string) string
}

func sum(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Iterated feeds the digest back into itself Rounds times, seeded by the
// plaintext on the first round. Pure CPU cost with no security rationale.
type Iterated struct {
	Rounds int
}

func (d Iterated) Digest(plaintext string) string {
	result := plaintext
	for i := 0; i < d.Rounds; i++ {
		result = sum(result)
	}
	return result
}

// SinglePass applies the digest function exactly once.
type SinglePass struct{}

func (SinglePass) Digest(plaintext string) string {
	return sum(plaintext)
}

// Memoized caches digests by plaintext in a fixed-capacity LRU. Safe for
// concurrent use by multiple request handlers.
type Memoized struct {
	next  Digester
	cache *lru.Cache[string, string]
}

// NewMemoized wraps next with an LRU of the given capacity.
func NewMemoized(next Digester, capacity int) (*Memoized, error) {
	cache, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("hash: cache: %w", err)
	}
	return &Memoized{next: next, cache: cache}, nil
}

func (m *Memoized) Digest(plaintext string) string {
	if v, ok := m.cache.Get(plaintext); ok {
		return v
	}
	v := m.next.Digest(plaintext)
	m.cache.Add(plaintext, v)
	return v
}

// Len reports how many distinct plaintexts are currently cached.
func (m *Memoized) Len() int {
	return m.cache.Len()
}
