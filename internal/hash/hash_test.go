package hash

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinglePassKnownVector(t *testing.T) {
	got := SinglePass{}.Digest("password")
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", got)
}

func TestIteratedSeedsFromPlaintext(t *testing.T) {
	// One round of Iterated is exactly one SinglePass; two rounds re-hash the
	// hex output of the first.
	sp := SinglePass{}
	assert.Equal(t, sp.Digest("pw"), Iterated{Rounds: 1}.Digest("pw"))
	assert.Equal(t, sp.Digest(sp.Digest("pw")), Iterated{Rounds: 2}.Digest("pw"))
}

func TestIteratedDeterministic(t *testing.T) {
	d := Iterated{Rounds: 1000}
	first := d.Digest("secret")
	assert.Equal(t, first, d.Digest("secret"))
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, SinglePass{}.Digest("secret"))
}

func TestMemoizedReturnsSameDigest(t *testing.T) {
	m, err := NewMemoized(SinglePass{}, 10)
	require.NoError(t, err)

	want := SinglePass{}.Digest("pw")
	assert.Equal(t, want, m.Digest("pw"))
	// Second call is served from the cache; value must not change.
	assert.Equal(t, want, m.Digest("pw"))
	assert.Equal(t, 1, m.Len())
}

func TestMemoizedCapacityBound(t *testing.T) {
	m, err := NewMemoized(SinglePass{}, 3)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		m.Digest(fmt.Sprintf("pw%d", i))
	}
	assert.Equal(t, 3, m.Len())

	// Evicted entries still digest correctly on refill.
	assert.Equal(t, SinglePass{}.Digest("pw0"), m.Digest("pw0"))
}

func TestMemoizedConcurrent(t *testing.T) {
	m, err := NewMemoized(SinglePass{}, 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				plaintext := fmt.Sprintf("pw%d", i%50)
				assert.Equal(t, SinglePass{}.Digest(plaintext), m.Digest(plaintext))
			}
		}(w)
	}
	wg.Wait()
}
