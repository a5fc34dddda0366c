package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumOfSquaresFixedBound(t *testing.T) {
	const want = int64(333328333350000)
	assert.Equal(t, want, SumOfSquares(DefaultIterations))
	assert.Equal(t, want, SumOfSquaresWasteful(DefaultIterations))
}

func TestVariantsAgree(t *testing.T) {
	for _, n := range []int{0, 1, 2, 999, 1000, 1001, 5000} {
		assert.Equal(t, SumOfSquares(n), SumOfSquaresWasteful(n), "n=%d", n)
	}
}

func TestSumOfSquaresSmall(t *testing.T) {
	assert.Equal(t, int64(0), SumOfSquares(0))
	assert.Equal(t, int64(0), SumOfSquares(1))  // only i=0
	assert.Equal(t, int64(5), SumOfSquares(3))  // 0+1+4
	assert.Equal(t, int64(14), SumOfSquares(4)) // 0+1+4+9
}
