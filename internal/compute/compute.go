// Package compute holds the CPU-load kernels behind the /heavy endpoint.
// Both variants return the same sum; they differ only in wasted work.
package compute

import (
	"strconv"
	"strings"
)

// DefaultIterations is the fixed upper bound of the sum-of-squares loop.
const DefaultIterations = 100000

// SumOfSquares returns the sum of i*i for i in [0, n).
func SumOfSquares(n int) int64 {
	var result int64
	for i := 0; i < n; i++ {
		result += int64(i) * int64(i)
	}
	return result
}

// SumOfSquaresWasteful computes the same sum but, every 1000th iteration,
// builds and truncates a throwaway string from the running total. The extra
// work never affects the result.
func SumOfSquaresWasteful(n int) int64 {
	var result int64
	for i := 0; i < n; i++ {
		result += int64(i) * int64(i)
		if i%1000 == 0 {
			temp := strings.Repeat(strconv.FormatInt(result, 10), 10)
			if len(temp) > 100 {
				temp = temp[:100]
			}
			_ = temp
		}
	}
	return result
}
