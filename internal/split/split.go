// Package split divides a drop amount into randomly sized shares.
package split

import (
	"crypto/rand"
	"math/big"
	"sort"

	"github.com/set-night/moneydrop/internal/domain"
)

// Generate splits total into count positive shares summing exactly to total.
// Shares are uneven: count-1 random cut points partition the remainder after
// every share is given its guaranteed single coin.
func Generate(total int64, count int) ([]int64, error) {
	if count < 1 || total < int64(count) {
		return nil, domain.ErrInvalidSplit
	}

	if count == 1 {
		return []int64{total}, nil
	}

	// Each share starts at 1 coin; the rest is distributed by random cuts.
	remainder := total - int64(count)

	cuts := make([]int64, count-1)
	for i := range cuts {
		n, err := rand.Int(rand.Reader, big.NewInt(remainder+1))
		if err != nil {
			return nil, err
		}
		cuts[i] = n.Int64()
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })

	shares := make([]int64, count)
	prev := int64(0)
	for i, cut := range cuts {
		shares[i] = cut - prev + 1
		prev = cut
	}
	shares[count-1] = remainder - prev + 1

	return shares, nil
}
