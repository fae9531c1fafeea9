package split

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/moneydrop/internal/domain"
)

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
	}{
		{name: "zero count", total: 100, count: 0},
		{name: "negative count", total: 100, count: -1},
		{name: "total less than count", total: 2, count: 3},
		{name: "zero total", total: 0, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.total, tt.count)
			assert.ErrorIs(t, err, domain.ErrInvalidSplit)
		})
	}
}

func TestGenerateContract(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
	}{
		{name: "single share", total: 100, count: 1},
		{name: "total equals count", total: 5, count: 5},
		{name: "small drop", total: 100, count: 3},
		{name: "two shares", total: 2, count: 2},
		{name: "large drop", total: 1_000_000, count: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Generate(tt.total, tt.count)
			require.NoError(t, err)
			requireValidSplit(t, shares, tt.total, tt.count)
		})
	}
}

// The sum-exactness contract is the load-bearing property: for any valid
// (total, count) the shares are positive and add up to total exactly.
func TestGenerateContractRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		count := rng.Intn(30) + 1
		total := int64(count) + rng.Int63n(10_000)

		shares, err := Generate(total, count)
		require.NoError(t, err)
		requireValidSplit(t, shares, total, count)
	}
}

func TestGenerateSingleShareTakesAll(t *testing.T) {
	shares, err := Generate(42, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, shares)
}

func requireValidSplit(t *testing.T, shares []int64, total int64, count int) {
	t.Helper()
	require.Len(t, shares, count)
	var sum int64
	for _, s := range shares {
		require.GreaterOrEqual(t, s, int64(1))
		sum += s
	}
	require.Equal(t, total, sum)
}
