package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/set-night/moneydrop/internal/domain"
)

func TestParseDropArgs(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		amount     int64
		shareCount int
		ok         bool
	}{
		{"valid", "/drop 100 5", 100, 5, true},
		{"valid with bot suffix", "/drop@moneydrop_bot 100 5", 100, 5, true},
		{"missing count", "/drop 100", 0, 0, false},
		{"no args", "/drop", 0, 0, false},
		{"zero amount", "/drop 0 5", 0, 0, false},
		{"negative amount", "/drop -10 5", 0, 0, false},
		{"zero shares", "/drop 100 0", 0, 0, false},
		{"amount over limit", "/drop 1000001 5", 0, 0, false},
		{"shares over limit", "/drop 500 101", 0, 0, false},
		{"not numbers", "/drop сто пять", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, shareCount, ok := parseDropArgs(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.amount, amount)
			assert.Equal(t, tt.shareCount, shareCount)
		})
	}
}

func TestFormatWindow(t *testing.T) {
	assert.Equal(t, "10 мин.", formatWindow(10*time.Minute))
	assert.Equal(t, "2 ч.", formatWindow(2*time.Hour))
	assert.Equal(t, "7 дн.", formatWindow(168*time.Hour))
}

func TestFormatDropInfo(t *testing.T) {
	uid := int64(42)
	now := time.Now()
	d := &domain.Donation{
		ID:            "11111111-2222-3333-4444-555555555555",
		Amount:        100,
		ShareCount:    3,
		CreatedAt:     now,
		GrantDeadline: now.Add(10 * time.Minute),
		ViewDeadline:  now.Add(168 * time.Hour),
		Dividends: []domain.Dividend{
			{ID: 1, Amount: 60, ClaimantID: &uid, ClaimedAt: &now},
			{ID: 2, Amount: 30},
			{ID: 3, Amount: 10},
		},
	}

	text := formatDropInfo(d)
	assert.Contains(t, text, d.ID)
	assert.Contains(t, text, "1 из 3")
	assert.Contains(t, text, "60 монет")
	assert.Equal(t, 1, strings.Count(text, "забрана"))
	assert.Equal(t, 2, strings.Count(text, "свободна"))
}
