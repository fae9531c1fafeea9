package config

import "time"

const (
	// Drop limits
	MaxSharesPerDrop = 100
	MaxDropAmount    = 1_000_000

	// Rate limits (per minute)
	RateLimitRegular = 6

	// Rate limit window cleanup interval
	RateLimitCleanup = 60 * time.Second
)
