package domain

import "time"

// Donation is a fixed amount of coins dropped into a group chat and split
// into ShareCount dividends. Everything except per-dividend claim state is
// immutable after creation.
type Donation struct {
	ID            string
	OwnerID       int64
	RoomID        int64
	Amount        int64
	ShareCount    int
	CreatedAt     time.Time
	GrantDeadline time.Time
	ViewDeadline  time.Time

	// Dividends is populated by lookups that load the full drop detail.
	Dividends []Dividend
}

// GrantExpired reports whether shares can no longer be claimed.
func (d *Donation) GrantExpired() bool {
	return time.Now().After(d.GrantDeadline)
}

// ViewExpired reports whether the owner can no longer inspect the drop.
func (d *Donation) ViewExpired() bool {
	return time.Now().After(d.ViewDeadline)
}

// ClaimedCount returns the number of dividends already taken.
func (d *Donation) ClaimedCount() int {
	n := 0
	for i := range d.Dividends {
		if d.Dividends[i].ClaimantID != nil {
			n++
		}
	}
	return n
}

// Dividend is one share of a Donation. ClaimantID transitions from nil to
// exactly one user ID exactly once and never changes afterwards.
type Dividend struct {
	ID         int64
	DonationID string
	Amount     int64
	ClaimantID *int64
	ClaimedAt  *time.Time
}
