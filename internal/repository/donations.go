package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/set-night/moneydrop/internal/domain"
)

// DonationStore persists donations and their dividends and owns the atomic
// conditional claim. It needs the pool (not just Queries) because the
// multi-record insert runs in its own transaction.
type DonationStore struct {
	db *pgxpool.Pool
	q  *Queries
}

func NewDonationStore(db *pgxpool.Pool, queries *Queries) *DonationStore {
	return &DonationStore{db: db, q: queries}
}

const insertDonation = `
INSERT INTO donations (id, owner_id, room_id, amount, share_count, created_at, grant_deadline, view_deadline)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const insertDividend = `
INSERT INTO dividends (donation_id, amount)
VALUES ($1, $2)
RETURNING id
`

// InsertDonation creates the donation and all its dividends in one
// transaction; either everything is persisted or nothing is.
func (s *DonationStore) InsertDonation(ctx context.Context, donation *domain.Donation, shares []int64) (*domain.Donation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertDonation,
		donation.ID, donation.OwnerID, donation.RoomID, donation.Amount,
		donation.ShareCount, donation.CreatedAt, donation.GrantDeadline, donation.ViewDeadline,
	)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}

	dividends := make([]domain.Dividend, 0, len(shares))
	for _, amount := range shares {
		var id int64
		if err := tx.QueryRow(ctx, insertDividend, donation.ID, amount).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert dividend: %w", err)
		}
		dividends = append(dividends, domain.Dividend{
			ID:         id,
			DonationID: donation.ID,
			Amount:     amount,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	donation.Dividends = dividends
	return donation, nil
}

const getDonation = `
SELECT id, owner_id, room_id, amount, share_count, created_at, grant_deadline, view_deadline
FROM donations
WHERE id = $1
`

const getDonationInRoom = getDonation + ` AND room_id = $2`

// GetDonationInRoom looks a donation up scoped to a room; a mismatching room
// is indistinguishable from an absent donation.
func (s *DonationStore) GetDonationInRoom(ctx context.Context, donationID string, roomID int64) (*domain.Donation, error) {
	return s.scanDonation(s.db.QueryRow(ctx, getDonationInRoom, donationID, roomID))
}

func (s *DonationStore) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	return s.scanDonation(s.db.QueryRow(ctx, getDonation, donationID))
}

func (s *DonationStore) scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.RoomID, &d.Amount, &d.ShareCount,
		&d.CreatedAt, &d.GrantDeadline, &d.ViewDeadline,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return &d, nil
}

const getDividendByClaimant = `
SELECT id, donation_id, amount, claimant_id, claimed_at
FROM dividends
WHERE donation_id = $1 AND claimant_id = $2
`

func (s *DonationStore) GetDividendByClaimant(ctx context.Context, donationID string, claimantID int64) (*domain.Dividend, error) {
	var d domain.Dividend
	err := s.db.QueryRow(ctx, getDividendByClaimant, donationID, claimantID).Scan(
		&d.ID, &d.DonationID, &d.Amount, &d.ClaimantID, &d.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDividendNotFound
		}
		return nil, fmt.Errorf("get dividend: %w", err)
	}
	return &d, nil
}

const getDividends = `
SELECT id, donation_id, amount, claimant_id, claimed_at
FROM dividends
WHERE donation_id = $1
ORDER BY id
`

func (s *DonationStore) GetDividends(ctx context.Context, donationID string) ([]domain.Dividend, error) {
	rows, err := s.db.Query(ctx, getDividends, donationID)
	if err != nil {
		return nil, fmt.Errorf("get dividends: %w", err)
	}
	defer rows.Close()

	var dividends []domain.Dividend
	for rows.Next() {
		var d domain.Dividend
		if err := rows.Scan(&d.ID, &d.DonationID, &d.Amount, &d.ClaimantID, &d.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		dividends = append(dividends, d)
	}
	return dividends, rows.Err()
}

// The claim is a single conditional UPDATE: the row is selected with
// SKIP LOCKED so simultaneous claimants never wait on each other, and the
// claimant_id IS NULL guard makes the write first-wins.
const claimDividend = `
UPDATE dividends
SET claimant_id = $2, claimed_at = now()
WHERE id = (
    SELECT id
    FROM dividends
    WHERE donation_id = $1 AND claimant_id IS NULL
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING id, donation_id, amount, claimant_id, claimed_at
`

// ClaimDividend atomically assigns one unclaimed dividend of the donation to
// the claimant. Returns domain.ErrNoShareAvailable when every dividend is
// already taken (or currently being taken by concurrent winners).
func (s *DonationStore) ClaimDividend(ctx context.Context, donationID string, claimantID int64) (*domain.Dividend, error) {
	var d domain.Dividend
	err := s.db.QueryRow(ctx, claimDividend, donationID, claimantID).Scan(
		&d.ID, &d.DonationID, &d.Amount, &d.ClaimantID, &d.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoShareAvailable
		}
		// Unique index on (donation_id, claimant_id): a concurrent second
		// claim by the same user fails here instead of taking a share.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("claim dividend: %w", err)
	}
	return &d, nil
}
