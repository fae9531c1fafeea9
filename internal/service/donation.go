package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/split"
)

// DonationStore is the durable storage the claim protocol runs against.
// ClaimDividend is the single synchronization point: it must assign an
// unclaimed dividend to the claimant atomically (first-wins), returning
// domain.ErrNoShareAvailable when none is left and domain.ErrAlreadyClaimed
// when the claimant already holds a share of the donation.
type DonationStore interface {
	InsertDonation(ctx context.Context, donation *domain.Donation, shares []int64) (*domain.Donation, error)
	GetDonationInRoom(ctx context.Context, donationID string, roomID int64) (*domain.Donation, error)
	GetDonation(ctx context.Context, donationID string) (*domain.Donation, error)
	GetDividendByClaimant(ctx context.Context, donationID string, claimantID int64) (*domain.Dividend, error)
	GetDividends(ctx context.Context, donationID string) ([]domain.Dividend, error)
	ClaimDividend(ctx context.Context, donationID string, claimantID int64) (*domain.Dividend, error)
}

// Ledger moves coins between user balances; both operations are atomic per
// user.
type Ledger interface {
	Withdraw(ctx context.Context, userID int64, amount int64, description string) error
	Deposit(ctx context.Context, userID int64, amount int64, description string) error
}

// DonationService implements drop creation, the share claim protocol and
// owner view access. It keeps no state of its own; all donation state lives
// in the store.
type DonationService struct {
	store       DonationStore
	ledger      Ledger
	grantWindow time.Duration
	viewWindow  time.Duration
}

func NewDonationService(store DonationStore, ledger Ledger, grantWindow, viewWindow time.Duration) *DonationService {
	return &DonationService{
		store:       store,
		ledger:      ledger,
		grantWindow: grantWindow,
		viewWindow:  viewWindow,
	}
}

// Create withdraws the total from the owner, splits it into shareCount
// dividends and persists everything atomically. If persistence fails after
// the withdrawal, the amount is deposited back.
func (s *DonationService) Create(ctx context.Context, ownerID, roomID int64, amount int64, shareCount int) (*domain.Donation, error) {
	shares, err := split.Generate(amount, shareCount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	donation := &domain.Donation{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		RoomID:        roomID,
		Amount:        amount,
		ShareCount:    shareCount,
		CreatedAt:     now,
		GrantDeadline: now.Add(s.grantWindow),
		ViewDeadline:  now.Add(s.viewWindow),
	}

	if err := s.ledger.Withdraw(ctx, ownerID, amount, "Drop "+donation.ID); err != nil {
		return nil, err
	}

	inserted, err := s.store.InsertDonation(ctx, donation, shares)
	if err != nil {
		// The owner has already been debited; give the money back. If the
		// compensation fails too, the log entry carries everything needed
		// to reconcile by hand.
		if depErr := s.ledger.Deposit(ctx, ownerID, amount, "Drop "+donation.ID+" refund"); depErr != nil {
			slog.Error("drop refund failed after insert failure",
				"donation_id", donation.ID,
				"owner_id", ownerID,
				"amount", amount,
				"insert_error", err,
				"refund_error", depErr,
			)
		}
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	donation = inserted

	slog.Info("drop created",
		"donation_id", donation.ID,
		"owner_id", ownerID,
		"room_id", roomID,
		"amount", amount,
		"share_count", shareCount,
	)
	return donation, nil
}

// GrantShare claims one dividend of the donation for the claimant and
// deposits its amount. Returns 0 with a nil error when all shares are
// already taken; that is an expected outcome under contention, not a fault.
func (s *DonationService) GrantShare(ctx context.Context, donationID string, roomID, claimantID int64) (int64, error) {
	donation, err := s.store.GetDonationInRoom(ctx, donationID, roomID)
	if err != nil {
		return 0, err
	}
	if donation.GrantExpired() {
		return 0, domain.ErrDonationExpired
	}
	if donation.OwnerID == claimantID {
		return 0, domain.ErrOwnDonation
	}

	_, err = s.store.GetDividendByClaimant(ctx, donationID, claimantID)
	if err == nil {
		return 0, domain.ErrAlreadyClaimed
	}
	if !errors.Is(err, domain.ErrDividendNotFound) {
		return 0, fmt.Errorf("check previous claim: %w", err)
	}

	dividend, err := s.store.ClaimDividend(ctx, donationID, claimantID)
	if err != nil {
		if errors.Is(err, domain.ErrNoShareAvailable) {
			return 0, nil
		}
		// A concurrent claim by the same user can slip past the check above;
		// the store's uniqueness guarantee reports it here.
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			return 0, domain.ErrAlreadyClaimed
		}
		return 0, fmt.Errorf("claim dividend: %w", err)
	}

	if err := s.ledger.Deposit(ctx, claimantID, dividend.Amount, "Drop "+donationID+" share"); err != nil {
		// The dividend is already assigned in the store, so this is a
		// store/ledger desynchronization, not a retryable contention case.
		slog.Error("share deposit failed after successful claim",
			"donation_id", donationID,
			"dividend_id", dividend.ID,
			"claimant_id", claimantID,
			"amount", dividend.Amount,
			"error", err,
		)
		return 0, fmt.Errorf("donation %s dividend %d claimant %d: %w",
			donationID, dividend.ID, claimantID, domain.ErrUpdateInconsistency)
	}

	slog.Info("share granted",
		"donation_id", donationID,
		"dividend_id", dividend.ID,
		"claimant_id", claimantID,
		"amount", dividend.Amount,
	)
	return dividend.Amount, nil
}

// View returns the donation with its dividends. Only the owner may view,
// and only until the view deadline.
func (s *DonationService) View(ctx context.Context, requesterID int64, donationID string) (*domain.Donation, error) {
	donation, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.ViewExpired() {
		return nil, domain.ErrViewExpired
	}
	if donation.OwnerID != requesterID {
		return nil, domain.ErrNotDonationOwner
	}

	dividends, err := s.store.GetDividends(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("load dividends: %w", err)
	}
	donation.Dividends = dividends
	return donation, nil
}
