package domain

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUserNotFound        = errors.New("user not found")
	ErrGroupNotFound       = errors.New("group not found")

	ErrDonationNotFound = errors.New("donation not found in this room")
	ErrDonationExpired  = errors.New("donation grant window expired")
	ErrOwnDonation      = errors.New("own donation cannot be claimed")
	ErrAlreadyClaimed   = errors.New("donation already claimed by this user")
	ErrDividendNotFound = errors.New("dividend not found")
	ErrNoShareAvailable = errors.New("no unclaimed dividend available")
	ErrViewExpired      = errors.New("donation view window expired")
	ErrNotDonationOwner = errors.New("only the owner may view this donation")
	ErrInvalidSplit     = errors.New("invalid split parameters")

	// ErrUpdateInconsistency means a dividend was claimed in the store but the
	// follow-up ledger deposit failed. The claim itself is not rolled back;
	// the fault must be reconciled manually.
	ErrUpdateInconsistency = errors.New("claim succeeded but ledger update failed")
)
