package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/moneydrop/internal/domain"
)

// memStore reproduces the storage contract in memory: the mutex stands in
// for the database's row-level atomicity on the conditional claim.
type memStore struct {
	mu        sync.Mutex
	donations map[string]*domain.Donation
	dividends map[string][]domain.Dividend
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{
		donations: make(map[string]*domain.Donation),
		dividends: make(map[string][]domain.Dividend),
	}
}

func (s *memStore) InsertDonation(_ context.Context, donation *domain.Donation, shares []int64) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	dividends := make([]domain.Dividend, len(shares))
	for i, amount := range shares {
		dividends[i] = domain.Dividend{
			ID:         int64(i + 1),
			DonationID: donation.ID,
			Amount:     amount,
		}
	}
	d := *donation
	s.donations[d.ID] = &d
	s.dividends[d.ID] = dividends
	donation.Dividends = dividends
	return donation, nil
}

func (s *memStore) GetDonationInRoom(_ context.Context, donationID string, roomID int64) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok || d.RoomID != roomID {
		return nil, domain.ErrDonationNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *memStore) GetDonation(_ context.Context, donationID string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *memStore) GetDividendByClaimant(_ context.Context, donationID string, claimantID int64) (*domain.Dividend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dividends[donationID] {
		if d.ClaimantID != nil && *d.ClaimantID == claimantID {
			copied := d
			return &copied, nil
		}
	}
	return nil, domain.ErrDividendNotFound
}

func (s *memStore) GetDividends(_ context.Context, donationID string) ([]domain.Dividend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Dividend(nil), s.dividends[donationID]...), nil
}

func (s *memStore) ClaimDividend(_ context.Context, donationID string, claimantID int64) (*domain.Dividend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dividends := s.dividends[donationID]
	for i := range dividends {
		if dividends[i].ClaimantID != nil && *dividends[i].ClaimantID == claimantID {
			return nil, domain.ErrAlreadyClaimed
		}
	}
	for i := range dividends {
		if dividends[i].ClaimantID == nil {
			now := time.Now()
			id := claimantID
			dividends[i].ClaimantID = &id
			dividends[i].ClaimedAt = &now
			copied := dividends[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNoShareAvailable
}

type memLedger struct {
	mu         sync.Mutex
	balances   map[int64]int64
	depositErr error
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[int64]int64)}
}

func (l *memLedger) Withdraw(_ context.Context, userID int64, amount int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] < amount {
		return domain.ErrInsufficientBalance
	}
	l.balances[userID] -= amount
	return nil
}

func (l *memLedger) Deposit(_ context.Context, userID int64, amount int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depositErr != nil {
		return l.depositErr
	}
	l.balances[userID] += amount
	return nil
}

func (l *memLedger) balance(userID int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

const (
	testRoom  = int64(-100500)
	testOwner = int64(1)
)

func newTestService(store *memStore, ledger *memLedger) *DonationService {
	return NewDonationService(store, ledger, 10*time.Minute, 7*24*time.Hour)
}

func TestCreateSplitsExactly(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	require.Len(t, donation.Dividends, 3)
	var sum int64
	for _, d := range donation.Dividends {
		assert.GreaterOrEqual(t, d.Amount, int64(1))
		assert.Nil(t, d.ClaimantID)
		sum += d.Amount
	}
	assert.Equal(t, int64(100), sum)
	assert.Equal(t, int64(900), ledger.balance(testOwner))
	assert.True(t, donation.GrantDeadline.Before(donation.ViewDeadline))
}

func TestCreateInsufficientBalance(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 50
	svc := newTestService(store, ledger)

	_, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// No partial state: no donation persisted, balance untouched.
	assert.Empty(t, store.donations)
	assert.Equal(t, int64(50), ledger.balance(testOwner))
}

func TestCreateInvalidSplitParams(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	_, err := svc.Create(context.Background(), testOwner, testRoom, 2, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	assert.Equal(t, int64(1000), ledger.balance(testOwner))
}

func TestCreateRefundsOnInsertFailure(t *testing.T) {
	store := newMemStore()
	store.insertErr = errors.New("storage down")
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	_, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.Error(t, err)

	// The withdrawal is compensated in full.
	assert.Equal(t, int64(1000), ledger.balance(testOwner))
}

func TestGrantShareHappyPath(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, amount, int64(1))
	assert.Equal(t, amount, ledger.balance(2))
}

func TestGrantSharePreconditions(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	t.Run("unknown donation", func(t *testing.T) {
		_, err := svc.GrantShare(context.Background(), "missing", testRoom, 2)
		assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	})

	t.Run("wrong room", func(t *testing.T) {
		_, err := svc.GrantShare(context.Background(), donation.ID, testRoom+1, 2)
		assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	})

	t.Run("owner claims own drop", func(t *testing.T) {
		amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, testOwner)
		assert.ErrorIs(t, err, domain.ErrOwnDonation)
		assert.Zero(t, amount)
	})

	t.Run("duplicate claim", func(t *testing.T) {
		_, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
		require.NoError(t, err)
		amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
		assert.Zero(t, amount)
	})
}

func TestGrantShareExpired(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	store.donations[donation.ID].GrantDeadline = time.Now().Add(-time.Minute)

	amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
	assert.ErrorIs(t, err, domain.ErrDonationExpired)
	assert.Zero(t, amount)
}

func TestGrantShareExhausted(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 2)
	require.NoError(t, err)

	for _, claimant := range []int64{2, 3} {
		_, err := svc.GrantShare(context.Background(), donation.ID, testRoom, claimant)
		require.NoError(t, err)
	}

	// Not an error: a zero amount signals that all shares are taken.
	amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 4)
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestGrantShareDepositFailureIsConsistencyFault(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	ledger.depositErr = errors.New("ledger down")

	amount, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
	assert.ErrorIs(t, err, domain.ErrUpdateInconsistency)
	assert.Zero(t, amount)

	// The claim itself stays in place for reconciliation.
	claimed, err := store.GetDividendByClaimant(context.Background(), donation.ID, 2)
	require.NoError(t, err)
	assert.NotNil(t, claimed.ClaimantID)
}

func TestGrantShareConcurrentRace(t *testing.T) {
	const shareCount = 5
	const claimants = 40

	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 10_000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 1000, shareCount)
	require.NoError(t, err)

	var wg sync.WaitGroup
	amounts := make([]int64, claimants)
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Claimant IDs start at 2; the owner is 1.
			amounts[i], errs[i] = svc.GrantShare(context.Background(), donation.ID, testRoom, int64(i+2))
		}(i)
	}
	wg.Wait()

	winners := 0
	var granted int64
	for i := 0; i < claimants; i++ {
		require.NoError(t, errs[i])
		if amounts[i] > 0 {
			winners++
			granted += amounts[i]
		}
	}
	assert.Equal(t, shareCount, winners)
	assert.Equal(t, int64(1000), granted)
}

func TestGrantShareConcurrentSameUser(t *testing.T) {
	const attempts = 20

	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 10_000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 1000, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	amounts := make([]int64, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amounts[i], errs[i] = svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
		}(i)
	}
	wg.Wait()

	wins := 0
	var won int64
	for i := 0; i < attempts; i++ {
		if errs[i] == nil && amounts[i] > 0 {
			wins++
			won += amounts[i]
		} else if errs[i] != nil {
			assert.ErrorIs(t, errs[i], domain.ErrAlreadyClaimed)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, won, ledger.balance(2))
}

func TestViewAccess(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[testOwner] = 1000
	svc := newTestService(store, ledger)

	donation, err := svc.Create(context.Background(), testOwner, testRoom, 100, 3)
	require.NoError(t, err)

	t.Run("unknown donation", func(t *testing.T) {
		_, err := svc.View(context.Background(), testOwner, "missing")
		assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		_, err := svc.View(context.Background(), 2, donation.ID)
		assert.ErrorIs(t, err, domain.ErrNotDonationOwner)
	})

	t.Run("owner sees claim progress", func(t *testing.T) {
		_, err := svc.GrantShare(context.Background(), donation.ID, testRoom, 2)
		require.NoError(t, err)

		got, err := svc.View(context.Background(), testOwner, donation.ID)
		require.NoError(t, err)
		assert.Len(t, got.Dividends, 3)
		assert.Equal(t, 1, got.ClaimedCount())
	})

	t.Run("view window expired", func(t *testing.T) {
		store.donations[donation.ID].ViewDeadline = time.Now().Add(-time.Minute)
		_, err := svc.View(context.Background(), testOwner, donation.ID)
		assert.ErrorIs(t, err, domain.ErrViewExpired)
	})
}

// End-to-end walk: create, claim, duplicate, self-claim, exhaust, late
// arrival.
func TestDropLifecycle(t *testing.T) {
	store := newMemStore()
	ledger := newMemLedger()
	ledger.balances[1] = 500
	svc := newTestService(store, ledger)
	ctx := context.Background()

	donation, err := svc.Create(ctx, 1, testRoom, 100, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(400), ledger.balance(1))

	a2, err := svc.GrantShare(ctx, donation.ID, testRoom, 2)
	require.NoError(t, err)
	assert.Positive(t, a2)
	assert.Equal(t, a2, ledger.balance(2))

	_, err = svc.GrantShare(ctx, donation.ID, testRoom, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	_, err = svc.GrantShare(ctx, donation.ID, testRoom, 1)
	assert.ErrorIs(t, err, domain.ErrOwnDonation)

	a3, err := svc.GrantShare(ctx, donation.ID, testRoom, 3)
	require.NoError(t, err)
	a4, err := svc.GrantShare(ctx, donation.ID, testRoom, 4)
	require.NoError(t, err)
	assert.Positive(t, a3)
	assert.Positive(t, a4)
	assert.Equal(t, int64(100), a2+a3+a4)

	a5, err := svc.GrantShare(ctx, donation.ID, testRoom, 5)
	require.NoError(t, err)
	assert.Zero(t, a5)
}
