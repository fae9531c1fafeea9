package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/repository"
)

// LedgerService moves coins between user balances. Every operation is a
// single database transaction over a locked user row, so concurrent balance
// changes for the same user serialize at the storage layer.
type LedgerService struct {
	db      *pgxpool.Pool
	queries *repository.Queries
}

func NewLedgerService(db *pgxpool.Pool, queries *repository.Queries) *LedgerService {
	return &LedgerService{db: db, queries: queries}
}

// Withdraw atomically deducts amount coins from the user and records the
// transaction. Fails with domain.ErrInsufficientBalance and no side effects
// when the balance does not cover the amount.
func (s *LedgerService) Withdraw(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	negAmount := decimal.NewFromInt(amount).Neg()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	// Lock user row and check balance
	user, err := qtx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}

	if user.Balance.Add(negAmount).LessThan(decimal.Zero) {
		return domain.ErrInsufficientBalance
	}

	if _, err := qtx.UpdateUserBalance(ctx, repository.UpdateUserBalanceParams{
		ID:      userID,
		Balance: negAmount,
	}); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if _, err := qtx.CreateTransaction(ctx, repository.CreateTransactionParams{
		UserID:      userID,
		Amount:      negAmount,
		TxType:      string(domain.TxTypeDebit),
		Description: description,
	}); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Deposit atomically credits amount coins to the user and records the
// transaction.
func (s *LedgerService) Deposit(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	credit := decimal.NewFromInt(amount)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	if _, err := qtx.UpdateUserBalance(ctx, repository.UpdateUserBalanceParams{
		ID:      userID,
		Balance: credit,
	}); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if _, err := qtx.CreateTransaction(ctx, repository.CreateTransactionParams{
		UserID:      userID,
		Amount:      credit,
		TxType:      string(domain.TxTypeCredit),
		Description: description,
	}); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return tx.Commit(ctx)
}
