package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/set-night/moneydrop/internal/domain"
)

const getUserByTelegramID = `
SELECT id, telegram_id, first_name, username, is_admin, balance, created_at, updated_at
FROM users
WHERE telegram_id = $1
`

func (q *Queries) GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUserByTelegramID, telegramID).Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.IsAdmin,
		&u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `
SELECT id, telegram_id, first_name, username, is_admin, balance, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUserByID, id).Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.IsAdmin,
		&u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const createUser = `
INSERT INTO users (telegram_id, first_name, username, is_admin)
VALUES ($1, $2, $3, $4)
RETURNING id, telegram_id, first_name, username, is_admin, balance, created_at, updated_at
`

type CreateUserParams struct {
	TelegramID int64
	FirstName  string
	Username   string
	IsAdmin    bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, createUser,
		arg.TelegramID, arg.FirstName, arg.Username, arg.IsAdmin,
	).Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.IsAdmin,
		&u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const updateUserInfo = `
UPDATE users
SET first_name = $2, username = $3, updated_at = now()
WHERE id = $1
`

type UpdateUserInfoParams struct {
	ID        int64
	FirstName string
	Username  string
}

func (q *Queries) UpdateUserInfo(ctx context.Context, arg UpdateUserInfoParams) error {
	_, err := q.db.Exec(ctx, updateUserInfo, arg.ID, arg.FirstName, arg.Username)
	return err
}

const getUserForUpdate = `
SELECT id, balance
FROM users
WHERE id = $1
FOR UPDATE
`

type UserBalanceRow struct {
	ID      int64
	Balance decimal.Decimal
}

// GetUserForUpdate locks the user row for the duration of the transaction.
func (q *Queries) GetUserForUpdate(ctx context.Context, id int64) (UserBalanceRow, error) {
	var row UserBalanceRow
	err := q.db.QueryRow(ctx, getUserForUpdate, id).Scan(&row.ID, &row.Balance)
	return row, err
}

const updateUserBalance = `
UPDATE users
SET balance = balance + $2, updated_at = now()
WHERE id = $1
RETURNING balance
`

type UpdateUserBalanceParams struct {
	ID      int64
	Balance decimal.Decimal
}

func (q *Queries) UpdateUserBalance(ctx context.Context, arg UpdateUserBalanceParams) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.db.QueryRow(ctx, updateUserBalance, arg.ID, arg.Balance).Scan(&balance)
	return balance, err
}

const createTransaction = `
INSERT INTO transactions (user_id, amount, tx_type, description)
VALUES ($1, $2, $3, $4)
RETURNING id
`

type CreateTransactionParams struct {
	UserID      int64
	Amount      decimal.Decimal
	TxType      string
	Description string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createTransaction,
		arg.UserID, arg.Amount, arg.TxType, arg.Description,
	).Scan(&id)
	return id, err
}
