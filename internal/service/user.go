package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/repository"
)

type UserService struct {
	db      *pgxpool.Pool
	queries *repository.Queries
}

func NewUserService(db *pgxpool.Pool, queries *repository.Queries) *UserService {
	return &UserService{db: db, queries: queries}
}

func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	user, err := s.queries.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		return &user, false, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user, err = s.queries.CreateUser(ctx, repository.CreateUserParams{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   username,
		IsAdmin:    isAdmin,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	return &user, true, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.queries.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	return s.queries.UpdateUserInfo(ctx, repository.UpdateUserInfoParams{
		ID:        userID,
		FirstName: firstName,
		Username:  username,
	})
}
