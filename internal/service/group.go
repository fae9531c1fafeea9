package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/repository"
)

type GroupService struct {
	db      *pgxpool.Pool
	queries *repository.Queries
}

func NewGroupService(db *pgxpool.Pool, queries *repository.Queries) *GroupService {
	return &GroupService{db: db, queries: queries}
}

func (s *GroupService) FindOrCreate(ctx context.Context, telegramID int64, groupUsername, groupName string) (*domain.Group, bool, error) {
	group, err := s.queries.GetGroupByTelegramID(ctx, telegramID)
	if err == nil {
		return &group, false, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("get group: %w", err)
	}

	group, err = s.queries.CreateGroup(ctx, repository.CreateGroupParams{
		TelegramID:    telegramID,
		GroupUsername: groupUsername,
		GroupName:     groupName,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create group: %w", err)
	}

	return &group, true, nil
}

func (s *GroupService) UpdateInfo(ctx context.Context, groupID int64, groupUsername, groupName string) error {
	return s.queries.UpdateGroupInfo(ctx, repository.UpdateGroupInfoParams{
		ID:            groupID,
		GroupUsername: groupUsername,
		GroupName:     groupName,
	})
}

func (s *GroupService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Group, error) {
	group, err := s.queries.GetGroupByTelegramID(ctx, telegramID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &group, nil
}
