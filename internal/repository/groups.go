package repository

import (
	"context"

	"github.com/set-night/moneydrop/internal/domain"
)

const getGroupByTelegramID = `
SELECT id, telegram_id, group_username, group_name, created_at, updated_at
FROM groups
WHERE telegram_id = $1
`

func (q *Queries) GetGroupByTelegramID(ctx context.Context, telegramID int64) (domain.Group, error) {
	var g domain.Group
	err := q.db.QueryRow(ctx, getGroupByTelegramID, telegramID).Scan(
		&g.ID, &g.TelegramID, &g.GroupUsername, &g.GroupName, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

const createGroup = `
INSERT INTO groups (telegram_id, group_username, group_name)
VALUES ($1, $2, $3)
RETURNING id, telegram_id, group_username, group_name, created_at, updated_at
`

type CreateGroupParams struct {
	TelegramID    int64
	GroupUsername string
	GroupName     string
}

func (q *Queries) CreateGroup(ctx context.Context, arg CreateGroupParams) (domain.Group, error) {
	var g domain.Group
	err := q.db.QueryRow(ctx, createGroup,
		arg.TelegramID, arg.GroupUsername, arg.GroupName,
	).Scan(
		&g.ID, &g.TelegramID, &g.GroupUsername, &g.GroupName, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

const updateGroupInfo = `
UPDATE groups
SET group_username = $2, group_name = $3, updated_at = now()
WHERE id = $1
`

type UpdateGroupInfoParams struct {
	ID            int64
	GroupUsername string
	GroupName     string
}

func (q *Queries) UpdateGroupInfo(ctx context.Context, arg UpdateGroupInfoParams) error {
	_, err := q.db.Exec(ctx, updateGroupInfo, arg.ID, arg.GroupUsername, arg.GroupName)
	return err
}
