package domain

import "time"

type Group struct {
	ID            int64
	TelegramID    int64
	GroupUsername string
	GroupName     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
