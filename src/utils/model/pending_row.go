package model

import (
	"time"

	"github.com/jackc/pgtype"
)

const TableNamePendingInteraction = "pending_interactions"

// One key of the pending interaction store, persisted in postgres
type PendingInteraction struct {
	Key          string       `gorm:"primaryKey;type:text"`
	Interactions pgtype.JSONB `gorm:"type:jsonb;not null"`
	UpdatedAt    time.Time
}

func (PendingInteraction) TableName() string {
	return TableNamePendingInteraction
}
