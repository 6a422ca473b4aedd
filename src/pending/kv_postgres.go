package pending

import (
	"context"
	"errors"
	"time"

	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Backend persisted in the pending_interactions table
type PostgresKV struct {
	db *gorm.DB
}

func NewPostgresKV(ctx context.Context, config *config.Config) (self *PostgresKV, err error) {
	db, err := model.NewConnection(ctx, config, "pending")
	if err != nil {
		return
	}
	return NewPostgresKVWithDB(db), nil
}

func NewPostgresKVWithDB(db *gorm.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (self *PostgresKV) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	var row model.PendingInteraction
	err = self.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return
	}
	return row.Interactions.Bytes, true, nil
}

func (self *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	row := model.PendingInteraction{
		Key:          key,
		Interactions: pgtype.JSONB{Bytes: value, Status: pgtype.Present},
		UpdatedAt:    time.Now(),
	}
	return self.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"interactions", "updated_at"}),
		}).
		Create(&row).
		Error
}

func (self *PostgresKV) Delete(ctx context.Context, key string) error {
	return self.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.PendingInteraction{}).
		Error
}

func (self *PostgresKV) Keys(ctx context.Context) (out []string, err error) {
	err = self.db.WithContext(ctx).
		Model(&model.PendingInteraction{}).
		Pluck("key", &out).
		Error
	return
}

func (self *PostgresKV) Close() error {
	db, err := self.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
