package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
)

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a key/value store over the system_config table
func NewConfigRepository(db *gorm.DB) repositories.ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Load(ctx context.Context) (map[string]string, error) {
	var rows []entities.ConfigEntry
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *configRepository) Save(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			entry := entities.ConfigEntry{Key: k, Value: values[k]}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "config_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"config_value"}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("failed to save config key %s: %w", k, err)
			}
		}
		return nil
	})
}

type callRecordRepository struct {
	db *gorm.DB
}

// NewCallRecordRepository creates a repository for debug call records
func NewCallRecordRepository(db *gorm.DB) repositories.CallRecordRepository {
	return &callRecordRepository{db: db}
}

func (r *callRecordRepository) Create(ctx context.Context, record *entities.CallRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create call record: %w", err)
	}
	return nil
}

func (r *callRecordRepository) ListBySession(ctx context.Context, sessionID string) ([]*entities.CallRecord, error) {
	records := make([]*entities.CallRecord, 0)
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}
	return records, nil
}
