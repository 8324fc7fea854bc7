package repositories

import (
	"context"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// ConfigRepository persists the system configuration as key/value rows
type ConfigRepository interface {
	Load(ctx context.Context) (map[string]string, error)
	// Save upserts all values in one transaction
	Save(ctx context.Context, values map[string]string) error
}

// CallRecordRepository stores debug records of collaborator calls
type CallRecordRepository interface {
	Create(ctx context.Context, record *entities.CallRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]*entities.CallRecord, error)
}
