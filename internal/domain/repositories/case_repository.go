package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// CaseRepository defines the interface for case data access
type CaseRepository interface {
	// Create allocates the next CASE-YYYY-NNNN id for createdAt's year and inserts the case
	Create(ctx context.Context, alias string, createdAt time.Time) (*entities.Case, error)

	// FindByID returns the case with its session count
	FindByID(ctx context.Context, id string) (*entities.Case, error)

	// List returns all cases newest first with session counts
	List(ctx context.Context) ([]*entities.Case, error)

	// UpdateAlias renames a case
	UpdateAlias(ctx context.Context, id, alias string) (*entities.Case, error)

	// Exists reports whether the case id is known
	Exists(ctx context.Context, id string) (bool, error)
}
