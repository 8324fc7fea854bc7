package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
)

// caseRepository implements the CaseRepository interface
type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *gorm.DB) repositories.CaseRepository {
	return &caseRepository{db: db}
}

// withCounts selects cases with the number of sessions referencing each
func withCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&entities.Case{}).
		Select("cases.case_id, cases.alias, cases.created_at, COUNT(sessions.session_id) AS session_count").
		Joins("LEFT JOIN sessions ON sessions.case_id = cases.case_id").
		Group("cases.case_id, cases.alias, cases.created_at")
}

// Create inserts a case under the next free sequence number of its year
func (r *caseRepository) Create(ctx context.Context, alias string, createdAt time.Time) (*entities.Case, error) {
	c := &entities.Case{Alias: alias, CreatedAt: createdAt}
	prefix := fmt.Sprintf("CASE-%04d-", createdAt.Year())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&entities.Case{}).Where("case_id LIKE ?", prefix+"%").Pluck("case_id", &ids).Error; err != nil {
			return fmt.Errorf("failed to read case ids: %w", err)
		}

		seq := 0
		for _, id := range ids {
			if n, err := strconv.Atoi(strings.TrimPrefix(id, prefix)); err == nil && n > seq {
				seq = n
			}
		}
		c.CaseID = entities.FormatCaseID(createdAt.Year(), seq+1)

		return insertCase(tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return c, nil
}

// insertCase adds one row; an id taken by a concurrent writer surfaces as ErrDuplicate
func insertCase(tx *gorm.DB, c *entities.Case) error {
	if err := tx.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("case %s: %w", c.CaseID, entities.ErrDuplicate)
		}
		return err
	}
	return nil
}

// FindByID returns a case with its session count
func (r *caseRepository) FindByID(ctx context.Context, id string) (*entities.Case, error) {
	var c entities.Case
	if err := withCounts(r.db.WithContext(ctx)).Where("cases.case_id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("case %s: %w", id, entities.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find case: %w", err)
	}
	return &c, nil
}

// List returns every case newest first
func (r *caseRepository) List(ctx context.Context) ([]*entities.Case, error) {
	cases := make([]*entities.Case, 0)
	if err := withCounts(r.db.WithContext(ctx)).
		Order("cases.created_at DESC").
		Order("cases.case_id DESC").
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// UpdateAlias renames a case
func (r *caseRepository) UpdateAlias(ctx context.Context, id, alias string) (*entities.Case, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Case{}).
		Where("case_id = ?", id).
		Update("alias", alias)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rename case: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("case %s: %w", id, entities.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

// Exists reports whether a case id is known
func (r *caseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Case{}).Where("case_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check case: %w", err)
	}
	return n > 0, nil
}
