package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
)

// createAttempts bounds id allocation retries when another instance takes the same id
const createAttempts = 5

// Service handles case business logic
type Service struct {
	// serializes id allocation within the process
	createMu sync.Mutex

	caseRepo    repositories.CaseRepository
	sessionRepo repositories.SessionRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new case service
func NewService(caseRepo repositories.CaseRepository, sessionRepo repositories.SessionRepository, logger *zap.Logger) *Service {
	return &Service{
		caseRepo:    caseRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func normalizeAlias(alias string) (string, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", fmt.Errorf("alias must not be empty: %w", entities.ErrInvalidInput)
	}
	return alias, nil
}

// Create creates a case with the next CASE-YYYY-NNNN id
func (s *Service) Create(ctx context.Context, alias string) (*entities.Case, error) {
	alias, err := normalizeAlias(alias)
	if err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	var c *entities.Case
	for attempt := 1; ; attempt++ {
		c, err = s.caseRepo.Create(ctx, alias, s.now())
		if err == nil {
			break
		}
		if !errors.Is(err, entities.ErrDuplicate) || attempt == createAttempts {
			return nil, err
		}
		if s.logger != nil {
			s.logger.Warn("case id taken, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("case created", zap.String("case_id", c.CaseID), zap.String("alias", c.Alias))
	}
	return c, nil
}

// Get returns the case together with its linked sessions. The count is taken
// from the same session list so the two always agree.
func (s *Service) Get(ctx context.Context, id string) (*entities.CaseDetail, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.List(ctx, &c.CaseID)
	if err != nil {
		return nil, err
	}
	c.SessionCount = int64(len(sessions))

	return &entities.CaseDetail{Case: *c, Sessions: sessions}, nil
}

// List returns all cases with their session counts
func (s *Service) List(ctx context.Context) ([]*entities.Case, error) {
	return s.caseRepo.List(ctx)
}

// Rename changes the alias of a case
func (s *Service) Rename(ctx context.Context, id, alias string) (*entities.Case, error) {
	alias, err := normalizeAlias(alias)
	if err != nil {
		return nil, err
	}
	return s.caseRepo.UpdateAlias(ctx, id, alias)
}

// Exists reports whether the case is known
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.caseRepo.Exists(ctx, id)
}
