package system

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
)

const (
	keyProvider     = "provider"
	keyModel        = "model"
	keyWhisperModel = "whisper_model"
	keyDebug        = "debug"
)

// ConfigStore holds the process-wide provider/model selection.
// Writers are serialized; readers always get the last committed snapshot.
type ConfigStore struct {
	writeMu sync.Mutex

	mu      sync.RWMutex
	current entities.SystemConfig

	catalog *Catalog
	repo    repositories.ConfigRepository
	logger  *zap.Logger
}

// NewConfigStore loads the persisted selection, falling back to defaults when
// nothing valid is stored.
func NewConfigStore(ctx context.Context, catalog *Catalog, repo repositories.ConfigRepository, logger *zap.Logger) (*ConfigStore, error) {
	s := &ConfigStore{
		current: entities.DefaultSystemConfig(),
		catalog: catalog,
		repo:    repo,
		logger:  logger,
	}

	stored, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return s, nil
	}

	cfg, err := fromValues(stored, s.current)
	if err == nil {
		err = catalog.Validate(cfg)
	}
	if err != nil {
		if logger != nil {
			logger.Warn("ignoring stored system config", zap.Error(err))
		}
		return s, nil
	}
	s.current = cfg
	return s, nil
}

// Get returns the current configuration
func (s *ConfigStore) Get() entities.SystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Catalog exposes the provider catalog the store validates against
func (s *ConfigStore) Catalog() *Catalog {
	return s.catalog
}

// Update validates and applies a partial update atomically.
// The model must belong to the resulting provider; switching provider does not pick a model.
func (s *ConfigStore) Update(ctx context.Context, patch entities.ConfigPatch) (entities.SystemConfig, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := patch.Apply(s.Get())
	if err := s.catalog.Validate(next); err != nil {
		return entities.SystemConfig{}, err
	}

	if err := s.repo.Save(ctx, toValues(next)); err != nil {
		return entities.SystemConfig{}, fmt.Errorf("failed to persist system config: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("system config updated",
			zap.String("provider", next.Provider),
			zap.String("model", next.Model),
			zap.String("whisper_model", next.WhisperModel),
			zap.Bool("debug", next.Debug),
		)
	}
	return next, nil
}

func toValues(cfg entities.SystemConfig) map[string]string {
	return map[string]string{
		keyProvider:     cfg.Provider,
		keyModel:        cfg.Model,
		keyWhisperModel: cfg.WhisperModel,
		keyDebug:        strconv.FormatBool(cfg.Debug),
	}
}

func fromValues(values map[string]string, base entities.SystemConfig) (entities.SystemConfig, error) {
	cfg := base
	if v, ok := values[keyProvider]; ok {
		cfg.Provider = v
	}
	if v, ok := values[keyModel]; ok {
		cfg.Model = v
	}
	if v, ok := values[keyWhisperModel]; ok {
		cfg.WhisperModel = v
	}
	if v, ok := values[keyDebug]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid debug value %q: %w", v, err)
		}
		cfg.Debug = b
	}
	return cfg, nil
}
