package handler

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/errors"
	systemdto "github.com/johnquangdev/zyquraflow/internal/adapter/dto/system"
	"github.com/johnquangdev/zyquraflow/internal/adapter/presenter"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/usecase/system"
)

// ProviderProbe reports whether a language-model backend answers
type ProviderProbe interface {
	Available(ctx context.Context) bool
}

// StoragePinger verifies the audio store is reachable
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// System handles configuration, catalog and health requests
type System struct {
	config      *system.ConfigStore
	ollama      ProviderProbe
	storage     StoragePinger
	environment string
	logger      *zap.Logger
}

// NewSystemHandler creates a new system handler. ollama and storage may be nil.
func NewSystemHandler(config *system.ConfigStore, ollama ProviderProbe, storage StoragePinger, environment string, logger *zap.Logger) *System {
	return &System{
		config:      config,
		ollama:      ollama,
		storage:     storage,
		environment: environment,
		logger:      logger,
	}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Reports the configured provider, whether Ollama is reachable and audio storage status
// @Tags         System
// @Produce      json
// @Success      200  {object}  systemdto.HealthResponse
// @Router       /health [get]
func (h *System) Health(c echo.Context) error {
	cfg := h.config.Get()
	resp := &systemdto.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if h.ollama != nil {
		resp.OllamaAvailable = h.ollama.Available(ctx)
	}
	if h.storage != nil {
		resp.Storage = "ok"
		if err := h.storage.Ping(ctx); err != nil {
			resp.Storage = "unavailable"
			if h.logger != nil {
				h.logger.Warn("audio storage unreachable", zap.Error(err))
			}
		}
	}
	return HandleSuccess(nil, c, resp)
}

// GetConfig handles GET /api/system/config
// @Summary      Get system configuration
// @Tags         System
// @Produce      json
// @Success      200  {object}  systemdto.ConfigResponse
// @Router       /api/system/config [get]
func (h *System) GetConfig(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToConfigResponse(h.config.Get()))
}

// UpdateConfig handles PATCH /api/system/config
// @Summary      Update system configuration
// @Description  Applies a partial update; the model must belong to the resulting provider
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request  body      systemdto.UpdateConfigRequest  true  "Fields to change"
// @Success      200      {object}  systemdto.ConfigResponse
// @Failure      400      {object}  map[string]interface{}  "Unknown provider or model"
// @Router       /api/system/config [patch]
func (h *System) UpdateConfig(c echo.Context) error {
	var req systemdto.UpdateConfigRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	cfg, err := h.config.Update(c.Request().Context(), entities.ConfigPatch{
		Provider:     req.Provider,
		Model:        req.Model,
		WhisperModel: req.WhisperModel,
		Debug:        req.Debug,
	})
	if err != nil {
		if stdErrors.Is(err, entities.ErrInvalidInput) {
			return HandleError(h.logger, c, errors.ErrConfigInvalid(err))
		}
		return HandleError(h.logger, c, mapError(err, errors.ErrConfigInvalid))
	}
	return HandleSuccess(h.logger, c, presenter.ToConfigResponse(cfg))
}

// ListProviders handles GET /api/system/providers
// @Summary      List providers
// @Tags         System
// @Produce      json
// @Success      200  {array}  systemdto.ProviderResponse
// @Router       /api/system/providers [get]
func (h *System) ListProviders(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToProviderListResponse(h.config.Catalog().Providers()))
}

// ListWhisperModels handles GET /api/system/whisper-models
// @Summary      List speech models
// @Tags         System
// @Produce      json
// @Success      200  {object}  systemdto.WhisperModelsResponse
// @Router       /api/system/whisper-models [get]
func (h *System) ListWhisperModels(c echo.Context) error {
	return HandleSuccess(h.logger, c, &systemdto.WhisperModelsResponse{
		Models:  h.config.Catalog().SpeechModels(),
		Current: h.config.Get().WhisperModel,
	})
}
