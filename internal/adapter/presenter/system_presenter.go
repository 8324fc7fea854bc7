package presenter

import (
	"github.com/johnquangdev/zyquraflow/internal/adapter/dto/system"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// ToConfigResponse converts the active system configuration
func ToConfigResponse(cfg entities.SystemConfig) *system.ConfigResponse {
	return &system.ConfigResponse{
		Provider:     cfg.Provider,
		Model:        cfg.Model,
		WhisperModel: cfg.WhisperModel,
		Debug:        cfg.Debug,
	}
}

// ToProviderListResponse converts catalog providers
func ToProviderListResponse(providers []entities.Provider) []*system.ProviderResponse {
	responses := make([]*system.ProviderResponse, len(providers))
	for i, p := range providers {
		responses[i] = &system.ProviderResponse{
			ID:     p.ID,
			Name:   p.Name,
			Models: p.Models,
		}
	}
	return responses
}
