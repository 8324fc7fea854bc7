package entities

// SystemConfig is the active provider/model selection
type SystemConfig struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	WhisperModel string `json:"whisper_model"`
	Debug        bool   `json:"debug"`
}

// DefaultSystemConfig is used until an operator changes the selection
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Provider:     "ollama",
		Model:        "llama3.2",
		WhisperModel: "base",
		Debug:        false,
	}
}

// ConfigPatch is a partial update; nil fields are left unchanged
type ConfigPatch struct {
	Provider     *string
	Model        *string
	WhisperModel *string
	Debug        *bool
}

// Apply returns a copy of cfg with the patch applied
func (p ConfigPatch) Apply(cfg SystemConfig) SystemConfig {
	if p.Provider != nil {
		cfg.Provider = *p.Provider
	}
	if p.Model != nil {
		cfg.Model = *p.Model
	}
	if p.WhisperModel != nil {
		cfg.WhisperModel = *p.WhisperModel
	}
	if p.Debug != nil {
		cfg.Debug = *p.Debug
	}
	return cfg
}

// ConfigEntry is one persisted key/value row of the system configuration
type ConfigEntry struct {
	Key   string `gorm:"column:config_key;primaryKey"`
	Value string `gorm:"column:config_value"`
}

func (ConfigEntry) TableName() string { return "system_config" }

// Provider is a language-model backend and the models it offers
type Provider struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Models []string `json:"models" yaml:"models"`
}

// HasModel reports whether model is offered by the provider
func (p Provider) HasModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}
