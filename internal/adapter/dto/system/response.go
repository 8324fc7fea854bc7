package system

// ConfigResponse is the active provider/model selection
type ConfigResponse struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	WhisperModel string `json:"whisper_model"`
	Debug        bool   `json:"debug"`
}

// ProviderResponse is one catalog entry
type ProviderResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

// WhisperModelsResponse lists the selectable speech models
type WhisperModelsResponse struct {
	Models  []string `json:"models"`
	Current string   `json:"current"`
}

// HealthResponse reports service and provider availability
type HealthResponse struct {
	Status          string `json:"status"`
	Environment     string `json:"environment"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	OllamaAvailable bool   `json:"ollama_available"`
	Storage         string `json:"storage,omitempty"`
}
