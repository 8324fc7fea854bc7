package system

// UpdateConfigRequest is a partial update of the system configuration
type UpdateConfigRequest struct {
	Provider     *string `json:"provider,omitempty" validate:"omitempty,notblank"`
	Model        *string `json:"model,omitempty" validate:"omitempty,notblank"`
	WhisperModel *string `json:"whisper_model,omitempty" validate:"omitempty,notblank"`
	Debug        *bool   `json:"debug,omitempty"`
}
