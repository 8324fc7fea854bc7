package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Operation names recorded for pipeline work
const (
	OperationTranscribe = "transcribe"
	OperationSummarize  = "summarize"
)

// CallRecord captures one collaborator call made while debug is enabled
type CallRecord struct {
	ID         uuid.UUID         `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	SessionID  string            `json:"session_id" gorm:"column:session_id;index"`
	Operation  string            `json:"operation" gorm:"column:operation"`
	PromptID   string            `json:"prompt_id" gorm:"column:prompt_id"`
	Provider   string            `json:"provider" gorm:"column:provider"`
	Model      string            `json:"model" gorm:"column:model"`
	Parameters datatypes.JSONMap `json:"parameters" gorm:"column:parameters"`
	DurationMS int64             `json:"duration_ms" gorm:"column:duration_ms"`
	Error      string            `json:"error,omitempty" gorm:"column:error"`
	CreatedAt  time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (CallRecord) TableName() string { return "call_records" }
