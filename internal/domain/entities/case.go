package entities

import (
	"fmt"
	"time"
)

// Case groups zero or more sessions under an operator-chosen alias
type Case struct {
	CaseID    string    `json:"case_id" gorm:"column:case_id;primaryKey"`
	Alias     string    `json:"alias" gorm:"column:alias"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	// SessionCount is computed by the query that loads the case
	SessionCount int64 `json:"session_count" gorm:"column:session_count;->;-:migration"`
}

func (Case) TableName() string { return "cases" }

// FormatCaseID renders CASE-YYYY-NNNN
func FormatCaseID(year, seq int) string {
	return fmt.Sprintf("CASE-%04d-%04d", year, seq)
}

// CaseDetail is a case together with the sessions currently linked to it
type CaseDetail struct {
	Case
	Sessions []*Session `json:"sessions"`
}
