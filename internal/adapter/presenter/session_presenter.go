package presenter

import (
	"github.com/johnquangdev/zyquraflow/internal/adapter/dto/session"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/lock"
)

// ToSessionResponse converts a Session entity to SessionResponse DTO
func ToSessionResponse(s *entities.Session) *session.SessionResponse {
	if s == nil {
		return nil
	}

	response := &session.SessionResponse{
		SessionID:  s.SessionID,
		CaseID:     s.CaseID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		AudioPath:  s.AudioPath,
		FileSize:   s.FileSize,
		Duration:   s.Duration,
		Status:     string(s.Status),
		Transcript: s.Transcript,
	}

	if s.Summary != nil {
		response.Summary = &session.SummaryResponse{
			Title:        s.Summary.Title,
			Participants: nonNil(s.Summary.Participants),
			KeyPoints:    nonNil(s.Summary.KeyPoints),
			ActionItems:  nonNil(s.Summary.ActionItems),
			Summary:      s.Summary.Summary,
		}
	}

	return response
}

// ToSessionListResponse converts a slice of sessions, newest first as given
func ToSessionListResponse(sessions []*entities.Session) []*session.SessionResponse {
	responses := make([]*session.SessionResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = ToSessionResponse(s)
	}
	return responses
}

// ToOperationResponse reports the lease holding a session, if any
func ToOperationResponse(sessionID string, lease *lock.Lease) *session.OperationResponse {
	resp := &session.OperationResponse{SessionID: sessionID}
	if lease == nil {
		return resp
	}
	acquired := lease.AcquiredAt
	resp.Busy = true
	resp.Operation = lease.Operation
	resp.AcquiredAt = &acquired
	return resp
}

// ToCallRecordListResponse converts debug call records
func ToCallRecordListResponse(records []*entities.CallRecord) []*session.CallRecordResponse {
	responses := make([]*session.CallRecordResponse, len(records))
	for i, r := range records {
		responses[i] = &session.CallRecordResponse{
			ID:         r.ID.String(),
			Operation:  r.Operation,
			PromptID:   r.PromptID,
			Provider:   r.Provider,
			Model:      r.Model,
			Parameters: map[string]interface{}(r.Parameters),
			DurationMS: r.DurationMS,
			Error:      r.Error,
			CreatedAt:  r.CreatedAt,
		}
	}
	return responses
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
