package presenter

import (
	casedto "github.com/johnquangdev/zyquraflow/internal/adapter/dto/cases"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// ToCaseResponse converts a Case entity to CaseResponse DTO
func ToCaseResponse(c *entities.Case) *casedto.CaseResponse {
	if c == nil {
		return nil
	}
	return &casedto.CaseResponse{
		CaseID:       c.CaseID,
		Alias:        c.Alias,
		CreatedAt:    c.CreatedAt,
		SessionCount: c.SessionCount,
	}
}

// ToCaseListResponse converts a slice of Case entities
func ToCaseListResponse(cases []*entities.Case) []*casedto.CaseResponse {
	responses := make([]*casedto.CaseResponse, len(cases))
	for i, c := range cases {
		responses[i] = ToCaseResponse(c)
	}
	return responses
}

// ToCaseDetailResponse converts a case and its linked sessions
func ToCaseDetailResponse(d *entities.CaseDetail) *casedto.CaseDetailResponse {
	if d == nil {
		return nil
	}
	return &casedto.CaseDetailResponse{
		CaseResponse: *ToCaseResponse(&d.Case),
		Sessions:     ToSessionListResponse(d.Sessions),
	}
}
