package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/errors"
	casedto "github.com/johnquangdev/zyquraflow/internal/adapter/dto/cases"
	"github.com/johnquangdev/zyquraflow/internal/adapter/presenter"
	"github.com/johnquangdev/zyquraflow/internal/usecase/cases"
	"github.com/johnquangdev/zyquraflow/internal/usecase/session"
)

// Case handles case management and session linking
type Case struct {
	cases   *cases.Service
	linkage *session.Linkage
	logger  *zap.Logger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *cases.Service, linkage *session.Linkage, logger *zap.Logger) *Case {
	return &Case{
		cases:   caseService,
		linkage: linkage,
		logger:  logger,
	}
}

// ListCases handles GET /api/cases
// @Summary      List cases
// @Description  Lists cases newest first with their current session counts
// @Tags         Cases
// @Produce      json
// @Success      200  {array}  casedto.CaseResponse
// @Router       /api/cases [get]
func (h *Case) ListCases(c echo.Context) error {
	list, err := h.cases.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, mapError(err, errors.ErrCaseNotFound))
	}
	return HandleSuccess(h.logger, c, presenter.ToCaseListResponse(list))
}

// CreateCase handles POST /api/cases
// @Summary      Create a case
// @Tags         Cases
// @Accept       json
// @Produce      json
// @Param        request  body      casedto.CreateCaseRequest  true  "Case alias"
// @Success      200      {object}  casedto.CaseResponse
// @Failure      400      {object}  map[string]interface{}  "Alias missing or blank"
// @Router       /api/cases [post]
func (h *Case) CreateCase(c echo.Context) error {
	var req casedto.CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	created, err := h.cases.Create(c.Request().Context(), req.Alias)
	if err != nil {
		return HandleError(h.logger, c, mapError(err, errors.ErrCaseNotFound))
	}
	return HandleSuccess(h.logger, c, presenter.ToCaseResponse(created))
}

// GetCase handles GET /api/cases/:id
// @Summary      Get a case
// @Description  Returns the case and the sessions currently linked to it
// @Tags         Cases
// @Produce      json
// @Param        id   path      string  true  "Case ID"
// @Success      200  {object}  casedto.CaseDetailResponse
// @Failure      404  {object}  map[string]interface{}  "Case not found"
// @Router       /api/cases/{id} [get]
func (h *Case) GetCase(c echo.Context) error {
	detail, err := h.cases.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, mapError(err, errors.ErrCaseNotFound))
	}
	return HandleSuccess(h.logger, c, presenter.ToCaseDetailResponse(detail))
}

// RenameCase handles PATCH /api/cases/:id
// @Summary      Rename a case
// @Tags         Cases
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Case ID"
// @Param        request  body      casedto.RenameCaseRequest  true  "New alias"
// @Success      200      {object}  casedto.CaseResponse
// @Failure      404      {object}  map[string]interface{}  "Case not found"
// @Router       /api/cases/{id} [patch]
func (h *Case) RenameCase(c echo.Context) error {
	var req casedto.RenameCaseRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	renamed, err := h.cases.Rename(c.Request().Context(), c.Param("id"), req.Alias)
	if err != nil {
		return HandleError(h.logger, c, mapError(err, errors.ErrCaseNotFound))
	}
	return HandleSuccess(h.logger, c, presenter.ToCaseResponse(renamed))
}

// LinkSession handles POST /api/cases/:id/sessions/:session_id
// @Summary      Link a session
// @Description  Links the session to the case, replacing any previous link
// @Tags         Cases
// @Produce      json
// @Param        id          path      string  true  "Case ID"
// @Param        session_id  path      string  true  "Session ID"
// @Success      200         {object}  map[string]interface{}  "Linked session"
// @Failure      404         {object}  map[string]interface{}  "Session or case not found"
// @Failure      409         {object}  map[string]interface{}  "Another operation is in progress"
// @Router       /api/cases/{id}/sessions/{session_id} [post]
func (h *Case) LinkSession(c echo.Context) error {
	s, err := h.linkage.Link(c.Request().Context(), c.Param("session_id"), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, mapError(err, notFoundAny))
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}
