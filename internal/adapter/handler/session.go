package handler

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/errors"
	sessiondto "github.com/johnquangdev/zyquraflow/internal/adapter/dto/session"
	"github.com/johnquangdev/zyquraflow/internal/adapter/presenter"
	"github.com/johnquangdev/zyquraflow/internal/usecase/session"
)

// Session handles session lifecycle and processing requests
type Session struct {
	store    *session.Store
	linkage  *session.Linkage
	pipeline *session.Pipeline
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store, linkage *session.Linkage, pipeline *session.Pipeline, logger *zap.Logger) *Session {
	return &Session{
		store:    store,
		linkage:  linkage,
		pipeline: pipeline,
		logger:   logger,
	}
}

func (h *Session) fail(c echo.Context, err error) error {
	return HandleError(h.logger, c, mapError(err, errors.ErrSessionNotFound))
}

// CreateSession handles POST /api/sessions
// @Summary      Create a session
// @Description  Creates a draft session, optionally linked to an existing case
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      sessiondto.CreateSessionRequest  false  "Optional case to link"
// @Success      200      {object}  sessiondto.SessionResponse
// @Failure      404      {object}  map[string]interface{}  "Case not found"
// @Router       /api/sessions [post]
func (h *Session) CreateSession(c echo.Context) error {
	var req sessiondto.CreateSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidPayload())
		}
	}

	s, err := h.store.Create(c.Request().Context(), req.CaseID)
	if err != nil {
		return HandleError(h.logger, c, mapError(err, errors.ErrCaseNotFound))
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// ListSessions handles GET /api/sessions
// @Summary      List sessions
// @Description  Lists sessions newest first, optionally only those linked to a case
// @Tags         Sessions
// @Produce      json
// @Param        case_id  query     string  false  "Case ID filter"
// @Success      200      {array}   sessiondto.SessionResponse
// @Router       /api/sessions [get]
func (h *Session) ListSessions(c echo.Context) error {
	var req sessiondto.ListSessionsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	var caseID *string
	if id := strings.TrimSpace(req.CaseID); id != "" {
		caseID = &id
	}

	sessions, err := h.store.List(c.Request().Context(), caseID)
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionListResponse(sessions))
}

// GetSession handles GET /api/sessions/:id
// @Summary      Get a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessiondto.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /api/sessions/{id} [get]
func (h *Session) GetSession(c echo.Context) error {
	s, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// UploadAudio handles POST /api/sessions/:id/audio
// @Summary      Attach audio
// @Description  Stores the uploaded recording and moves a draft session to uploaded
// @Tags         Sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Session ID"
// @Param        file  formData  file    true  "Audio file"
// @Success      200   {object}  sessiondto.SessionResponse
// @Failure      400   {object}  map[string]interface{}  "No file or session already summarized"
// @Failure      404   {object}  map[string]interface{}  "Session not found"
// @Failure      409   {object}  map[string]interface{}  "Another operation is in progress"
// @Router       /api/sessions/{id}/audio [post]
func (h *Session) UploadAudio(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return HandleError(h.logger, c, errors.ErrMissingAudioFile())
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	s, err := h.store.AttachAudio(c.Request().Context(), c.Param("id"), session.AudioUpload{
		Filename: fh.Filename,
		Data:     data,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// SetTranscript handles PUT /api/sessions/:id/transcript
// @Summary      Replace transcript
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Session ID"
// @Param        request  body      sessiondto.SetTranscriptRequest  true  "Transcript text"
// @Success      200      {object}  sessiondto.SessionResponse
// @Failure      400      {object}  map[string]interface{}  "Session has no audio"
// @Router       /api/sessions/{id}/transcript [put]
func (h *Session) SetTranscript(c echo.Context) error {
	var req sessiondto.SetTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	s, err := h.store.SetTranscript(c.Request().Context(), c.Param("id"), *req.Transcript)
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// Transcribe handles POST /api/sessions/:id/transcribe
// @Summary      Transcribe audio
// @Description  Runs speech-to-text with the configured whisper model and stores the transcript
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessiondto.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Session has no audio"
// @Failure      409  {object}  map[string]interface{}  "Another operation is in progress"
// @Failure      502  {object}  map[string]interface{}  "Transcription failed, retryable"
// @Router       /api/sessions/{id}/transcribe [post]
func (h *Session) Transcribe(c echo.Context) error {
	s, err := h.pipeline.Transcribe(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// Summarize handles POST /api/sessions/:id/summarize
// @Summary      Summarize transcript
// @Description  Asks the configured provider/model for a structured summary
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessiondto.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Session has no transcript"
// @Failure      409  {object}  map[string]interface{}  "Another operation is in progress"
// @Failure      502  {object}  map[string]interface{}  "Summarization failed, retryable"
// @Router       /api/sessions/{id}/summarize [post]
func (h *Session) Summarize(c echo.Context) error {
	s, err := h.pipeline.Summarize(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// Unlink handles POST /api/sessions/:id/unlink
// @Summary      Unlink from case
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessiondto.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /api/sessions/{id}/unlink [post]
func (h *Session) Unlink(c echo.Context) error {
	s, err := h.linkage.Unlink(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(s))
}

// Operation handles GET /api/sessions/:id/operation
// @Summary      In-flight operation
// @Description  Reports which mutation, if any, currently holds the session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessiondto.OperationResponse
// @Router       /api/sessions/{id}/operation [get]
func (h *Session) Operation(c echo.Context) error {
	id := c.Param("id")
	lease, err := h.pipeline.InFlight(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToOperationResponse(id, lease))
}

// Calls handles GET /api/sessions/:id/calls
// @Summary      Debug call records
// @Description  Lists collaborator calls recorded while debug mode was on
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {array}   sessiondto.CallRecordResponse
// @Router       /api/sessions/{id}/calls [get]
func (h *Session) Calls(c echo.Context) error {
	records, err := h.pipeline.Calls(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToCallRecordListResponse(records))
}
