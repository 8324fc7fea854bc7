package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/errors"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			log := logger.Warn
			if appErr.HTTPCode >= http.StatusInternalServerError {
				log = logger.Error
			}
			log("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// mapError translates domain errors into AppErrors. notFound builds the
// resource-specific 404.
func mapError(err error, notFound func(error) errors.AppError) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var (
		perr *entities.ProcessingError
		serr *entities.StorageError
	)
	switch {
	case stdErrors.As(err, &perr) && stdErrors.Is(perr.Kind, entities.ErrTranscriptionFailed):
		return errors.ErrAITranscriptionFailed(perr.Err)
	case stdErrors.As(err, &perr):
		return errors.ErrAISummaryFailed(perr.Err)
	case stdErrors.As(err, &serr):
		return errors.ErrStorageFailed(serr.Op, serr.Err)
	case stdErrors.Is(err, context.Canceled):
		return errors.ErrRequestCanceled(err)
	case stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrRequestTimeout(err)
	case stdErrors.Is(err, entities.ErrNotFound):
		return notFound(err)
	case stdErrors.Is(err, entities.ErrDuplicate):
		return errors.ErrConflict("Resource already exists", err)
	case stdErrors.Is(err, entities.ErrConflict):
		return errors.ErrSessionBusy(err)
	case stdErrors.Is(err, entities.ErrInvalidState):
		return errors.ErrSessionInvalidState(err)
	case stdErrors.Is(err, entities.ErrInvalidInput):
		appErr = errors.ErrInvalidArgument("Invalid argument")
		appErr.Raw = err
		return appErr
	default:
		return errors.ErrInternal(err)
	}
}

// notFoundAny is used where either a session or a case may be missing
func notFoundAny(err error) errors.AppError {
	appErr := errors.ErrNotFound("Session or case")
	appErr.Raw = err
	return appErr
}
