package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds all handlers
type Router struct {
	sessionHandler *Session
	caseHandler    *Case
	systemHandler  *System
}

// NewRouter creates a new router with all handlers
func NewRouter(sessionHandler *Session, caseHandler *Case, systemHandler *System) *Router {
	return &Router{
		sessionHandler: sessionHandler,
		caseHandler:    caseHandler,
		systemHandler:  systemHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.systemHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	rt.setupSystemRoutes(api)
	rt.setupSessionRoutes(api)
	rt.setupCaseRoutes(api)

	e.RouteNotFound("/api/*", rt.notFound)
}

// setupSystemRoutes configures provider/model selection routes
func (rt *Router) setupSystemRoutes(g *echo.Group) {
	systemGroup := g.Group("/system")

	systemGroup.GET("/config", rt.systemHandler.GetConfig)
	systemGroup.PATCH("/config", rt.systemHandler.UpdateConfig)
	systemGroup.GET("/providers", rt.systemHandler.ListProviders)
	systemGroup.GET("/whisper-models", rt.systemHandler.ListWhisperModels)
}

// setupSessionRoutes configures session lifecycle and processing routes
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessionGroup := g.Group("/sessions")

	sessionGroup.POST("", rt.sessionHandler.CreateSession)
	sessionGroup.GET("", rt.sessionHandler.ListSessions)
	sessionGroup.GET("/:id", rt.sessionHandler.GetSession)
	sessionGroup.POST("/:id/audio", rt.sessionHandler.UploadAudio)
	sessionGroup.PUT("/:id/transcript", rt.sessionHandler.SetTranscript)
	sessionGroup.POST("/:id/transcribe", rt.sessionHandler.Transcribe)
	sessionGroup.POST("/:id/summarize", rt.sessionHandler.Summarize)
	sessionGroup.POST("/:id/unlink", rt.sessionHandler.Unlink)
	sessionGroup.GET("/:id/operation", rt.sessionHandler.Operation)
	sessionGroup.GET("/:id/calls", rt.sessionHandler.Calls)
}

// setupCaseRoutes configures case routes
func (rt *Router) setupCaseRoutes(g *echo.Group) {
	caseGroup := g.Group("/cases")

	caseGroup.GET("", rt.caseHandler.ListCases)
	caseGroup.POST("", rt.caseHandler.CreateCase)
	caseGroup.GET("/:id", rt.caseHandler.GetCase)
	caseGroup.PATCH("/:id", rt.caseHandler.RenameCase)
	caseGroup.POST("/:id/sessions/:session_id", rt.caseHandler.LinkSession)
}

// notFound returns the standard envelope for unknown API routes
func (rt *Router) notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]interface{}{
		"code":    http.StatusNotFound,
		"message": "route not found",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
	})
}
