// Package handlers implements the HTTP API: stateless movie and trending
// lookups plus per-session controllers pushed over WebSocket.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/amaumene/gomovies/internal/config"
	"github.com/amaumene/gomovies/internal/constants"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/services"
	"github.com/amaumene/gomovies/internal/session"
	"github.com/amaumene/gomovies/internal/view"
)

// Handler handles HTTP requests for the movie API.
type Handler struct {
	services *services.Container
	sessions *session.Manager
	renderer view.Renderer
	config   *config.Config
	upgrader websocket.Upgrader
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, sessions *session.Manager, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		sessions: sessions,
		renderer: view.NewRenderer(cfg.ImageBaseURL, cfg.NoPosterURL),
		config:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORS is open to every origin; WebSocket follows suit.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)
	r.GET("/health", h.handleHealth)

	api := r.Group("/api")
	api.GET("/trending", h.handleTrending)
	api.GET("/movies", h.handleMovies)

	api.POST("/sessions", h.handleCreateSession)
	api.GET("/sessions/:id", h.handleGetSession)
	api.PUT("/sessions/:id/input", h.handleSessionInput)
	api.POST("/sessions/:id/more", h.handleSessionMore)
	api.DELETE("/sessions/:id", h.handleDeleteSession)
	api.GET("/sessions/:id/ws", h.handleSessionWS)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to %s! Browse /api/movies or open a session at /api/sessions.", constants.AppName)
}

func (h *Handler) handleHealth(c *gin.Context) {
	cachedPages := 0
	if h.services.Cache != nil {
		cachedPages = h.services.Cache.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"version":         constants.AppVersion,
		"sessions":        h.sessions.Len(),
		"cached_pages":    cachedPages,
		"trending_loaded": h.services.Trending.Loaded(),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case apperrors.IsType(err, apperrors.ErrorTypeInvalidPage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.services.Logger.Errorf("[Handler] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
