package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gomovies/internal/session"
	"github.com/amaumene/gomovies/internal/view"
)

// SessionResponse is a session id with its current view.
type SessionResponse struct {
	ID   string    `json:"id"`
	View view.List `json:"view"`
}

// MoreResponse reports whether a next-page fetch was started.
type MoreResponse struct {
	SessionResponse
	Started bool `json:"started"`
}

type inputRequest struct {
	Query string `json:"query"`
}

func (h *Handler) sessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{ID: s.ID, View: h.renderer.List(s.Controller.State())}
}

func (h *Handler) handleCreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, h.sessionResponse(s))
}

func (h *Handler) handleGetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(s))
}

func (h *Handler) handleSessionInput(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.Controller.SetInput(req.Query)
	c.JSON(http.StatusAccepted, h.sessionResponse(s))
}

func (h *Handler) handleSessionMore(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	started := s.Controller.LoadMore()
	c.JSON(http.StatusOK, MoreResponse{SessionResponse: h.sessionResponse(s), Started: started})
}

func (h *Handler) handleDeleteSession(c *gin.Context) {
	h.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}
