package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gomovies/internal/controller"
	apperrors "github.com/amaumene/gomovies/internal/errors"
)

// handleMovies runs a single fetch with the same outcome rules as a
// session: a failed or empty page becomes a user-facing message.
func (h *Handler) handleMovies(c *gin.Context) {
	query := c.Query("query")

	rawPage := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		h.respondError(c, apperrors.NewInvalidPageParamError(rawPage))
		return
	}

	h.services.Logger.Infof("[MoviesHandler] fetching movies - query: %q, page: %d", query, page)

	resp, err := h.services.TMDB.FetchPage(c.Request.Context(), query, page)
	if err != nil {
		h.services.Logger.Errorf("[MoviesHandler] fetch failed (status %d): %v", apperrors.StatusCode(err), err)
	}

	state := controller.Apply(controller.State{Input: query, Term: query}, page, resp, err)
	if top := controller.TopResult(query, resp, err); top != nil {
		h.services.Recorder.Record(query, *top)
	}

	c.JSON(http.StatusOK, h.renderer.List(state))
}

func (h *Handler) handleTrending(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trending": h.renderer.Trending(h.services.Trending.Entries())})
}
