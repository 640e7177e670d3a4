package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListUsers returns the whole directory, names and emails only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"users": users})
}

// SearchUsers matches a substring against names and emails.
func (h *Handler) SearchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		badRequest(c, "Search query is required")
		return
	}

	users, err := h.Users.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"users": users})
}
