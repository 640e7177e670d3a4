package handlers

import (
	"context"
	"errors"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/http/middleware"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Notifier is the real-time fan-out surface the task handlers trigger.
type Notifier interface {
	BroadcastTaskCreated(t *domain.Task)
	BroadcastTaskUpdated(t *domain.Task)
	BroadcastTaskDeleted(taskID uuid.UUID)
	NotifyTaskAssigned(userID uuid.UUID, t *domain.Task)
}

// UserDirectory backs the /users lookup endpoints.
type UserDirectory interface {
	List(ctx context.Context) ([]domain.PublicUser, error)
	Search(ctx context.Context, query string) ([]domain.PublicUser, error)
}

// Options carries boundary concerns that do not belong to any service.
type Options struct {
	CookieSecure bool
	CookieMaxAge int // seconds
}

type Handler struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
	Users UserDirectory
	Hub   Notifier

	opts Options
}

func New(auth *service.AuthService, tasks *service.TaskService, users UserDirectory, hub Notifier, opts Options) *Handler {
	return &Handler{
		Auth:  auth,
		Tasks: tasks,
		Users: users,
		Hub:   hub,
		opts:  opts,
	}
}

func getUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps a domain error kind to its HTTP status; anything
// uncategorized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusFromKind(de.Kind), gin.H{"success": false, "message": de.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
}

func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindConflict:
		// duplicate email surfaces as a plain 400 to the client
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
