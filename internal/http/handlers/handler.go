package handlers

import (
	"errors"
	"net/http"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/middleware"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/response"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"
	"github.com/Hamzabaloch08/taskApp-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth      *service.AuthService
	Tasks     *service.TaskService
	Transport session.Transport
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, transport session.Transport) *Handler {
	return &Handler{
		Auth:      auth,
		Tasks:     tasks,
		Transport: transport,
	}
}

// identity returns the caller resolved by middleware.Authenticate, writing
// a 401 when there is none.
func identity(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return domain.Identity{}, false
	}
	return id, true
}

// fail maps service errors onto HTTP statuses. Unknown errors are logged
// and reported as a generic 500.
func fail(c *gin.Context, op string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Fail(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, service.ErrTaskNotFound):
		response.Fail(c, http.StatusNotFound, "Task not found")
	default:
		logger.WithContext(c.Request.Context()).Error(op+" failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, "Server error")
	}
}
