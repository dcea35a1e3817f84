package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/services"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	var details []string
	if err != nil {
		msg = err.Error()
		var vErrs utils.ValidationErrors
		if errors.As(err, &vErrs) {
			details = vErrs.Messages()
		}
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Details: details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// RespondServiceError maps the well-known service errors onto HTTP
// statuses; anything unrecognized is a 500.
func RespondServiceError(c *gin.Context, err error) {
	var vErrs utils.ValidationErrors
	switch {
	case errors.As(err, &vErrs):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrSetNotFound),
		errors.Is(err, services.ErrUnknownDegree):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrAccountClosed):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrNotVisible),
		errors.Is(err, services.ErrNotPostOwner):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyRequested),
		errors.Is(err, services.ErrAlreadyConnected),
		errors.Is(err, services.ErrBlocked):
		RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrSelfConnection),
		errors.Is(err, services.ErrNotConnected),
		errors.Is(err, services.ErrNotBlocked),
		errors.Is(err, services.ErrNoPendingRequest),
		errors.Is(err, services.ErrCloseFriendMissing),
		errors.Is(err, services.ErrEmptyBody),
		errors.Is(err, services.ErrInvalidPrivacy),
		errors.Is(err, services.ErrQuizEmpty),
		errors.Is(err, services.ErrQuizBadQuestion),
		errors.Is(err, services.ErrAnswerCount),
		errors.Is(err, services.ErrSetEmpty),
		errors.Is(err, services.ErrBadCard):
		RespondError(c, http.StatusBadRequest, "bad_request", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
