package handlers

import (
	"errors"
	"net/http"

	"studytrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Messages returned to clients. Internal details only go to the log.
const (
	errMsgInternal           = "internal server error"
	errMsgInvalidCredentials = "invalid credentials"
	errMsgUsernameTaken      = "username already exists"
	errMsgTaskNotFound       = "task not found"
	errMsgCredentialsReq     = "username and password are required"
	errMsgTextRequired       = "text is required"
	errMsgCompletedRequired  = "completed is required"
	errMsgInvalidTaskID      = "invalid task id"
	errMsgMissingToken       = "missing bearer token"
	errMsgInvalidToken       = "invalid or expired token"
)

// statusFor maps a service error onto an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, errMsgInvalidCredentials
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, errMsgUsernameTaken
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusForbidden, errMsgInvalidToken
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, errMsgTaskNotFound
	default:
		return http.StatusInternalServerError, errMsgInternal
	}
}

// respondError logs err under logKey and writes the mapped JSON error.
// Server-side failures log at error level, client mistakes at info.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg := statusFor(err)
	fields := append([]interface{}{"err", err, "status", code}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return false
	}
	return true
}
