package handlers

import (
	"net/http"
	"strings"
	"time"

	"studytrack/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	identityCtxKey  = "identity"
	requestIDHeader = "X-Request-ID"
)

// userIdentity rejects requests without a valid bearer token:
// 401 when no token is presented, 403 when it does not verify.
func (h *Handler) userIdentity(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsgMissingToken})
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Infow("auth_token_rejected", "err", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errMsgInvalidToken})
		return
	}

	// store in Gin context
	c.Set(identityCtxKey, id)
	c.Next()
}

// bearerToken extracts the credential from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// identityFrom returns the identity stored by userIdentity.
func identityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityCtxKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// mustIdentity aborts with 401 when the route was mounted without userIdentity.
func mustIdentity(c *gin.Context) (models.Identity, bool) {
	id, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsgMissingToken})
	}
	return id, ok
}

// requestLogger logs one line per request and propagates a request id.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Header(requestIDHeader, reqID)

	c.Next()

	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start).String(),
		"ip", c.ClientIP(),
		"request_id", reqID,
	)
}
