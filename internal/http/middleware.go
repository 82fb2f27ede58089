package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scoreboard-server/internal/auth"
	"scoreboard-server/internal/domain"
	"scoreboard-server/internal/ratelimit"
)

const (
	claimsContextKey     = "authClaims"
	submissionContextKey = "scoreSubmission"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

// authenticate verifies the bearer token and stashes its claims. A missing,
// malformed, expired or forged token ends the request with 401.
func (h *Handler) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := h.issuer.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// rateLimit gates the request against the given endpoint class. Authenticated
// callers are keyed by user id, anonymous ones by client IP.
func (h *Handler) rateLimit(class ratelimit.Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if claims := claimsFromContext(c); claims != nil {
			caller = claims.Subject
		}

		if err := h.limiter.Allow(caller, class); err != nil {
			h.renderError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ownership binds the submission body and checks the caller may attribute the
// score to the requested target, strictly before the workflow runs. The bound
// body is stashed for the handler since it can only be read once.
func (h *Handler) ownership(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := claimsFromContext(c)
	if err := auth.Authorize(claims, req.UserID, req.PlayerName); err != nil {
		h.renderError(c, err)
		c.Abort()
		return
	}

	c.Set(submissionContextKey, req)
	c.Next()
}

func (h *Handler) adminOnly(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Role != domain.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	c.Next()
}

func claimsFromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func submissionFromContext(c *gin.Context) (submitScoreRequest, bool) {
	v, ok := c.Get(submissionContextKey)
	if !ok {
		return submitScoreRequest{}, false
	}
	req, ok := v.(submitScoreRequest)
	return req, ok
}
