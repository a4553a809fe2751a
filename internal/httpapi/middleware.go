package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"feedbackhub/internal/ctxutil"
	"feedbackhub/internal/db"
	"feedbackhub/internal/metrics"
	"feedbackhub/internal/models"
	"feedbackhub/internal/observability"
)

const ctxUserID = "user_id"

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// requireAuth — bearer-токен обязателен; субъект кладём в контекст.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, err := db.UserIDByToken(c.Request.Context(), s.database, token)
		if errors.Is(err, db.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			observability.CaptureErr(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// requireLeader — маршруты только для лидеров.
func (s *Server) requireLeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := db.HasRole(c.Request.Context(), s.database, s.userID(c), models.RoleLeader)
		if err != nil {
			observability.CaptureErr(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: Leaders only"})
			return
		}
		c.Next()
	}
}

func (s *Server) userID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func bearerToken(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
