// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements project scoping. Every project-scoped endpoint reads
// the owning project from the X-Project-ID header; the middleware validates
// the header shape once and stashes the value so handlers never touch the
// raw header themselves.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// HeaderProjectID is the request header carrying the project scope for all
// project-scoped endpoints.
const HeaderProjectID = "X-Project-ID"

// HeaderUserID is the request header carrying the caller identity. Upstream
// authentication is expected to have verified it.
const HeaderUserID = "X-User-ID"

// ctxKeyProjectID stashes the validated project id in the Gin context.
const ctxKeyProjectID = "scope.project"

// ctxKeyUserID stashes the caller identity in the Gin context. The rate
// limiter, the idempotency validator, and the handlers all read this key.
const ctxKeyUserID = "userID"

// projectIDPattern restricts project ids to a conservative token shape.
var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,64}$`)

// ProjectID returns the validated project id stored by ProjectScope. The
// second return value indicates presence.
func ProjectID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyProjectID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// UserID returns the caller identity stored by ProjectScope. The second
// return value indicates presence.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ProjectScope validates the X-Project-ID header when present and stashes it
// in the request context, and stashes the X-User-ID caller identity so the
// rate limiter and idempotency validator key on the same user the services
// persist under. Both headers are optional at this layer: endpoints that
// require a scope reject its absence themselves, so cross-project reads
// (a user's own session list) pass through untouched.
func ProjectScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader(HeaderUserID); uid != "" {
			c.Set(ctxKeyUserID, uid)
		}
		pid := c.GetHeader(HeaderProjectID)
		if pid == "" {
			c.Next()
			return
		}
		if !projectIDPattern.MatchString(pid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_project_id",
				"message": "invalid X-Project-ID",
			})
			return
		}
		c.Set(ctxKeyProjectID, pid)
		c.Next()
	}
}
