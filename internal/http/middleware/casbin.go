package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// CasbinMW checks the caller's role against the route policies
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
	log      logrus.FieldLogger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer, log logrus.FieldLogger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, log: log}
}

// Enforce returns the casbin authorization middleware. It must run after the auth middleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		// Casbin subjects are prefixed with "role_"
		allowed, err := mw.enforcer.Enforce("role_"+role, path, method)
		if err != nil {
			mw.log.WithError(err).WithFields(logrus.Fields{"role": role, "path": path, "method": method}).Error("authorization check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
			return
		}

		c.Next()
	}
}
