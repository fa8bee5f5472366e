package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// PolicyHandlers lets administrators edit the authorization rules at runtime
type PolicyHandlers struct {
	policySvc domain.PolicyService
	log       logrus.FieldLogger
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService, log logrus.FieldLogger) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc, log: log}
}

// PolicyRequest grants or revokes an action on a path pattern for a role
type PolicyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// subject accepts both "admin" and "role_admin"
func (r PolicyRequest) subject() string {
	if strings.HasPrefix(r.Role, "role_") {
		return r.Role
	}
	return "role_" + r.Role
}

// List returns every policy row
func (h *PolicyHandlers) List(c *gin.Context) {
	policies := h.policySvc.GetPolicies()
	results := make([]gin.H, 0, len(policies))
	for _, p := range policies {
		if len(p) < 3 {
			continue
		}
		results = append(results, gin.H{"role": p[0], "resource": p[1], "action": p[2]})
	}
	c.JSON(http.StatusOK, results)
}

// Add grants a policy
func (h *PolicyHandlers) Add(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policySvc.AddPolicy(req.subject(), req.Resource, req.Action); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.WithFields(logrus.Fields{"role": req.subject(), "resource": req.Resource, "action": req.Action}).Info("policy added")
	c.Status(http.StatusNoContent)
}

// Remove revokes a policy
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policySvc.RemovePolicy(req.subject(), req.Resource, req.Action); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.WithFields(logrus.Fields{"role": req.subject(), "resource": req.Resource, "action": req.Action}).Info("policy removed")
	c.Status(http.StatusNoContent)
}
