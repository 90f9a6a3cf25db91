package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// PolicyHandlers serves the Casbin policy admin surface.
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

type policyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// List handles GET /admin/policies
func (h *PolicyHandlers) List(c *gin.Context) {
	respond(c, http.StatusOK, "policies retrieved", h.policySvc.GetPolicies())
}

// Add handles POST /admin/policies
func (h *PolicyHandlers) Add(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.policySvc.AddPolicy(req.Role, req.Resource, req.Action); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "policy added", nil)
}

// Remove handles DELETE /admin/policies
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.policySvc.RemovePolicy(req.Role, req.Resource, req.Action); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "policy removed", nil)
}
