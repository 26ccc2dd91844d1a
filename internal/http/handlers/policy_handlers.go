package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// PolicyHandlers exposes the authorization policy store to admins
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

type policyReq struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// List returns every stored policy rule
func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.policySvc.GetPolicies()})
}

// Add inserts a policy rule
func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policySvc.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not added"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove deletes a policy rule
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policySvc.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not removed"})
		return
	}
	c.Status(http.StatusNoContent)
}
