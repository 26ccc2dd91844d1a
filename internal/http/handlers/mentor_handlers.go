package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/services"
)

// MentorHandlers handles mentor catalog and subscription HTTP requests
type MentorHandlers struct {
	mentors *services.MentorService
}

// NewMentorHandlers creates new mentor handlers
func NewMentorHandlers(mentors *services.MentorService) *MentorHandlers {
	return &MentorHandlers{mentors: mentors}
}

// MentorRequest represents a mentor create or update request
type MentorRequest struct {
	Name        string   `json:"name" binding:"required"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AvatarURL   string   `json:"avatar_url"`
	Price       int      `json:"price"`
	Expertise   []string `json:"expertise"`
	Status      string   `json:"status"`
}

// List returns the public catalog of active mentors
func (h *MentorHandlers) List(c *gin.Context) {
	mentors, err := h.mentors.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mentors", "data": mentors})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mentors})
}

// Get returns a single mentor by id
func (h *MentorHandlers) Get(c *gin.Context) {
	mentor, err := h.mentors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mentor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mentor})
}

// ListMine returns the caller's own mentors in every lifecycle state
func (h *MentorHandlers) ListMine(c *gin.Context) {
	userID := c.GetString("user_id")
	mentors, err := h.mentors.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mentors", "data": mentors})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mentors})
}

// Create inserts a new mentor owned by the caller
func (h *MentorHandlers) Create(c *gin.Context) {
	var req MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mentor := &domain.Mentor{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		Price:       req.Price,
		Expertise:   req.Expertise,
		Status:      domain.MentorStatus(req.Status),
	}
	created, err := h.mentors.Create(c.Request.Context(), c.GetString("user_id"), mentor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create mentor"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// Update patches a mentor the caller owns
func (h *MentorHandlers) Update(c *gin.Context) {
	var req MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mentorID := c.Param("id")
	if !h.callerOwns(c, mentorID) {
		return
	}

	patch := domain.MentorPatch{Expertise: req.Expertise}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Title != "" {
		patch.Title = &req.Title
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if req.AvatarURL != "" {
		patch.AvatarURL = &req.AvatarURL
	}
	if req.Price != 0 {
		patch.Price = &req.Price
	}
	if req.Status != "" {
		status := domain.MentorStatus(req.Status)
		patch.Status = &status
	}

	updated, err := h.mentors.Update(c.Request.Context(), mentorID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update mentor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// Delete removes a mentor the caller owns
func (h *MentorHandlers) Delete(c *gin.Context) {
	mentorID := c.Param("id")
	if !h.callerOwns(c, mentorID) {
		return
	}

	if err := h.mentors.Delete(c.Request.Context(), mentorID); err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete mentor"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe grants the caller access to a mentor
func (h *MentorHandlers) Subscribe(c *gin.Context) {
	sub, err := h.mentors.Subscribe(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": sub})
}

// ListSubscriptions returns the caller's subscriptions
func (h *MentorHandlers) ListSubscriptions(c *gin.Context) {
	subs, err := h.mentors.ListSubscriptions(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions", "data": subs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subs})
}

// callerOwns verifies the mentor belongs to the caller, admins excepted.
// Writes the error response itself when the check fails.
func (h *MentorHandlers) callerOwns(c *gin.Context, mentorID string) bool {
	mentor, err := h.mentors.Get(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mentor"})
		return false
	}
	if mentor.CreatorID != c.GetString("user_id") && c.GetString("user_role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Mentor does not belong to caller"})
		return false
	}
	return true
}
