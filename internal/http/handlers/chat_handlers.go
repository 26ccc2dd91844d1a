package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/services"
)

// ChatHandlers handles conversation HTTP requests
type ChatHandlers struct {
	chat    *services.ChatService
	mentors *services.MentorService
}

// NewChatHandlers creates new chat handlers
func NewChatHandlers(chat *services.ChatService, mentors *services.MentorService) *ChatHandlers {
	return &ChatHandlers{chat: chat, mentors: mentors}
}

// MessageRequest represents an outgoing user message
type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetConversation returns the caller's conversation with a mentor, creating
// an empty one on first contact
func (h *ChatHandlers) GetConversation(c *gin.Context) {
	userID := c.GetString("user_id")
	mentorID := c.Param("id")

	if !h.callerMaySpeak(c, userID, mentorID) {
		return
	}

	conv, err := h.chat.LoadOrCreate(c.Request.Context(), userID, mentorID)
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conv})
}

// SendMessage appends the caller's message and returns it together with the
// generated mentor reply
func (h *ChatHandlers) SendMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	mentorID := c.Param("id")

	if !h.callerMaySpeak(c, userID, mentorID) {
		return
	}

	messages, err := h.chat.SendMessage(c.Request.Context(), userID, mentorID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMentorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
		case errors.Is(err, domain.ErrCompletionFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Mentor is unavailable right now"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"messages": messages}})
}

// ListConversations returns the caller's conversations, most recent first
func (h *ChatHandlers) ListConversations(c *gin.Context) {
	convs, err := h.chat.ListConversations(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations", "data": convs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": convs})
}

// callerMaySpeak requires an active subscription to the mentor unless the
// caller authored it. Writes the error response itself when the check fails.
func (h *ChatHandlers) callerMaySpeak(c *gin.Context, userID, mentorID string) bool {
	mentor, err := h.mentors.Get(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, domain.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mentor"})
		return false
	}
	if mentor.CreatorID == userID {
		return true
	}

	subscribed, err := h.mentors.IsSubscribed(c.Request.Context(), userID, mentorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
		return false
	}
	if !subscribed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Subscription required"})
		return false
	}
	return true
}
