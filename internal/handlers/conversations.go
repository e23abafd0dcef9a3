package handlers

import (
	"github.com/gin-gonic/gin"

	"rently-server/internal/chat"
	"rently-server/internal/middleware"
	"rently-server/internal/utils"
)

// ConversationHandler exposes the REST surface of the chat core. It is the
// durable fallback/read path for clients not currently connected to the
// realtime gateway; all writes go through the conversation service.
type ConversationHandler struct {
	Service *chat.Service
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(service *chat.Service) *ConversationHandler {
	return &ConversationHandler{Service: service}
}

// ListConversations returns the caller's inbox, most recently active first.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	previews, err := h.Service.ListConversations(c.Request.Context(), callerID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "Conversations fetched successfully", previews)
}

// GetConversation returns the full history for a participant. Fetching marks
// the counterpart's unread messages as read.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	detail, err := h.Service.GetConversation(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "Conversation fetched successfully", detail)
}

// StartConversationRequest represents the request body for starting a
// conversation about a listing.
type StartConversationRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Message   string `json:"message"`
}

// StartConversation finds or creates the conversation between the caller and
// the listing's landlord, optionally appending a first message.
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req StartConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	conv, err := h.Service.StartConversation(c.Request.Context(), callerID, req.ListingID, req.Message)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Created(c, "Conversation ready", gin.H{"conversationId": conv.ID})
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	IsPreFilled bool   `json:"isPreFilled"`
}

// SendMessage appends a message to the conversation. Connected counterparts
// also receive it through the realtime gateway.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	msg, err := h.Service.SendMessage(c.Request.Context(), c.Param("id"), callerID, req.Content, req.IsPreFilled)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Created(c, "Message sent successfully", msg)
}

// RevealPhone sets the caller's own reveal flag, exposing their phone number
// to the conversation's other party.
func (h *ConversationHandler) RevealPhone(c *gin.Context) {
	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	state, err := h.Service.RevealPhone(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "Phone number revealed", state)
}
