package chat

import (
	"errors"
	"net/http"

	chat_state "github.com/ethanbaker/transcript-assistant/pkg/chat"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryRequest is the body of POST /api/chat
type QueryRequest struct {
	SessionID string `json:"session_id"` // Empty to start a new conversation
	Query     string `json:"query"`
}

// ConversationResponse is a conversation, or the part of it a query appended
type ConversationResponse struct {
	SessionID string               `json:"session_id"`
	State     chat_state.State     `json:"state"`
	Messages  []chat_state.Message `json:"messages"`
}

// PostQuery handles POST requests that submit a query to a conversation
func (ctrl *Controller) PostQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	conv := ctrl.store.GetOrCreate(req.SessionID)
	added, err := ctrl.submit(c.Request.Context(), conv, req.Query)
	switch {
	case errors.Is(err, chat_state.ErrEmptyQuery):
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Query must not be empty", err).AsGinResponse())
		return
	case errors.Is(err, chat_state.ErrBusy), errors.Is(err, chat_state.ErrDiscarded):
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "Query was not recorded", err).AsGinResponse())
		return
	case err != nil:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to submit query", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Query answered", ConversationResponse{
		SessionID: req.SessionID,
		State:     chat_state.StateIdle,
		Messages:  added,
	}).AsGinResponse())
}

// GetConversation handles GET requests for a whole conversation
func (ctrl *Controller) GetConversation(c *gin.Context) {
	conv, ok := ctrl.store.Get(c.Param("session"))
	if !ok {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Conversation not found", nil).AsGinResponse())
		return
	}

	view := conv.Snapshot()
	c.JSON(sdk.NewSuccessResponse("Conversation retrieved successfully", ConversationResponse{
		SessionID: view.ID,
		State:     view.State,
		Messages:  view.Messages,
	}).AsGinResponse())
}

// DeleteConversation handles DELETE requests that discard a conversation
func (ctrl *Controller) DeleteConversation(c *gin.Context) {
	ctrl.store.Reset(c.Param("session"))
	c.JSON(sdk.NewSuccess("Conversation deleted successfully").AsGinResponse())
}
