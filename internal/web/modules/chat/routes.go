package chat

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the chat screen
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	g.GET("/", ctrl.GetChat)              // Render the conversation
	g.POST("/chat", ctrl.PostChat)        // Submit a query
	g.POST("/chat/reset", ctrl.PostReset) // Start a new conversation
}

// RegisterAPIRoutes registers the JSON chat API. When apiKey is set, requests
// must carry it in the X-API-KEY header
func RegisterAPIRoutes(g *gin.RouterGroup, ctrl *Controller, apiKey string) {
	group := g.Group("/chat")
	if apiKey != "" {
		group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(func(key string) bool {
			return key == apiKey
		}))
	}

	group.POST("", ctrl.PostQuery)                     // Submit a query, creating a conversation if needed
	group.GET("/:session", ctrl.GetConversation)       // Get a conversation
	group.DELETE("/:session", ctrl.DeleteConversation) // Discard a conversation
}
