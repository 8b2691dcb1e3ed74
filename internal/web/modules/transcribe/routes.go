package transcribe

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the upload screen
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	g.GET("/transcribe", ctrl.GetForm)   // Render the upload form
	g.POST("/transcribe", ctrl.PostForm) // Upload a recording
}
