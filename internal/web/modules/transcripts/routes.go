package transcripts

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the transcript list and detail screens. The selected
// transcript is the :id route parameter
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	g.GET("/transcripts", ctrl.GetList)                // List transcripts
	g.GET("/transcripts/:id", ctrl.GetDetail)          // Show a transcript
	g.GET("/transcripts/:id/delete", ctrl.GetConfirm)  // Ask before deleting
	g.POST("/transcripts/:id/delete", ctrl.PostDelete) // Delete a transcript
}
