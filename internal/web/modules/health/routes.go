package health

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, backend Pinger, sessions Counter) {
	g.GET("/health", getStatus)
	g.GET("/health/backend", getBackendStatus(backend, sessions))
}
