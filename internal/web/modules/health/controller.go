package health

import (
	"context"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Pinger checks that the transcript backend answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter reports the number of live chat conversations
type Counter interface {
	Len() int
}

// BackendStatus is the body of GET /api/health/backend
type BackendStatus struct {
	Reachable     bool   `json:"reachable"`
	Error         string `json:"error,omitempty"`
	Conversations int    `json:"conversations"`
}

// Return status of the API
func getStatus(c *gin.Context) {
	res := api_types.NewSuccessResponse("OK", nil)
	c.JSON(res.AsGinResponse())
}

// getBackendStatus reports whether the transcript backend can be reached
func getBackendStatus(backend Pinger, sessions Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := BackendStatus{Reachable: true, Conversations: sessions.Len()}
		if err := backend.Ping(ctx); err != nil {
			status.Reachable = false
			status.Error = err.Error()

			c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Backend unreachable", status).AsGinResponse())
			return
		}

		c.JSON(sdk.NewSuccessResponse("Backend reachable", status).AsGinResponse())
	}
}
