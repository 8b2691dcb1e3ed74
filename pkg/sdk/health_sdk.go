package sdk

import (
	"context"
	"net/http"
)

// Ping checks that the backend answers its health route. The body is ignored
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, c.routes.Health, nil, nil)
}
