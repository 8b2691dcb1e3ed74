package sdk

import (
	"context"
	"net/http"
)

// Search runs a semantic search and returns the ranked excerpts
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, c.routes.Search, &SearchRequest{Query: query}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Ask requests a single generated answer for a question
func (c *Client) Ask(ctx context.Context, question string) (*AskResponse, error) {
	var out AskResponse
	if err := c.doJSON(ctx, http.MethodPost, c.routes.Ask, &AskRequest{Question: question}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
