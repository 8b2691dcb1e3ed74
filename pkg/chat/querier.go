package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
)

// Reply is what a backend returned for one query
type Reply struct {
	Results []sdk.SearchResult
	Text    string
	Sources []sdk.AskSource
	Error   string // Error field of a successful but empty response
}

// Querier sends one query to a question-answering backend
type Querier interface {
	Query(ctx context.Context, text string) (Reply, error)
}

// Searcher is the part of the backend client used in search mode
type Searcher interface {
	Search(ctx context.Context, query string) (*sdk.SearchResponse, error)
}

// Asker is the part of the backend client used in ask mode
type Asker interface {
	Ask(ctx context.Context, question string) (*sdk.AskResponse, error)
}

// Backend is a client that supports both chat modes
type Backend interface {
	Searcher
	Asker
}

// Mode selects which backend endpoint a conversation talks to
type Mode string

const (
	ModeSearch Mode = "search" // Ranked results
	ModeAsk    Mode = "ask"    // Single generated answer
)

// ParseMode parses a configured chat mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSearch:
		return ModeSearch, nil
	case ModeAsk:
		return ModeAsk, nil
	}
	return "", fmt.Errorf("unknown chat mode '%s'", s)
}

// NewQuerier returns the querier for a mode
func NewQuerier(mode Mode, backend Backend) (Querier, error) {
	switch mode {
	case ModeSearch:
		return SearchQuerier{Searcher: backend}, nil
	case ModeAsk:
		return AskQuerier{Asker: backend}, nil
	}
	return nil, fmt.Errorf("unknown chat mode '%s'", mode)
}

// SearchQuerier answers queries with ranked search results
type SearchQuerier struct {
	Searcher Searcher
}

func (q SearchQuerier) Query(ctx context.Context, text string) (Reply, error) {
	resp, err := q.Searcher.Search(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Results: resp.Results, Error: resp.Error}, nil
}

// AskQuerier answers queries with a single generated answer
type AskQuerier struct {
	Asker Asker
}

func (q AskQuerier) Query(ctx context.Context, text string) (Reply, error) {
	resp, err := q.Asker.Ask(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: strings.TrimSpace(resp.Answer), Sources: resp.Sources, Error: resp.Error}, nil
}

// QuerierFunc adapts a function to the Querier interface
type QuerierFunc func(ctx context.Context, text string) (Reply, error)

func (f QuerierFunc) Query(ctx context.Context, text string) (Reply, error) {
	return f(ctx, text)
}
