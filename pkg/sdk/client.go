package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call. Transcription of long recordings is slow
const DefaultTimeout = 120 * time.Second

// Routes holds the endpoint paths of the transcript backend, relative to the base URL
type Routes struct {
	Search      string `json:"search" yaml:"search"`           // Ranked semantic search over transcript chunks
	Ask         string `json:"ask" yaml:"ask"`                 // Retrieval-augmented single answer
	Transcribe  string `json:"transcribe" yaml:"transcribe"`   // Multipart upload and transcription
	Transcripts string `json:"transcripts" yaml:"transcripts"` // Transcript collection (list)
	Transcript  string `json:"transcript" yaml:"transcript"`   // Single transcript (get/delete), "{id}" marks the id
	Health      string `json:"health" yaml:"health"`           // Liveness check
}

// DefaultRoutes returns the paths served by the reference transcript backend
func DefaultRoutes() Routes {
	return Routes{
		Search:      "/search/",
		Ask:         "/ask/",
		Transcribe:  "/transcribe/",
		Transcripts: "/transcripts/",
		Transcript:  "/transcripts/{id}",
		Health:      "/health",
	}
}

// WithDefaults fills every empty path with its default. An unset single
// transcript path lives under the collection path
func (r Routes) WithDefaults() Routes {
	def := DefaultRoutes()
	if r.Search == "" {
		r.Search = def.Search
	}
	if r.Ask == "" {
		r.Ask = def.Ask
	}
	if r.Transcribe == "" {
		r.Transcribe = def.Transcribe
	}
	if r.Transcripts == "" {
		r.Transcripts = def.Transcripts
	}
	if r.Transcript == "" {
		r.Transcript = strings.TrimSuffix(r.Transcripts, "/") + "/{id}"
	}
	if r.Health == "" {
		r.Health = def.Health
	}
	return r
}

// transcript returns the path of a single transcript. Without an "{id}"
// placeholder the id is appended as the last segment
func (r Routes) transcript(id string) string {
	escaped := url.PathEscape(id)
	if strings.Contains(r.Transcript, "{id}") {
		return strings.ReplaceAll(r.Transcript, "{id}", escaped)
	}
	return strings.TrimSuffix(r.Transcript, "/") + "/" + escaped
}

// Client wraps calls to the transcript backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	routes     Routes
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRoutes overrides endpoint paths. Empty paths keep their defaults
func WithRoutes(r Routes) Option {
	return func(c *Client) {
		c.routes = r.WithDefaults()
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		routes:     DefaultRoutes(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend origin the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Routes returns the endpoint paths in use
func (c *Client) Routes() Routes {
	return c.routes
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, path, out)
}

// do sends a prepared request and decodes a successful response into out
func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[BACKEND]: backend '%s %s' unreachable: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(req.Method, path, resp)
	}

	// If no output expected, drain and return early
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	// Decode the response body into the output struct
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("[BACKEND]: could not decode '%s %s' response: %w", req.Method, path, err)
	}
	return nil
}
