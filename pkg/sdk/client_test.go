package sdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend starts a test backend and counts the requests it receives
func newBackend(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", "secret"), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		c := NewClient("http://backend:8000/", "")
		assert.Equal(t, "http://backend:8000", c.BaseURL())
		assert.Equal(t, DefaultRoutes(), c.Routes())
	})

	t.Run("options", func(t *testing.T) {
		c := NewClient("http://backend", "", WithTimeout(5*time.Second), WithRoutes(Routes{Ask: "/ask"}))
		assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
		assert.Equal(t, "/ask", c.Routes().Ask)
		assert.Equal(t, "/search/", c.Routes().Search)
	})
}

func TestTranscriptRoutes(t *testing.T) {
	tests := []struct {
		name   string
		routes Routes
		list   string
		single string
	}{
		{"defaults", Routes{}, "/transcripts/", "/transcripts/42"},
		{"collection only", Routes{Transcripts: "/items"}, "/items", "/items/42"},
		{"placeholder", Routes{Transcript: "/transcript/{id}"}, "/transcripts/", "/transcript/42"},
		{"prefix", Routes{Transcript: "/transcript/"}, "/transcripts/", "/transcript/42"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var paths []string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.Method+" "+r.URL.Path)
				if r.Method == http.MethodGet && r.URL.Path == test.list {
					writeJSON(w, http.StatusOK, []any{})
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"id": 42})
			}))
			t.Cleanup(srv.Close)

			client := NewClient(srv.URL, "", WithRoutes(test.routes))
			_, err := client.ListTranscripts(context.Background())
			require.NoError(t, err)
			_, err = client.GetTranscript(context.Background(), "42")
			require.NoError(t, err)
			require.NoError(t, client.DeleteTranscript(context.Background(), "42"))

			assert.Equal(t, []string{
				"GET " + test.list,
				"GET " + test.single,
				"DELETE " + test.single,
			}, paths)
		})
	}
}

func TestPing(t *testing.T) {
	client, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	})
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, int32(1), *calls)

	down, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, down.Ping(context.Background()))
}

func TestSearch(t *testing.T) {
	client, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Query)

		writeJSON(w, http.StatusOK, map[string]any{
			"results": []map[string]any{
				{"name": "A", "score": 0.9, "date": "2024-05-01", "chunk_text": "first", "filename": "a.mp3", "transcript_id": 7},
				{"name": "B", "score": 0.4},
			},
		})
	})

	resp, err := client.Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	assert.Equal(t, "A", resp.Results[0].Name)
	assert.Equal(t, "90%", resp.Results[0].Percent())
	assert.Equal(t, "40%", resp.Results[1].Percent())
	assert.Equal(t, "7", resp.Results[0].TranscriptID.String())
	assert.Equal(t, "first", resp.Results[0].ChunkText)
}

func TestAsk(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask/", r.URL.Path)

		var req AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what happened?", req.Question)

		writeJSON(w, http.StatusOK, map[string]any{
			"answer":  "Nothing much.",
			"sources": []map[string]any{{"id": 3, "name": "Standup", "date": "2024-01-02", "score": 0.5}},
		})
	})

	resp, err := client.Ask(context.Background(), "what happened?")
	require.NoError(t, err)
	assert.Equal(t, "Nothing much.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "3", resp.Sources[0].ID.String())
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"none"}`, "none"},
		{"fastapi detail", http.StatusNotFound, `{"detail":"Transcript not found"}`, "Transcript not found"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"]}]}`, ""},
		{"plain text", http.StatusInternalServerError, `boom`, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				io.WriteString(w, test.body)
			})

			_, err := client.GetTranscript(context.Background(), "1")
			require.Error(t, err)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, test.status, reqErr.StatusCode)
			assert.Equal(t, test.message, reqErr.Message)
			assert.Equal(t, "/transcripts/1", reqErr.Path)
			assert.Equal(t, test.status == http.StatusNotFound, IsNotFound(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL, "")
	srv.Close()

	_, err := client.ListTranscripts(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	assert.Contains(t, err.Error(), "unreachable")
	assert.NotErrorAs(t, err, &reqErr)
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil, "fallback"))
	assert.Equal(t, "Please select a file", UserMessage(ErrMissingFile, "fallback"))
	assert.Equal(t, "nope", UserMessage(&RequestError{StatusCode: 500, Message: "nope"}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(&RequestError{StatusCode: 500}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(context.Canceled, "fallback"))
}
