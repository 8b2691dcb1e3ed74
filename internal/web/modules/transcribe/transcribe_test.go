package transcribe

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/ethanbaker/transcript-assistant/internal/web/views"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEngine serves the upload screen against a test backend that counts requests
func newEngine(t *testing.T, backend http.HandlerFunc) (*gin.Engine, *int32) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		backend(w, r)
	}))
	t.Cleanup(srv.Close)

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = renderer
	RegisterRoutes(engine.Group("/"), NewController(sdk.NewClient(srv.URL, ""), views.Options{}))

	return engine, &calls
}

// uploadForm builds a multipart form. An empty filename leaves the file out
func uploadForm(t *testing.T, filename, name, date string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write([]byte("RIFF....WAVE"))
	}
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("date", date))
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func post(engine *gin.Engine, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestGetForm(t *testing.T) {
	engine, calls := newEngine(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transcribe", nil))
	require.Equal(t, http.StatusOK, w.Code)

	doc := parse(t, w)
	assert.Equal(t, "multipart/form-data", doc.Find("form.upload-form").AttrOr("enctype", ""))
	assert.Equal(t, 1, doc.Find("input[type=file][name=file]").Length())
	assert.Equal(t, "transcribe", doc.Find(".nav-link.active").AttrOr("data-nav", ""))
	assert.Equal(t, 0, doc.Find(".error-message").Length())
	assert.Equal(t, int32(0), *calls)
}

func TestPostFormValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		title    string
		date     string
		want     string
	}{
		{"nothing", "", "", "", "Please select a file"},
		{"no file", "", "Standup", "2024-05-01", "Please select a file"},
		{"no name", "a.wav", "", "2024-05-01", "Please enter a name for the transcript"},
		{"blank name", "a.wav", "   ", "2024-05-01", "Please enter a name for the transcript"},
		{"no date", "a.wav", "Standup", "", "Please enter a date"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine, calls := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request may be sent for an invalid form")
			})

			body, contentType := uploadForm(t, test.filename, test.title, test.date)
			w := post(engine, body, contentType)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, int32(0), *calls)

			doc := parse(t, w)
			assert.Equal(t, test.want, doc.Find(".error-message").Text())
			assert.Equal(t, test.date, doc.Find("input[name=date]").AttrOr("value", ""))
		})
	}
}

func TestPostFormSuccess(t *testing.T) {
	engine, calls := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Standup", r.FormValue("name"))
		assert.Equal(t, "2024-05-01", r.FormValue("date"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "standup.wav", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "Standup"})
	})

	body, contentType := uploadForm(t, "standup.wav", " Standup ", "2024-05-01")
	w := post(engine, body, contentType)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/transcripts/42", w.Header().Get("Location"))
	assert.Equal(t, int32(1), *calls)
}

func TestPostFormFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: FailedText,
		},
		{
			name: "backend detail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"detail": "Unsupported audio format"})
			},
			want: "Unsupported audio format",
		},
		{
			name: "no id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"name": "Standup"}`))
			},
			want: FailedText,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine, calls := newEngine(t, test.handler)

			body, contentType := uploadForm(t, "standup.wav", "Standup", "2024-05-01")
			w := post(engine, body, contentType)

			assert.Equal(t, http.StatusBadGateway, w.Code)
			assert.Equal(t, int32(1), *calls)

			// The form keeps what can be kept so the user can retry
			doc := parse(t, w)
			assert.Equal(t, test.want, doc.Find(".error-message").Text())
			assert.Equal(t, "Standup", doc.Find("input[name=name]").AttrOr("value", ""))
			assert.Equal(t, "2024-05-01", doc.Find("input[name=date]").AttrOr("value", ""))
			assert.Contains(t, doc.Find(".file-name").Text(), "standup.wav")
		})
	}
}

func TestPostFormReservedCharacterID(t *testing.T) {
	engine, _ := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "2024-05-01?x#y"})
	})

	body, contentType := uploadForm(t, "standup.wav", "Standup", "2024-05-01")
	w := post(engine, body, contentType)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/transcripts/2024-05-01%3Fx%23y", w.Header().Get("Location"))
}

func TestPostFormUnreadableUpload(t *testing.T) {
	engine, calls := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may be sent for an unreadable upload")
	})

	w := post(engine, strings.NewReader("not a multipart body"), "multipart/form-data; boundary=missing")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), *calls)
	assert.Equal(t, FailedText, parse(t, w).Find(".error-message").Text())
}
