package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	// Errors do not marshal to anything useful, so keep their text
	if e, ok := err.(error); ok {
		err = e.Error()
	}

	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Transcripts */

// TranscriptID is the opaque identifier of a transcript. The backend may send it
// as a JSON number or a JSON string; it is written back in the same kind
type TranscriptID struct {
	value   string
	numeric bool
}

// UnmarshalJSON accepts numbers, strings and null
func (id *TranscriptID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = TranscriptID{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = TranscriptID{value: s}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("invalid transcript id %s", string(data))
	}

	*id = TranscriptID{value: n.String(), numeric: true}
	return nil
}

// MarshalJSON writes the id in the kind it was decoded from
func (id TranscriptID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// IsZero reports whether no id was given
func (id TranscriptID) IsZero() bool {
	return id.value == ""
}

func (id TranscriptID) String() string {
	return id.value
}

// Transcript is one stored, transcribed recording
type Transcript struct {
	ID       TranscriptID `json:"id"`
	Name     string       `json:"name,omitempty"`
	Date     string       `json:"date,omitempty"`
	Filename string       `json:"filename,omitempty"`
	Text     string       `json:"text,omitempty"`
	Duration *float64     `json:"duration,omitempty"` // Seconds
}

// DisplayName returns the name or a placeholder for unnamed transcripts
func (t Transcript) DisplayName() string {
	if t.Name == "" {
		return "Untitled Transcript"
	}
	return t.Name
}

// DisplayDate returns the date in a readable form
func (t Transcript) DisplayDate() string {
	return FormatDate(t.Date)
}

// DurationMinutes returns the duration rounded to whole minutes, or 0 when unknown
func (t Transcript) DurationMinutes() int {
	if t.Duration == nil {
		return 0
	}
	return int(math.Round(*t.Duration / 60))
}

// HasDuration reports whether the backend sent a duration
func (t Transcript) HasDuration() bool {
	return t.Duration != nil && *t.Duration > 0
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// FormatDate renders a backend date as "Jan 2, 2006". Unparseable dates are returned unchanged
func FormatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

// TranscribeRequest describes an upload. File is streamed to the backend as-is
type TranscribeRequest struct {
	Filename string
	File     io.Reader
	Name     string
	Date     string
}

// TranscribeResponse is returned once the backend created (or found) a transcript
type TranscribeResponse struct {
	ID              TranscriptID `json:"id"`
	Name            string       `json:"name,omitempty"`
	Date            string       `json:"date,omitempty"`
	Text            string       `json:"text,omitempty"`
	Detail          string       `json:"detail,omitempty"`           // Set when a transcript already existed for the date
	EmbeddingStatus string       `json:"embedding_status,omitempty"` // Search indexing outcome
	ChunksProcessed int          `json:"chunks_processed,omitempty"`
}

/** Search and ask */

// SearchRequest is the body of a search call
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult is one ranked transcript excerpt
type SearchResult struct {
	Name         string       `json:"name,omitempty"`
	Score        *float64     `json:"score,omitempty"` // Relevance in [0,1]
	Date         string       `json:"date,omitempty"`
	ChunkText    string       `json:"chunk_text,omitempty"`
	Filename     string       `json:"filename,omitempty"`
	TranscriptID TranscriptID `json:"transcript_id,omitzero"`
	ChunkIndex   *int         `json:"chunk_index,omitempty"`
}

// Label returns the result name, or a positional label for unnamed results
func (r SearchResult) Label(index int) string {
	if r.Name == "" {
		return fmt.Sprintf("Result %d", index+1)
	}
	return r.Name
}

// Percent renders the score as a whole percentage, or "" when there is no score
func (r SearchResult) Percent() string {
	if r.Score == nil {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(*r.Score*100)))
}

// SearchResponse carries ranked results, or an error field on an empty answer
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Error   string         `json:"error,omitempty"`
}

// AskRequest is the body of an ask call
type AskRequest struct {
	Question string `json:"question"`
}

// AskSource references a transcript an answer was drawn from
type AskSource struct {
	ID    TranscriptID `json:"id"`
	Name  string       `json:"name,omitempty"`
	Date  string       `json:"date,omitempty"`
	Score *float64     `json:"score,omitempty"`
}

// AskResponse carries a single generated answer
type AskResponse struct {
	Answer  string      `json:"answer"`
	Sources []AskSource `json:"sources,omitempty"`
	Error   string      `json:"error,omitempty"`
}
