package sdk

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Validate runs the upload checks in order: file, name, date. The first failure is returned
func (r *TranscribeRequest) Validate() error {
	if r == nil || r.File == nil {
		return ErrMissingFile
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrMissingDate
	}
	return nil
}

// Transcribe uploads a recording and returns the id of the created transcript.
// Invalid requests fail before anything is sent
func (c *Client) Transcribe(ctx context.Context, r *TranscribeRequest) (*TranscribeResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	path := c.routes.Transcribe

	// Stream the multipart body so large recordings are never buffered in memory
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeTranscribeForm(mw, r))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out TranscribeResponse
	if err := c.do(req, path, &out); err != nil {
		return nil, err
	}

	if out.ID.IsZero() {
		return nil, fmt.Errorf("no id returned")
	}

	return &out, nil
}

// writeTranscribeForm writes the file, name and date fields and closes the form
func writeTranscribeForm(mw *multipart.Writer, r *TranscribeRequest) error {
	filename := filepath.Base(r.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = "upload"
	}

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r.File); err != nil {
		return fmt.Errorf("failed to stream file: %w", err)
	}

	if err := mw.WriteField("name", strings.TrimSpace(r.Name)); err != nil {
		return err
	}
	if err := mw.WriteField("date", strings.TrimSpace(r.Date)); err != nil {
		return err
	}

	return mw.Close()
}

// ListTranscripts returns every stored transcript
func (c *Client) ListTranscripts(ctx context.Context) ([]Transcript, error) {
	var out []Transcript
	if err := c.doJSON(ctx, http.MethodGet, c.routes.Transcripts, nil, &out); err != nil {
		return nil, err
	}

	if out == nil {
		out = []Transcript{}
	}
	return out, nil
}

// GetTranscript returns a single transcript by id
func (c *Client) GetTranscript(ctx context.Context, id string) (*Transcript, error) {
	if id == "" {
		return nil, fmt.Errorf("transcript id is required")
	}

	var out Transcript
	if err := c.doJSON(ctx, http.MethodGet, c.routes.transcript(id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteTranscript removes a transcript by id. The response body is ignored
func (c *Client) DeleteTranscript(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("transcript id is required")
	}

	return c.doJSON(ctx, http.MethodDelete, c.routes.transcript(id), nil, nil)
}
