package transcribe

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ethanbaker/transcript-assistant/internal/web/views"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// FailedText is shown when an upload fails without a message from the backend
const FailedText = "Transcription failed"

// Transcriber uploads recordings to the backend
type Transcriber interface {
	Transcribe(ctx context.Context, r *sdk.TranscribeRequest) (*sdk.TranscribeResponse, error)
}

// Controller serves the upload screen
type Controller struct {
	backend Transcriber
	options views.Options
}

// NewController creates an upload controller
func NewController(backend Transcriber, options views.Options) *Controller {
	return &Controller{backend: backend, options: options}
}

// FormData is the state of the upload form. A browser cannot prefill a file
// input, so only the name of a previously chosen file is kept
type FormData struct {
	Name     string
	Date     string
	Filename string
	Error    string
}

// GetForm renders an empty upload form
func (ctrl *Controller) GetForm(c *gin.Context) {
	ctrl.render(c, http.StatusOK, FormData{})
}

// PostForm validates the form, uploads the file and shows the new transcript
func (ctrl *Controller) PostForm(c *gin.Context) {
	form := FormData{
		Name: strings.TrimSpace(c.PostForm("name")),
		Date: strings.TrimSpace(c.PostForm("date")),
	}

	req := &sdk.TranscribeRequest{Name: form.Name, Date: form.Date}

	// A missing file part is a validation error, not a failure
	header, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		log.Printf("[TRANSCRIBE]: Could not read upload: %s", err)
		form.Error = FailedText
		ctrl.render(c, http.StatusBadRequest, form)
		return
	}

	var file multipart.File
	if header != nil {
		file, err = header.Open()
		if err != nil {
			log.Printf("[TRANSCRIBE]: Could not open upload: %s", err)
			form.Error = FailedText
			ctrl.render(c, http.StatusInternalServerError, form)
			return
		}
		defer file.Close()

		form.Filename = header.Filename
		req.Filename = header.Filename
		req.File = file
	}

	// Validation happens before any request is sent
	if err := req.Validate(); err != nil {
		form.Error = sdk.UserMessage(err, FailedText)
		ctrl.render(c, http.StatusUnprocessableEntity, form)
		return
	}

	res, err := ctrl.backend.Transcribe(c.Request.Context(), req)
	if err != nil {
		log.Printf("[TRANSCRIBE]: Upload of '%s' failed: %s", req.Filename, err)
		form.Error = sdk.UserMessage(err, FailedText)
		ctrl.render(c, http.StatusBadGateway, form)
		return
	}

	log.Printf("[TRANSCRIBE]: Created transcript %s from '%s'", res.ID, req.Filename)
	c.Redirect(http.StatusSeeOther, views.TranscriptPath(res.ID.String()))
}

// render shows the form page
func (ctrl *Controller) render(c *gin.Context, status int, form FormData) {
	c.HTML(status, views.PageTranscribe, views.Page{
		Title:   "Transcribe",
		Active:  "transcribe",
		Options: ctrl.options,
		Data:    form,
	})
}
