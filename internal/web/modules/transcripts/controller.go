package transcripts

import (
	"context"
	"log"
	"net/http"

	"github.com/ethanbaker/transcript-assistant/internal/web/views"
	"github.com/ethanbaker/transcript-assistant/pkg/resource"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Messages shown when the backend gives no reason
const (
	ListFailedText   = "Failed to fetch transcripts"
	FetchFailedText  = "Failed to fetch transcript"
	DeleteFailedText = "Failed to delete transcript"
	NotFoundText     = "Transcript not found"
	NoSelectionText  = "No transcript selected"
)

// Backend is the part of the backend client the transcript screens use
type Backend interface {
	ListTranscripts(ctx context.Context) ([]sdk.Transcript, error)
	GetTranscript(ctx context.Context, id string) (*sdk.Transcript, error)
	DeleteTranscript(ctx context.Context, id string) error
}

// Controller serves the transcript list and detail screens
type Controller struct {
	backend    Backend
	options    views.Options
	transcript resource.Keyed[*sdk.Transcript]
}

// NewController creates a transcripts controller
func NewController(backend Backend, options views.Options) *Controller {
	return &Controller{
		backend: backend,
		options: options,
		transcript: resource.Keyed[*sdk.Transcript]{
			Fetch:    backend.GetTranscript,
			Fallback: FetchFailedText,
			Missing:  NoSelectionText,
		},
	}
}

// ListData is the data of the list page
type ListData struct {
	Transcripts resource.Resource[[]sdk.Transcript]
}

// DetailData is the data of the detail page
type DetailData struct {
	Transcript resource.Resource[*sdk.Transcript]
	Error      string // Failure of an action on a loaded transcript
}

// ConfirmData is the data of the delete confirmation page
type ConfirmData struct {
	Transcript *sdk.Transcript
}

// GetList renders all transcripts, fetched once per page load
func (ctrl *Controller) GetList(c *gin.Context) {
	list := resource.Load[[]sdk.Transcript](c.Request.Context(), ctrl.backend.ListTranscripts, ListFailedText)
	list = resource.Logged(list, "TRANSCRIPTS", "transcript list")
	if list.IsCancelled() {
		c.Abort()
		return
	}

	status := http.StatusOK
	if list.IsFailed() {
		status = http.StatusBadGateway
	}

	c.HTML(status, views.PageList, ctrl.page("Transcripts", ListData{Transcripts: list}))
}

// GetDetail renders one transcript
func (ctrl *Controller) GetDetail(c *gin.Context) {
	t, ok := ctrl.load(c)
	if !ok {
		return
	}

	ctrl.renderDetail(c, t, "")
}

// GetConfirm asks before deleting a transcript
func (ctrl *Controller) GetConfirm(c *gin.Context) {
	t, ok := ctrl.load(c)
	if !ok {
		return
	}

	if !t.IsLoaded() {
		ctrl.renderDetail(c, t, "")
		return
	}

	c.HTML(http.StatusOK, views.PageConfirm, ctrl.page("Delete transcript", ConfirmData{Transcript: t.Value}))
}

// PostDelete deletes a transcript once confirmed and returns to the list.
// Anything but an explicit confirmation goes back to the transcript untouched
func (ctrl *Controller) PostDelete(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, views.TranscriptPath(id))
		return
	}

	if err := ctrl.backend.DeleteTranscript(c.Request.Context(), id); err != nil {
		log.Printf("[TRANSCRIPTS]: Failed to delete transcript %s: %s", id, err)

		// Show the failure next to the transcript, which is still there
		t, ok := ctrl.load(c)
		if !ok {
			return
		}
		ctrl.renderDetail(c, t, sdk.UserMessage(err, DeleteFailedText))
		return
	}

	log.Printf("[TRANSCRIPTS]: Deleted transcript %s", id)
	c.Redirect(http.StatusSeeOther, "/transcripts")
}

// load fetches the transcript named by the route. ok is false when the client
// went away and nothing should be rendered
func (ctrl *Controller) load(c *gin.Context) (resource.Resource[*sdk.Transcript], bool) {
	t := ctrl.transcript.Load(c.Request.Context(), c.Param("id"))
	if t.IsFailed() && sdk.IsNotFound(t.Err) {
		t.Message = NotFoundText
	}

	t = resource.Logged(t, "TRANSCRIPTS", "transcript "+c.Param("id"))
	if t.IsCancelled() {
		c.Abort()
		return t, false
	}
	return t, true
}

// renderDetail shows the detail page with an optional action error
func (ctrl *Controller) renderDetail(c *gin.Context, t resource.Resource[*sdk.Transcript], actionErr string) {
	status := http.StatusOK
	switch {
	case t.IsFailed() && sdk.IsNotFound(t.Err):
		status = http.StatusNotFound
	case t.IsFailed():
		status = http.StatusBadGateway
	case actionErr != "":
		status = http.StatusBadGateway
	}

	title := "Transcript"
	if t.IsLoaded() {
		title = t.Value.DisplayName()
	}

	c.HTML(status, views.PageDetail, ctrl.page(title, DetailData{Transcript: t, Error: actionErr}))
}

// page wraps page data in the layout
func (ctrl *Controller) page(title string, data any) views.Page {
	return views.Page{
		Title:   title,
		Active:  "transcripts",
		Options: ctrl.options,
		Data:    data,
	}
}
