package chat

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ethanbaker/transcript-assistant/internal/web/views"
	chat_state "github.com/ethanbaker/transcript-assistant/pkg/chat"
	"github.com/gin-gonic/gin"
)

// Controller serves the chat screen and the JSON chat API
type Controller struct {
	store   *chat_state.Store
	querier chat_state.Querier
	options views.Options
}

// NewController creates a chat controller answering queries with the given querier
func NewController(store *chat_state.Store, querier chat_state.Querier, options views.Options) *Controller {
	return &Controller{
		store:   store,
		querier: querier,
		options: options,
	}
}

// PageData is the data of the chat page
type PageData struct {
	View chat_state.View
}

// GetChat renders the conversation of the requesting browser
func (ctrl *Controller) GetChat(c *gin.Context) {
	id := sessionID(c)

	page := views.Page{
		Title:   "Chat",
		Active:  "chat",
		Options: ctrl.options,
		Data:    PageData{View: chat_state.View{ID: id, State: chat_state.StateIdle}},
	}

	if conv, ok := ctrl.store.Get(id); ok {
		page.Data = PageData{View: conv.Snapshot()}
		page.Banner = conv.TakeBanner()
	}

	c.HTML(http.StatusOK, views.PageChat, page)
}

// PostChat submits the query form and redirects back to the newest message
func (ctrl *Controller) PostChat(c *gin.Context) {
	id := sessionID(c)
	conv := ctrl.store.GetOrCreate(id)

	if _, err := ctrl.submit(c.Request.Context(), conv, c.PostForm("query")); err != nil && !errors.Is(err, chat_state.ErrEmptyQuery) {
		log.Printf("[CHAT]: Query from session %s not recorded: %s", id, err)
	}

	c.Redirect(http.StatusSeeOther, "/#latest")
}

// PostReset discards the conversation and starts a new one
func (ctrl *Controller) PostReset(c *gin.Context) {
	ctrl.store.Reset(sessionID(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// submit runs one query. The backend call is detached from the request so a
// browser that disconnects still finds the reply on its next load
func (ctrl *Controller) submit(ctx context.Context, conv *chat_state.Conversation, query string) ([]chat_state.Message, error) {
	added, err := conv.Submit(context.WithoutCancel(ctx), ctrl.querier, query)
	if err != nil {
		return nil, err
	}

	if reply := added[len(added)-1]; reply.IsError {
		log.Printf("[CHAT]: Backend did not answer: %s", reply.Text)
	}
	return added, nil
}
