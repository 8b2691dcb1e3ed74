package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
)

var (
	// ErrEmptyQuery is returned for blank submissions. Nothing is sent or recorded
	ErrEmptyQuery = errors.New("query is empty")

	// ErrBusy is returned while a previous submission is still in flight
	ErrBusy = errors.New("a query is already being sent")

	// ErrDiscarded is returned when the conversation was reset before the reply arrived
	ErrDiscarded = errors.New("conversation was reset while the query was in flight")
)

const (
	NoAnswerText    = "Error: No answer received."
	UnreachableText = "Could not reach the transcript backend."
)

// State is the submission state of a conversation
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

// Conversation is an append-only, chronological list of messages for one browser
type Conversation struct {
	mu sync.Mutex

	id         string
	messages   []Message
	state      State
	banner     string
	generation int
	lastActive time.Time

	now func() time.Time
}

// NewConversation creates an empty, idle conversation
func NewConversation(id string) *Conversation {
	return newConversation(id, time.Now)
}

func newConversation(id string, now func() time.Time) *Conversation {
	return &Conversation{
		id:         id,
		state:      StateIdle,
		lastActive: now(),
		now:        now,
	}
}

// View is an immutable copy of a conversation for rendering
type View struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	State    State     `json:"state"`
}

// Sending reports whether a query is in flight
func (v View) Sending() bool {
	return v.State == StateSending
}

// Snapshot returns a copy of the conversation
func (c *Conversation) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)

	return View{ID: c.id, Messages: messages, State: c.state}
}

// TakeBanner returns the pending error banner and clears it, so it shows once
func (c *Conversation) TakeBanner() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	banner := c.banner
	c.banner = ""
	return banner
}

// Submit sends one query and records the exchange.
//
// The user message is appended before the backend is called. Exactly one
// assistant message follows it: a results block, a text answer, or an
// error-styled text when the backend failed or had no answer. Backend failures
// are recorded as messages, not returned. The returned slice holds the messages
// this submission appended
func (c *Conversation) Submit(ctx context.Context, q Querier, input string) ([]Message, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	// Optimistic append and enter sending
	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	user := newMessage(RoleUser, c.now())
	user.Text = text
	c.messages = append(c.messages, user)
	c.banner = ""
	c.state = StateSending
	c.lastActive = c.now()
	generation := c.generation
	c.mu.Unlock()

	reply, err := q.Query(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A reset while the query was in flight owns the conversation now
	if generation != c.generation {
		return nil, ErrDiscarded
	}

	c.state = StateIdle
	c.lastActive = c.now()

	assistant := newMessage(RoleAssistant, c.now())
	if err != nil {
		assistant.Text = "Error: " + sdk.UserMessage(err, UnreachableText)
		assistant.IsError = true
		c.banner = sdk.UserMessage(err, UnreachableText)
	} else {
		fillReply(&assistant, reply)
	}
	c.messages = append(c.messages, assistant)

	return []Message{user, assistant}, nil
}

// fillReply sets the payload of an assistant message from a successful reply
func fillReply(m *Message, reply Reply) {
	switch {
	case len(reply.Results) > 0:
		m.Results = reply.Results
	case reply.Text != "":
		m.Text = reply.Text
		m.Sources = reply.Sources
	case reply.Error != "":
		m.Text = reply.Error
		m.IsError = true
	default:
		m.Text = NoAnswerText
		m.IsError = true
	}
}

// reset discards all messages and drops any reply still in flight
func (c *Conversation) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
	c.banner = ""
	c.state = StateIdle
	c.generation++
	c.lastActive = c.now()
}

// touch marks the conversation as used
func (c *Conversation) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = c.now()
}

// idleSince reports whether the conversation is idle and unused since the cutoff
func (c *Conversation) idleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle && c.lastActive.Before(cutoff)
}
