package chat

import (
	"time"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation. The payload is either Text or Results
type Message struct {
	ID      string             `json:"id"`
	Role    Role               `json:"role"`
	SentAt  time.Time          `json:"sent_at"`
	Text    string             `json:"text,omitempty"`
	Results []sdk.SearchResult `json:"results,omitempty"`
	Sources []sdk.AskSource    `json:"sources,omitempty"`
	IsError bool               `json:"is_error,omitempty"` // Rendered error-styled
}

// newMessage stamps a message with an id and send time
func newMessage(role Role, at time.Time) Message {
	return Message{
		ID:     uuid.NewString(),
		Role:   role,
		SentAt: at,
	}
}

// IsUser reports whether the user wrote the message
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// HasResults reports whether the payload is a results block
func (m Message) HasResults() bool {
	return len(m.Results) > 0
}

// Clock returns the local send time as "15:04"
func (m Message) Clock() string {
	return m.SentAt.Local().Format("15:04")
}
