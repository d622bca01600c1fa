package chat

import (
	"time"
)

// DefaultChannel is the channel every connection is subscribed to on
// authentication.
const DefaultChannel = "general"

// DefaultChannels is the fixed channel set. Channels cannot be created at
// runtime; unknown names are ignored wherever they appear.
var DefaultChannels = []string{"general", "stock", "support", "admin"}

// Identity describes the authenticated user behind a live connection.
type Identity struct {
	UserID      int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Message is a chat message, immutable once constructed. Public messages
// carry a channel name; private messages carry a recipient user id instead.
type Message struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Body        string    `json:"message"`
	Channel     string    `json:"channel,omitempty"`
	IsPrivate   bool      `json:"isPrivate"`
	RecipientID int64     `json:"recipientId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
