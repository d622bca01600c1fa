package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"stock-chat/internal/chat"
)

// EventType identifies a websocket event using a custom enum type for
// better type safety. The wire names match the vocabulary the inventory
// frontend already speaks.
type EventType string

const (
	// Client → server
	EventAuthenticate EventType = "authenticate"
	EventJoinChannel  EventType = "joinChannel"
	EventSendMessage  EventType = "sendMessage"
	EventTyping       EventType = "typing"

	// Server → client
	EventChatHistory    EventType = "chatHistory"
	EventUserJoined     EventType = "userJoined"
	EventUserLeft       EventType = "userLeft"
	EventNewMessage     EventType = "newMessage"
	EventPrivateMessage EventType = "privateMessage"
	EventUserTyping     EventType = "userTyping"
	EventError          EventType = "error"
)

// String returns the string representation of the EventType.
func (et EventType) String() string {
	return string(et)
}

// IsClientEvent reports whether the type is one a client may send.
func (et EventType) IsClientEvent() bool {
	switch et {
	case EventAuthenticate, EventJoinChannel, EventSendMessage, EventTyping:
		return true
	default:
		return false
	}
}

// Event is the wire envelope. Data stays raw on the way in so each handler
// can decode its own payload shape.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AuthenticatePayload carries the identity of a connecting user, either
// inline or as a signed token issued by the inventory application.
type AuthenticatePayload struct {
	Token     string `json:"token,omitempty"`
	UserID    int64  `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Validate checks that the payload carries either a token or an inline
// identity.
func (p *AuthenticatePayload) Validate() error {
	if p.Token != "" {
		return nil
	}
	if p.UserID == 0 {
		return fmt.Errorf("userId is required")
	}
	if p.FirstName == "" {
		return fmt.Errorf("firstName is required")
	}
	return nil
}

type JoinChannelPayload struct {
	ChannelName string `json:"channelName"`
}

func (p *JoinChannelPayload) Validate() error {
	if p.ChannelName == "" {
		return fmt.Errorf("channelName is required")
	}
	return nil
}

type SendMessagePayload struct {
	Channel     string `json:"channel,omitempty"`
	Body        string `json:"message"`
	IsPrivate   bool   `json:"isPrivate,omitempty"`
	RecipientID int64  `json:"recipientId,omitempty"`
}

func (p *SendMessagePayload) Validate() error {
	if p.Body == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

type TypingPayload struct {
	Channel  string `json:"channel"`
	IsTyping bool   `json:"isTyping"`
}

// Server-side payload shapes.

type ChatHistoryPayload struct {
	Channel  string         `json:"channel"`
	Messages []chat.Message `json:"messages"`
}

type PresenceUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PresencePayload backs both userJoined and userLeft events.
type PresencePayload struct {
	User      PresenceUser `json:"user"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

type UserTypingPayload struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	IsTyping  bool   `json:"isTyping"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func unmarshalPayload(event *Event, v any) error {
	if len(event.Data) == 0 {
		return fmt.Errorf("missing event data")
	}
	return json.Unmarshal(event.Data, v)
}

// NewJoinedPayload builds the join notice broadcast to a channel.
func NewJoinedPayload(identity chat.Identity, now time.Time) PresencePayload {
	return PresencePayload{
		User:      PresenceUser{FirstName: identity.FirstName, LastName: identity.LastName},
		Message:   fmt.Sprintf("%s joined the chat", identity.FirstName),
		Timestamp: now,
	}
}

// NewLeftPayload builds the departure notice broadcast to a channel.
func NewLeftPayload(identity chat.Identity, now time.Time) PresencePayload {
	return PresencePayload{
		User:      PresenceUser{FirstName: identity.FirstName, LastName: identity.LastName},
		Message:   fmt.Sprintf("%s left the chat", identity.FirstName),
		Timestamp: now,
	}
}
