package websocket

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"stock-chat/internal/auth"
	"stock-chat/internal/chat"
)

var ErrClientDisconnected = fmt.Errorf("client disconnected")

// clientEvent pairs an inbound event with the connection that sent it.
type clientEvent struct {
	client *Client
	event  *Event
}

// Hub routes every inbound event through a single run loop, which is the
// sole writer of the session registry, channel directory, and history
// store. Delivery to clients is a buffered channel send and never blocks
// the loop.
type Hub struct {
	registry  *chat.Registry
	directory *chat.Directory
	history   *chat.History

	// Live connections by connection id. Touched only on the run loop.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan *clientEvent

	// Shared secret for identity tokens issued by the inventory app.
	jwtSecret string

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(registry *chat.Registry, directory *chat.Directory, history *chat.History, jwtSecret string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		registry:   registry,
		directory:  directory,
		history:    history,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *clientEvent),
		jwtSecret:  jwtSecret,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ce := <-h.inbound:
			h.handleEvent(ce.client, ce.event)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client.id] = client
	slog.Info("Client registered", "clientID", client.id)
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)

	// Departure notice goes out before the edges disappear, so current
	// default-channel subscribers still resolve.
	if identity, ok := h.registry.Remove(client.id); ok {
		h.broadcast(chat.DefaultChannel, client.id, EventUserLeft, NewLeftPayload(identity, time.Now()))
		slog.Info("Client disconnected", "clientID", client.id, "userID", identity.UserID)
	}

	h.directory.UnsubscribeAll(client.id)
	client.close()
	client.closeSendChannel()
}

func (h *Hub) handleEvent(client *Client, event *Event) {
	// A fault in one connection's event must never take the hub down;
	// the offending client is disconnected instead.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling event", "clientID", client.id, "type", event.Type, "panic", r)
			client.close()
			client.closeSendChannel()
		}
	}()

	switch event.Type {
	case EventAuthenticate:
		h.handleAuthenticate(client, event)
	case EventJoinChannel:
		h.handleJoinChannel(client, event)
	case EventSendMessage:
		h.handleSendMessage(client, event)
	case EventTyping:
		h.handleTyping(client, event)
	default:
		client.sendError("Unknown event type: " + event.Type.String())
	}
}

// handleAuthenticate records the identity, auto-subscribes the connection
// to the default channel, notifies its subscribers, and hands the channel
// history to the new arrival. Re-authentication overwrites the previous
// identity; existing subscriptions are kept.
func (h *Hub) handleAuthenticate(client *Client, event *Event) {
	payload, err := decodePayload[AuthenticatePayload](event)
	if err != nil {
		client.sendError("Invalid authenticate payload")
		return
	}

	identity := chat.Identity{
		UserID:      payload.UserID,
		Email:       payload.Email,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		ConnectedAt: time.Now(),
	}

	if payload.Token != "" {
		claims, err := auth.ParseIdentityToken(payload.Token, h.jwtSecret)
		if err != nil {
			client.sendError("Invalid authentication token")
			return
		}
		identity.UserID = claims.UserID
		identity.Email = claims.Email
		identity.FirstName = claims.FirstName
		identity.LastName = claims.LastName
	}

	h.registry.Authenticate(client.id, identity)
	h.directory.Subscribe(client.id, chat.DefaultChannel)

	h.broadcast(chat.DefaultChannel, client.id, EventUserJoined, NewJoinedPayload(identity, time.Now()))
	h.sendHistory(client, chat.DefaultChannel)

	slog.Info("User authenticated", "clientID", client.id, "userID", identity.UserID,
		"name", identity.FirstName+" "+identity.LastName)
}

// handleJoinChannel adds a subscription edge and returns the channel's
// history snapshot. Unknown channel names are ignored.
func (h *Hub) handleJoinChannel(client *Client, event *Event) {
	payload, err := decodePayload[JoinChannelPayload](event)
	if err != nil {
		client.sendError("Invalid joinChannel payload")
		return
	}

	if !h.directory.Subscribe(client.id, payload.ChannelName) {
		return
	}
	h.sendHistory(client, payload.ChannelName)

	slog.Info("Client joined channel", "clientID", client.id, "channel", payload.ChannelName)
}

// handleSendMessage attributes the message to the sender's identity, then
// routes it: private messages go to every live connection of the recipient
// plus an echo to the sender, public messages are appended to channel
// history and fanned out to current subscribers. Unknown channels and
// offline recipients drop silently.
func (h *Hub) handleSendMessage(client *Client, event *Event) {
	identity, ok := h.registry.Lookup(client.id)
	if !ok {
		client.sendError("User not authenticated")
		return
	}

	payload, err := decodePayload[SendMessagePayload](event)
	if err != nil {
		client.sendError("Invalid sendMessage payload")
		return
	}

	msg := chat.Message{
		ID:          uuid.New().String(),
		UserID:      identity.UserID,
		UserEmail:   identity.Email,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Body:        payload.Body,
		Channel:     payload.Channel,
		IsPrivate:   payload.IsPrivate,
		RecipientID: payload.RecipientID,
		Timestamp:   time.Now(),
	}

	if payload.IsPrivate && payload.RecipientID != 0 {
		h.deliverPrivate(client, msg)
		return
	}

	if !h.directory.Has(payload.Channel) {
		slog.Debug("Dropping message to unknown channel", "clientID", client.id, "channel", payload.Channel)
		return
	}

	h.history.Append(payload.Channel, msg)
	h.broadcast(payload.Channel, "", EventNewMessage, msg)

	slog.Debug("Message broadcast", "channel", payload.Channel, "userID", identity.UserID)
}

// deliverPrivate sends a direct message to all of the recipient's live
// connections. The sender always gets its own echo; a recipient with no
// live connection is a silent drop, not an error.
func (h *Hub) deliverPrivate(sender *Client, msg chat.Message) {
	h.deliver(sender, EventPrivateMessage, msg)

	for _, connID := range h.registry.FindByUserID(msg.RecipientID) {
		if connID == sender.id {
			continue
		}
		if recipient, ok := h.clients[connID]; ok {
			h.deliver(recipient, EventPrivateMessage, msg)
		}
	}
}

// handleTyping relays the typing flag to the channel's other subscribers.
// The originator never sees its own typing event.
func (h *Hub) handleTyping(client *Client, event *Event) {
	identity, ok := h.registry.Lookup(client.id)
	if !ok {
		return
	}

	payload, err := decodePayload[TypingPayload](event)
	if err != nil || payload.Channel == "" {
		return
	}

	h.broadcast(payload.Channel, client.id, EventUserTyping, UserTypingPayload{
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		IsTyping:  payload.IsTyping,
	})
}

// broadcast fans an event out to every current subscriber of a channel,
// skipping the excluded connection id when one is given. Delivery is at
// most once, to the set observed at call time, with no retry; a failure on
// one connection never affects the rest.
func (h *Hub) broadcast(channel, exclude string, eventType EventType, payload any) {
	for _, connID := range h.directory.Subscribers(channel) {
		if connID == exclude {
			continue
		}
		if client, ok := h.clients[connID]; ok {
			h.deliver(client, eventType, payload)
		}
	}
}

func (h *Hub) deliver(client *Client, eventType EventType, payload any) {
	if err := client.SendEvent(eventType, payload); err != nil {
		slog.Debug("Dropping event for client", "clientID", client.id, "type", eventType, "error", err)
	}
}

func (h *Hub) sendHistory(client *Client, channel string) {
	h.deliver(client, EventChatHistory, ChatHistoryPayload{
		Channel:  channel,
		Messages: h.history.Snapshot(channel),
	})
}

func decodePayload[T any](event *Event) (*T, error) {
	var payload T
	if err := unmarshalPayload(event, &payload); err != nil {
		return nil, err
	}
	if v, ok := any(&payload).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &payload, nil
}
