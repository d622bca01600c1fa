package chat

import (
	"sync"
)

// HistoryLimit is the maximum number of messages retained per channel.
const HistoryLimit = 100

// History keeps the most recent messages of each channel in a bounded
// FIFO buffer. Only public messages are appended; private messages never
// reach history.
type History struct {
	mu        sync.RWMutex
	limit     int
	byChannel map[string][]Message
}

func NewHistory(limit int, channels ...string) *History {
	byChannel := make(map[string][]Message, len(channels))
	for _, name := range channels {
		byChannel[name] = nil
	}
	return &History{
		limit:     limit,
		byChannel: byChannel,
	}
}

// Append adds a message to a channel's buffer, evicting the oldest entry
// once the limit is reached. The bound holds atomically: no reader can
// observe more than limit entries.
func (h *History) Append(channel string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := append(h.byChannel[channel], msg)
	if len(buf) > h.limit {
		copy(buf, buf[1:])
		buf = buf[:h.limit]
	}
	h.byChannel[channel] = buf
}

// Snapshot returns a copy of a channel's buffer, oldest first. Later
// appends never mutate a returned snapshot. Unknown channels yield an
// empty slice.
func (h *History) Snapshot(channel string) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf := h.byChannel[channel]
	out := make([]Message, len(buf))
	copy(out, buf)
	return out
}

// Len returns the current number of messages stored for a channel.
func (h *History) Len(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.byChannel[channel])
}
