package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryFixedChannelSet(t *testing.T) {
	d := NewDirectory(DefaultChannels...)

	assert.Equal(t, []string{"general", "stock", "support", "admin"}, d.Channels())
	assert.True(t, d.Has("general"))
	assert.False(t, d.Has("random"))
}

func TestDirectorySubscribeUnknownChannel(t *testing.T) {
	d := NewDirectory(DefaultChannels...)

	assert.False(t, d.Subscribe("conn-1", "random"))
	assert.Empty(t, d.Subscribers("random"))
}

func TestDirectorySubscribeAndUnsubscribe(t *testing.T) {
	d := NewDirectory(DefaultChannels...)

	assert.True(t, d.Subscribe("conn-1", "general"))
	assert.True(t, d.Subscribe("conn-1", "stock"))
	assert.True(t, d.Subscribe("conn-2", "general"))

	assert.ElementsMatch(t, []string{"conn-1", "conn-2"}, d.Subscribers("general"))
	assert.True(t, d.IsSubscribed("conn-1", "stock"))

	d.Unsubscribe("conn-1", "general")
	assert.Equal(t, []string{"conn-2"}, d.Subscribers("general"))

	// Absent edge removal is a no-op
	d.Unsubscribe("conn-1", "general")
	d.Unsubscribe("conn-1", "random")
	assert.Equal(t, []string{"conn-2"}, d.Subscribers("general"))
}

func TestDirectoryUnsubscribeAll(t *testing.T) {
	d := NewDirectory(DefaultChannels...)

	d.Subscribe("conn-1", "general")
	d.Subscribe("conn-1", "stock")
	d.Subscribe("conn-1", "admin")
	d.Subscribe("conn-2", "general")

	d.UnsubscribeAll("conn-1")

	for _, channel := range d.Channels() {
		assert.False(t, d.IsSubscribed("conn-1", channel), "conn-1 should be gone from %s", channel)
	}
	assert.Equal(t, []string{"conn-2"}, d.Subscribers("general"))
}

func TestDirectorySubscribersReturnsCopy(t *testing.T) {
	d := NewDirectory(DefaultChannels...)
	d.Subscribe("conn-1", "general")

	subscribers := d.Subscribers("general")
	subscribers[0] = "mutated"

	assert.Equal(t, []string{"conn-1"}, d.Subscribers("general"))
}
