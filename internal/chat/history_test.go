package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(body string) Message {
	return Message{ID: body, Body: body, Channel: "general"}
}

func TestHistoryAppendAndSnapshot(t *testing.T) {
	h := NewHistory(HistoryLimit, DefaultChannels...)

	h.Append("general", testMessage("one"))
	h.Append("general", testMessage("two"))

	snapshot := h.Snapshot("general")
	require.Len(t, snapshot, 2)
	assert.Equal(t, "one", snapshot[0].Body)
	assert.Equal(t, "two", snapshot[1].Body)

	assert.Empty(t, h.Snapshot("stock"))
	assert.Empty(t, h.Snapshot("unknown"))
}

func TestHistoryFIFOEviction(t *testing.T) {
	h := NewHistory(HistoryLimit, DefaultChannels...)

	for i := 1; i <= HistoryLimit+1; i++ {
		h.Append("general", testMessage(fmt.Sprintf("msg-%d", i)))
	}

	snapshot := h.Snapshot("general")
	require.Len(t, snapshot, HistoryLimit)
	assert.Equal(t, "msg-2", snapshot[0].Body, "oldest entry must be evicted first")
	assert.Equal(t, fmt.Sprintf("msg-%d", HistoryLimit+1), snapshot[HistoryLimit-1].Body)
}

func TestHistorySnapshotIsImmutable(t *testing.T) {
	h := NewHistory(HistoryLimit, DefaultChannels...)

	h.Append("general", testMessage("one"))
	snapshot := h.Snapshot("general")

	h.Append("general", testMessage("two"))
	snapshot[0] = testMessage("mutated")

	require.Len(t, snapshot, 1)
	fresh := h.Snapshot("general")
	require.Len(t, fresh, 2)
	assert.Equal(t, "one", fresh[0].Body)
}

func TestHistoryBoundHoldsUnderConcurrentAppends(t *testing.T) {
	h := NewHistory(HistoryLimit, DefaultChannels...)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Append("general", testMessage(fmt.Sprintf("w%d-%d", w, i)))
				if n := h.Len("general"); n > HistoryLimit {
					t.Errorf("observed %d entries, bound is %d", n, HistoryLimit)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, HistoryLimit, h.Len("general"))
}
