package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/tmp/#draft.md#"))
	assert.True(t, shouldIgnoreEvent("/tmp/post.md.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/post.md~"))
	assert.True(t, shouldIgnoreEvent("/tmp/Thumbs.db"))
	assert.False(t, shouldIgnoreEvent("/tmp/2021-01-01-post.md"))
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	rebuildReq, trigger := newDebouncer()

	for i := 0; i < 10; i++ {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced rebuild request never arrived")
	}

	// The burst collapsed into a single request.
	select {
	case <-rebuildReq:
		t.Fatal("expected exactly one rebuild request")
	case <-time.After(2 * debounceDelay):
	}
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	rebuildReq, trigger := newDebouncer()

	trigger()
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never arrived")
	}

	trigger()
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("second request never arrived")
	}
}

func TestNewContentWatcherWatchesExistingRoot(t *testing.T) {
	w, err := newContentWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
