package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptable/internal/store"
)

func TestSaver_ZeroWindowWritesImmediately(t *testing.T) {
	sink := openTestStore(t)
	src := store.New(store.Config{})
	saver := NewSaver(src, sink, 0, nil)

	saver.Trigger()

	loaded, err := sink.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, src.ActiveTableID(), loaded.ActiveTableID)
}

func TestSaver_DebouncedWrite(t *testing.T) {
	sink := openTestStore(t)
	src := store.New(store.Config{})
	saver := NewSaver(src, sink, 20*time.Millisecond, nil)
	defer saver.Close()

	saver.Trigger()
	saver.Trigger()

	// Not written before the window elapses.
	loaded, err := sink.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.Eventually(t, func() bool {
		loaded, err := sink.Load()
		return err == nil && loaded != nil
	}, time.Second, 5*time.Millisecond)
}

func TestSaver_CloseFlushesPending(t *testing.T) {
	sink := openTestStore(t)
	src := store.New(store.Config{})
	saver := NewSaver(src, sink, time.Hour, nil)

	saver.Trigger()
	saver.Close()

	loaded, err := sink.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
}

func TestSaver_FlushWithoutChangesIsNoOp(t *testing.T) {
	sink := openTestStore(t)
	src := store.New(store.Config{})
	saver := NewSaver(src, sink, time.Hour, nil)

	saver.Flush()

	loaded, err := sink.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaver_AsStoreChangeHook(t *testing.T) {
	sink := openTestStore(t)
	src := store.New(store.Config{})
	saver := NewSaver(src, sink, 0, nil)
	src.SetOnChange(saver.Trigger)

	id := src.AddTable("Hooked")

	loaded, err := sink.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, id, loaded.ActiveTableID)
}
