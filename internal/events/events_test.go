package events_test

import (
	"testing"

	"github.com/dom/patch-meta/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FansOut(t *testing.T) {
	first := &events.Recorder{}
	second := &events.Recorder{}
	bus := events.NewBus(first)
	bus.Subscribe(second)

	bus.Emit(events.Infof("fetching %s", "25.01"))
	bus.Emit(events.Successf("saved"))

	for _, r := range []*events.Recorder{first, second} {
		require.Len(t, r.Events(), 2)
		assert.Equal(t, "fetching 25.01", r.Events()[0].Message)
		assert.Equal(t, []events.Level{events.LevelInfo, events.LevelSuccess}, r.Levels())
	}
}

func TestEventConstructors(t *testing.T) {
	e := events.Errorf("failed: %d", 3)
	assert.Equal(t, events.LevelError, e.Level)
	assert.Equal(t, "failed: 3", e.Message)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "UTC", e.Timestamp.Location().String())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		events.Discard.Emit(events.Infof("ignored"))
	})
}
