package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter() *Center {
	c := NewCenter()
	c.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestAddAndRemove(t *testing.T) {
	c := newTestCenter()
	a := c.Add("Saving Scene...", false)
	b := c.Add("Loaded", true)
	assert.NotEqual(t, a, b)
	require.Len(t, c.All(), 2)

	c.Remove(a)
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Loaded", all[0].Msg)
	assert.True(t, all[0].Persistent)
}

func TestNotifyReplacesByID(t *testing.T) {
	c := newTestCenter()
	assert.Equal(t, 1, c.Notify("first", 1, false))
	assert.Equal(t, 1, c.Notify("second", 1, true))
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "second", all[0].Msg)
	assert.True(t, all[0].Persistent)
}

func TestErrorMarksAlert(t *testing.T) {
	c := newTestCenter()
	id := c.Add("Saving Scene...", false)
	assert.Equal(t, id, c.Error("Scene not saved", id))
	last, ok := c.Last()
	require.True(t, ok)
	assert.True(t, last.Error)
	assert.False(t, last.Persistent)
	assert.Equal(t, "Scene not saved", last.Msg)
	assert.Equal(t, -1, c.Error("", id))
}

func TestReset(t *testing.T) {
	c := newTestCenter()
	c.Add("a", false)
	c.Add("b", false)
	assert.Equal(t, -1, c.Reset("", false))
	assert.Empty(t, c.All())

	id := c.Reset("only", true)
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
}

func TestToggleDisablesStorage(t *testing.T) {
	c := newTestCenter()
	assert.False(t, c.Toggle())
	assert.False(t, c.Active())
	assert.Equal(t, -1, c.Add("ignored", false))
	assert.Equal(t, -1, c.Error("ignored", 0))
	assert.Empty(t, c.All())
	assert.True(t, c.Toggle())
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	c := newTestCenter()
	var seen [][]Alert
	c.OnChange(func(a []Alert) { seen = append(seen, a) })
	c.Add("a", false)
	c.Notify("b", 5, false)
	require.Len(t, seen, 2)
	assert.Len(t, seen[1], 2)
}

func TestDiscard(t *testing.T) {
	var s Sink = Discard{}
	assert.Equal(t, -1, s.Notify("x", 1, true))
	assert.Equal(t, -1, s.Error("x", 1))
}
