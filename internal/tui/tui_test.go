package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/engine"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/notify"
	"github.com/tatianab/explorations/internal/player"
	"github.com/tatianab/explorations/internal/random"
	"github.com/tatianab/explorations/internal/storage"
)

func TestParseSlot(t *testing.T) {
	t.Parallel()

	layer, index, err := parseSlot("2")
	require.NoError(t, err)
	assert.Equal(t, 0, layer)
	assert.Equal(t, 2, index)

	layer, index, err = parseSlot("1.3")
	require.NoError(t, err)
	assert.Equal(t, 1, layer)
	assert.Equal(t, 3, index)

	for _, bad := range []string{"x", "1.", ".2", "a.b"} {
		_, _, err := parseSlot(bad)
		assert.Error(t, err, bad)
	}
}

func newTestModel(t *testing.T) model {
	t.Helper()
	ctx := context.Background()
	store := models.NewFileStore(t.TempDir())
	_, err := storage.SeedDemo(ctx, store)
	require.NoError(t, err)
	listing, err := store.ListExplorations(ctx)
	require.NoError(t, err)

	src := &random.Fixed{Values: []int{0}}
	alerts := notify.NewCenter()
	session, err := engine.NewSession(player.New(src, player.Warrior), engine.Options{
		Loader: store,
		Roller: dice.NewRoller(src),
		Sink:   alerts,
	})
	require.NoError(t, err)

	m := newModel(Deps{Session: session, Alerts: alerts, Source: src, Listing: listing})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

// enter submits input and runs any command it returns through Update.
func enter(t *testing.T, m model, input string) model {
	t.Helper()
	next, cmd := m.submit(input)
	m = next.(model)
	if cmd != nil {
		msg := cmd()
		next, _ = m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestSelectAndPlayDemo(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "The Drowned Keep")

	m = enter(t, m, "1")
	require.Equal(t, statePlaying, m.state)
	assert.Contains(t, m.gameLog, "The Causeway")
	assert.Contains(t, m.gameLog, "[0] Look around")

	m = enter(t, m, "0")
	assert.Contains(t, m.gameLog, "Mist hangs on the water.")

	m = enter(t, m, "2")
	assert.Contains(t, m.gameLog, "1) Shout a greeting")
	require.Len(t, m.deps.Session.Pending(), 2)

	m = enter(t, m, "1")
	assert.Contains(t, m.gameLog, "Only the lake answers.")
	assert.Empty(t, m.deps.Session.Pending())
}

func TestSelectUnknownExplorationStaysOnListing(t *testing.T) {
	m := newTestModel(t)

	m = enter(t, m, "42")
	assert.Equal(t, stateSelect, m.state)
	require.Error(t, m.err)

	m = enter(t, m, "abc")
	assert.Equal(t, stateSelect, m.state)
	assert.Contains(t, m.View(), "is not an exploration number")
}

func TestMissingSlotIsLogged(t *testing.T) {
	m := newTestModel(t)
	m = enter(t, m, "1")

	m = enter(t, m, "9")
	assert.Equal(t, statePlaying, m.state)
	assert.Contains(t, m.gameLog, "Slot not found")

	m = enter(t, m, "north")
	assert.Contains(t, m.gameLog, `"north" is not a slot`)
}

func TestRestartRollsNewPlayer(t *testing.T) {
	m := newTestModel(t)
	m = enter(t, m, "1")
	before := m.deps.Session.Player()

	m = enter(t, m, "/restart")
	assert.Equal(t, statePlaying, m.state)
	assert.NotSame(t, before, m.deps.Session.Player())
	assert.Contains(t, m.gameLog, "The Causeway")

	last, ok := m.deps.Alerts.Last()
	require.True(t, ok)
	assert.Equal(t, "A new adventurer steps forward.", last.Msg)
}
