package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/explorations/internal/config"
	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/engine"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/notify"
	"github.com/tatianab/explorations/internal/player"
	"github.com/tatianab/explorations/internal/random"
	"github.com/tatianab/explorations/internal/storage"
)

type sessionState int

const (
	stateSelect sessionState = iota
	stateLoading
	statePlaying
	stateDefeated
	stateError
)

// Deps is what the player needs to run a session.
type Deps struct {
	Session  *engine.Session
	Alerts   *notify.Center
	Source   random.Source
	Listing  []models.Summary
	Greeting string
}

type model struct {
	state     sessionState
	deps      Deps
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
	busy      bool
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func newModel(deps Deps) model {
	ti := textinput.New()
	ti.Placeholder = "Exploration number..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40

	return model{
		state:     stateSelect,
		deps:      deps,
		textInput: ti,
		viewport:  viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type startedMsg struct{ err error }

type actedMsg struct {
	input string
	err   error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			return m.submit(input)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		m.viewport.SetContent(m.gameLog)

	case startedMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, engine.ErrNotFound) {
				m.state = stateSelect
				m.err = msg.err
				return m, nil
			}
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.err = nil
		m.state = statePlaying
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), m.height-6)
		}
		m.gameLog = ""
		m.appendScene()
		m.textInput.Placeholder = "Slot number, or layer.slot"
		return m, nil

	case actedMsg:
		m.busy = false
		m.afterAction(msg.err)
		return m, nil
	}

	if m.state != stateLoading && m.state != stateError {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) submit(input string) (tea.Model, tea.Cmd) {
	switch input {
	case "/quit":
		return m, tea.Quit
	case "/restart":
		if m.state == statePlaying || m.state == stateDefeated {
			m.deps.Session.Reset(player.New(m.deps.Source, ""))
			m.deps.Alerts.Reset("A new adventurer steps forward.", false)
			m.state = statePlaying
			m.gameLog = ""
			m.appendScene()
		}
		return m, nil
	case "/look":
		if m.state == statePlaying {
			m.appendScene()
		}
		return m, nil
	}

	switch m.state {
	case stateSelect:
		id, err := strconv.Atoi(input)
		if err != nil {
			m.err = fmt.Errorf("%q is not an exploration number", input)
			return m, nil
		}
		m.state = stateLoading
		m.busy = true
		return m, m.start(id)

	case statePlaying:
		if input == "" {
			return m, nil
		}
		m.echo(input)
		cmd, err := m.act(input)
		if err != nil {
			m.appendError(err)
			return m, nil
		}
		m.busy = true
		return m, cmd
	}
	return m, nil
}

func (m model) start(id int) tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		return startedMsg{err: session.Start(context.Background(), id)}
	}
}

// act turns input into a session call. With choices pending a bare number
// picks a choice; otherwise it names a slot in layer 0, and "L.N" names slot
// N in layer L.
func (m model) act(input string) (tea.Cmd, error) {
	session := m.deps.Session
	if len(session.Pending()) > 0 {
		n, err := strconv.Atoi(input)
		if err != nil {
			return nil, fmt.Errorf("pick a choice by number")
		}
		return func() tea.Msg {
			return actedMsg{input: input, err: session.Choose(context.Background(), n-1)}
		}, nil
	}

	layer, index, err := parseSlot(input)
	if err != nil {
		return nil, err
	}
	return func() tea.Msg {
		return actedMsg{input: input, err: session.Interact(context.Background(), layer, index)}
	}, nil
}

func parseSlot(input string) (layer, index int, err error) {
	layerText, indexText, found := strings.Cut(input, ".")
	if !found {
		indexText, layerText = layerText, "0"
	}
	if layer, err = strconv.Atoi(layerText); err != nil {
		return 0, 0, fmt.Errorf("%q is not a slot", input)
	}
	if index, err = strconv.Atoi(indexText); err != nil {
		return 0, 0, fmt.Errorf("%q is not a slot", input)
	}
	return layer, index, nil
}

func (m *model) afterAction(err error) {
	session := m.deps.Session
	if err != nil {
		m.appendError(err)
	}
	display := session.Display()
	if err == nil && (display.Name != "" || display.Text != "") {
		m.appendText(display.Name, display.Text)
	}
	for i, c := range session.Pending() {
		m.gameLog += gameStyle.Render(fmt.Sprintf("  %d) %s", i+1, c.Text)) + "\n"
	}
	if session.State() == engine.StatePlayerDefeated {
		m.state = stateDefeated
		m.textInput.Placeholder = "/restart or /quit"
	} else if err == nil && display.Name == "" && display.Text == "" {
		m.appendScene()
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) echo(input string) {
	m.gameLog += "\n" + userStyle.Width(m.logWidth()).Render("> "+input) + "\n\n"
}

func (m *model) appendText(title, body string) {
	if title != "" {
		m.gameLog += gameStyle.Bold(true).Render(title) + "\n"
	}
	if body != "" {
		m.gameLog += gameStyle.Width(m.logWidth()).Render(body) + "\n"
	}
	m.gameLog += "\n"
}

func (m *model) appendError(err error) {
	m.gameLog += errorStyle.Render(err.Error()) + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

// appendScene logs the current scene and its slots.
func (m *model) appendScene() {
	scene := m.deps.Session.Scene()
	if scene == nil {
		return
	}
	m.appendText(scene.Title, scene.Description)
	for l, layer := range scene.Layers {
		for _, slot := range layer {
			key := strconv.Itoa(slot.Index)
			if l > 0 {
				key = fmt.Sprintf("%d.%d", l, slot.Index)
			}
			m.gameLog += gameStyle.Render(fmt.Sprintf("  [%s] %s", key, slot.Name)) + "\n"
		}
	}
	m.gameLog += "\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateSelect:
		s = "Explorations\n\n" + m.renderListing()
		if m.deps.Greeting != "" {
			s = helpStyle.Render(m.deps.Greeting) + "\n\n" + s
		}
		if m.err != nil {
			s += "\n" + errorStyle.Render(m.err.Error()) + "\n"
		}
		s += "\n" + m.textInput.View()

	case stateLoading:
		s = "\n  Loading exploration... please wait.\n"

	case statePlaying, stateDefeated:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("Commands: /look, /restart, /quit, or a slot number.")
		if m.state == stateDefeated {
			help = helpStyle.Render("You have fallen. /restart with a new adventurer or /quit.")
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderListing() string {
	if len(m.deps.Listing) == 0 {
		return "(no explorations saved)\n"
	}
	var b strings.Builder
	for _, e := range m.deps.Listing {
		fmt.Fprintf(&b, "  %d) %s (%d scenes)\n", e.ID, e.Title, e.Scenes)
		if e.Description != "" {
			b.WriteString(helpStyle.Render("     "+e.Description) + "\n")
		}
	}
	return b.String()
}

func (m model) renderState() string {
	session := m.deps.Session
	p := session.Player()

	content := titleStyle.Render("PLAYER") + "\n" + p.DisplayName() + "\n"
	content += fmt.Sprintf("HP: %d\nType: %s\nTrait: %s\n\n", p.HP, p.Type, p.Trait.Name)

	content += titleStyle.Render("ATTRIBUTES") + "\n"
	for _, attr := range player.AllAttributes {
		v, _ := p.Attributes.Get(attr)
		content += fmt.Sprintf("%s: %d\n", attr, v)
	}
	content += "\n"

	if scene := session.Scene(); scene != nil {
		content += titleStyle.Render("SCENE") + "\n" + scene.Title + "\n\n"
	}
	if alert, ok := m.deps.Alerts.Last(); ok {
		style := lipgloss.NewStyle()
		if alert.Error {
			style = errorStyle
		}
		content += titleStyle.Render("LAST") + "\n" + style.Render(alert.Msg) + "\n"
	}

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

// Run plays explorations from store until the user quits.
func Run(ctx context.Context, cfg *config.Config, store models.Store) error {
	src, err := random.NewSource(cfg.Seed)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.SaveDir, "explore.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.New(logFile, "[explore] ", log.LstdFlags)

	alerts := notify.NewCenter()
	session, err := engine.NewSession(player.New(src, ""), engine.Options{
		Loader:      store,
		Roller:      dice.NewRoller(src),
		Sink:        alerts,
		Logger:      logger,
		LoadTimeout: cfg.LoadTimeout,
		Notation:    cfg.DiceNotation,
	})
	if err != nil {
		return err
	}

	greeting := ""
	if seeded, err := storage.SeedDemo(ctx, store); err != nil {
		return err
	} else if seeded {
		greeting = "Added the demo exploration to get you started."
	}
	listing, err := store.ListExplorations(ctx)
	if err != nil {
		return err
	}

	deps := Deps{
		Session:  session,
		Alerts:   alerts,
		Source:   src,
		Listing:  listing,
		Greeting: greeting,
	}
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// Start loads configuration, opens the configured store and runs the player.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return Run(context.Background(), cfg, store)
}
