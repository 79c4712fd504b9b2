// Package engine runs one player's session through an exploration: it
// resolves slot actions, moves the current scene, and applies attribute
// checks to the player.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tatianab/explorations/internal/check"
	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/notify"
	"github.com/tatianab/explorations/internal/player"
	"github.com/tatianab/explorations/internal/random"
)

// DefaultLoadTimeout bounds an exploration load.
const DefaultLoadTimeout = 5 * time.Second

// StatusNoteID is the notification id reused for check results and defeat,
// so each replaces the previous one.
const StatusNoteID = 1

// State is the session's position in the dispatch state machine.
type State int

const (
	StateIdle State = iota
	StateSceneActive
	StatePlayerDefeated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSceneActive:
		return "SceneActive"
	case StatePlayerDefeated:
		return "PlayerDefeated"
	default:
		return "Unknown"
	}
}

// Loader fetches explorations by id.
type Loader interface {
	LoadExploration(ctx context.Context, id int) (*models.Exploration, error)
}

// Display is what the session is currently showing.
type Display struct {
	Name    string
	Text    string
	Choices []models.SlotInteractionChoice
}

// CheckReport describes the last resolved attribute check.
type CheckReport struct {
	Name      string
	Attribute player.Attribute
	Threshold int
	Result    check.Result
	Damage    int
	HP        int
}

// Options configures a Session. Zero fields get defaults: a crypto-seeded
// roller, a discarding sink and logger, DefaultLoadTimeout, and
// dice.DefaultNotation.
type Options struct {
	Loader      Loader
	Roller      check.Roller
	Sink        notify.Sink
	Logger      *log.Logger
	LoadTimeout time.Duration
	Notation    string
}

// Session owns one player's progress through an exploration. It is not
// safe for concurrent use; callers dispatch one interaction at a time.
type Session struct {
	ID string

	loader      Loader
	roller      check.Roller
	sink        notify.Sink
	logger      *log.Logger
	loadTimeout time.Duration
	notation    string

	player      *player.Player
	exploration *models.Exploration
	scene       *models.Scene
	layer       int
	slot        int
	state       State

	display      Display
	pending      []models.SlotInteractionChoice
	pendingDepth int
	lastCheck    *CheckReport
}

// NewSession returns an Idle session for p.
func NewSession(p *player.Player, opts Options) (*Session, error) {
	if p == nil {
		return nil, errors.New("player is required")
	}
	s := &Session{
		ID:          uuid.NewString(),
		loader:      opts.Loader,
		roller:      opts.Roller,
		sink:        opts.Sink,
		logger:      opts.Logger,
		loadTimeout: opts.LoadTimeout,
		notation:    opts.Notation,
		player:      p,
		layer:       -1,
		slot:        -1,
	}
	if s.roller == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		s.roller = dice.NewSeededRoller(seed)
	}
	if s.sink == nil {
		s.sink = notify.Discard{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.loadTimeout <= 0 {
		s.loadTimeout = DefaultLoadTimeout
	}
	if s.notation == "" {
		s.notation = dice.DefaultNotation
	}
	if !p.Alive() {
		s.state = StatePlayerDefeated
	}
	return s, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Player returns the session's player.
func (s *Session) Player() *player.Player { return s.player }

// Exploration returns the loaded exploration, if any.
func (s *Session) Exploration() *models.Exploration { return s.exploration }

// Scene returns the current scene, if any.
func (s *Session) Scene() *models.Scene { return s.scene }

// Position returns the layer and index of the last used slot, or -1s.
func (s *Session) Position() (layer, index int) { return s.layer, s.slot }

// Display returns what the session is showing.
func (s *Session) Display() Display { return s.display }

// Pending returns the choices awaiting Choose.
func (s *Session) Pending() []models.SlotInteractionChoice { return s.pending }

// LastCheck returns the most recent check, or nil.
func (s *Session) LastCheck() *CheckReport { return s.lastCheck }

// Start loads an exploration and enters its first scene.
func (s *Session) Start(ctx context.Context, explorationID int) error {
	if err := s.navExploration(ctx, explorationID); err != nil {
		return s.fail(err)
	}
	return nil
}

// Open enters the first scene of an already loaded exploration.
func (s *Session) Open(e *models.Exploration) error {
	if err := s.enter(e); err != nil {
		return s.fail(err)
	}
	return nil
}

// Reset gives the session a new player and returns it to the first scene.
// It is the only way out of StatePlayerDefeated.
func (s *Session) Reset(p *player.Player) {
	if p != nil {
		s.player = p
	}
	s.display = Display{}
	s.clearPending()
	s.lastCheck = nil
	s.layer, s.slot = -1, -1
	s.state = StateIdle
	if s.exploration != nil {
		if first, ok := s.exploration.FirstScene(); ok {
			s.scene = first
			s.state = StateSceneActive
		}
	}
	if !s.player.Alive() {
		s.state = StatePlayerDefeated
	}
}

// Interact uses the slot at index in layer of the current scene.
func (s *Session) Interact(ctx context.Context, layer, index int) error {
	if err := s.guard(); err != nil {
		return s.fail(err)
	}
	if s.scene == nil {
		return s.fail(newError(KindState, "No scene is active", nil))
	}
	slot, ok := s.scene.Slot(layer, index)
	if !ok {
		return s.fail(newError(KindNotFound, "Slot not found", nil))
	}
	s.layer, s.slot = layer, index
	if err := s.dispatch(ctx, slot.Name, slot.Action, slot.Data, 0); err != nil {
		return s.fail(err)
	}
	return nil
}

// Dispatch resolves a top-level action outside of any slot.
func (s *Session) Dispatch(ctx context.Context, name string, action models.SlotAction, data models.SlotInteractionData) error {
	if err := s.dispatch(ctx, name, action, data, 0); err != nil {
		return s.fail(err)
	}
	return nil
}

// Choose selects pending choice i and resolves its action one level deeper
// than the CHOICE that offered it.
func (s *Session) Choose(ctx context.Context, i int) error {
	if len(s.pending) == 0 {
		return s.fail(newError(KindState, "There is nothing to choose", nil))
	}
	if i < 0 || i >= len(s.pending) {
		return s.fail(newError(KindValidation, fmt.Sprintf("Choice %d does not exist", i+1), nil))
	}
	choice, depth := s.pending[i], s.pendingDepth+1
	s.clearPending()
	if err := s.dispatch(ctx, choice.Text, choice.Action, choice.Data, depth); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context, name string, action models.SlotAction, data models.SlotInteractionData, depth int) *Error {
	if depth >= models.MaxChoiceDepth {
		return newError(KindValidation, "This choice is nested too deeply", models.ErrTooDeep)
	}
	if err := s.guard(); err != nil {
		return err
	}

	switch action {
	case models.ActionNavScene:
		next, ok := s.sceneFor(data.Target)
		if !ok {
			return newError(KindNotFound, "Scene not found", models.ErrNotFound)
		}
		s.scene = next
		s.state = StateSceneActive
		s.layer, s.slot = -1, -1
		s.display = Display{}
		s.clearPending()
		return nil

	case models.ActionNavExploration:
		return s.navExploration(ctx, data.Target)

	case models.ActionShowText:
		s.clearPending()
		s.display = Display{Name: name, Text: data.Text}
		return nil

	case models.ActionChoice:
		if len(data.Choices) == 0 {
			return newError(KindValidation, "This choice has no options", models.ErrInvalidSlot)
		}
		s.display = Display{Name: name, Text: data.Text, Choices: data.Choices}
		s.pending = data.Choices
		s.pendingDepth = depth
		return nil

	case models.ActionCheckAttr:
		return s.checkAttr(ctx, name, data, depth)

	case models.ActionHitPlayer, models.ActionHitTarget:
		s.logger.Printf("session %s: unhandled attack action %s on %q", s.ID, action, name)
		s.dropChoices()
		return nil

	default:
		s.logger.Printf("session %s: unhandled slot action %q on %q", s.ID, action, name)
		s.dropChoices()
		return nil
	}
}

func (s *Session) checkAttr(ctx context.Context, name string, data models.SlotInteractionData, depth int) *Error {
	attr := player.Attribute(data.Text)
	res, err := check.RollForTarget(s.roller, check.Request{
		Threshold: data.Target,
		Attribute: attr,
		Player:    s.player,
		Notation:  s.notation,
	})
	switch {
	case errors.Is(err, check.ErrPlayerDefeated):
		return s.defeatedError()
	case errors.Is(err, check.ErrUnknownAttribute):
		return newError(KindValidation, fmt.Sprintf("Check needs an attribute, got %q", data.Text), err)
	case err != nil:
		return newError(KindValidation, "Check could not be rolled", err)
	}

	report := &CheckReport{Name: name, Attribute: attr, Threshold: data.Target, Result: res}
	key := models.OutcomeSuccess
	if !res.Pass {
		key = models.OutcomeFailure
		before := s.player.HP
		report.Damage = before - s.player.TakeDamage(res.Diff)
	}
	report.HP = s.player.HP
	s.lastCheck = report

	pName := s.player.DisplayName()
	s.sink.Notify(fmt.Sprintf("%s %s with %d vs %d %s", pName, key, res.Roll, res.Difficulty, attr), StatusNoteID, false)

	outcome, ok := data.Outcome(key)
	if !s.player.Alive() {
		s.state = StatePlayerDefeated
		s.clearPending()
		s.display = Display{
			Name: fmt.Sprintf("Check %s %s", attr, key),
			Text: fmt.Sprintf("You take %d damage! Your %s is dead.", report.Damage, pName),
		}
		// Authored failure text still narrates the death; nothing else runs.
		if ok && outcome.Action == models.ActionShowText && depth+1 < models.MaxChoiceDepth {
			s.display = Display{Name: name, Text: strings.TrimSpace(outcome.Data.Text + " " + s.display.Text)}
		}
		s.sink.Error(fmt.Sprintf("Your %s is dead", pName), StatusNoteID)
		return nil
	}

	if !ok || outcome.Action == "" || outcome.Action == models.ActionNone {
		s.clearPending()
		s.display = Display{
			Name: fmt.Sprintf("Check %s %s", attr, key),
			Text: rollNarrative(pName, report),
		}
		return nil
	}

	if outcome.Action == models.ActionHitPlayer || outcome.Action == models.ActionHitTarget {
		return s.hit(ctx, name, outcome.Action, res.Diff, depth+1)
	}
	return s.dispatch(ctx, name, outcome.Action, outcome.Data, depth+1)
}

// hit resolves an attack produced by a check outcome. Attacks have no rules
// yet: the magnitude is reported and nothing else changes.
func (s *Session) hit(_ context.Context, name string, action models.SlotAction, magnitude int, depth int) *Error {
	if depth >= models.MaxChoiceDepth {
		return newError(KindValidation, "This choice is nested too deeply", models.ErrTooDeep)
	}
	if magnitude < 0 {
		magnitude = -magnitude
	}
	s.logger.Printf("session %s: attack action %s (%d) from %q is not implemented", s.ID, action, magnitude, name)
	s.clearPending()
	s.display = Display{Name: fmt.Sprintf("%s %s", name, action), Text: fmt.Sprintf("Attack for %d", magnitude)}
	return nil
}

func rollNarrative(pName string, r *CheckReport) string {
	text := fmt.Sprintf("%s rolled %d against %d.", pName, r.Result.Roll, r.Result.Difficulty)
	if r.Damage > 0 {
		text += fmt.Sprintf(" You take %d damage!", r.Damage)
	}
	return text
}

func (s *Session) navExploration(ctx context.Context, id int) *Error {
	if id <= 0 {
		return newError(KindNotFound, "Exploration not found", models.ErrNotFound)
	}
	if s.loader == nil {
		return newError(KindExternalLoad, "Explorations cannot be loaded", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()
	e, err := s.loader.LoadExploration(ctx, id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return newError(KindNotFound, "Exploration not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindExternalLoad, "Exploration took too long to load", err)
	case err != nil:
		return newError(KindExternalLoad, "Exploration could not be loaded", err)
	case e == nil:
		return newError(KindNotFound, "Exploration not found", models.ErrNotFound)
	}
	return s.enter(e)
}

func (s *Session) enter(e *models.Exploration) *Error {
	if e == nil {
		return newError(KindNotFound, "Exploration not found", models.ErrNotFound)
	}
	first, ok := e.FirstScene()
	if !ok {
		return newError(KindNotFound, fmt.Sprintf("%q has no scenes", e.Title), models.ErrNotFound)
	}
	s.exploration = e
	s.scene = first
	s.layer, s.slot = -1, -1
	s.display = Display{}
	s.clearPending()
	if s.state != StatePlayerDefeated {
		s.state = StateSceneActive
	}
	return nil
}

func (s *Session) sceneFor(id int) (*models.Scene, bool) {
	if s.exploration == nil || id <= 0 {
		return nil, false
	}
	return s.exploration.Scene(id)
}

func (s *Session) guard() *Error {
	if s.state == StatePlayerDefeated || !s.player.Alive() {
		s.state = StatePlayerDefeated
		return s.defeatedError()
	}
	return nil
}

func (s *Session) defeatedError() *Error {
	return newError(KindState, fmt.Sprintf("Your %s is dead", s.player.DisplayName()), check.ErrPlayerDefeated)
}

func (s *Session) clearPending() {
	s.pending = nil
	s.pendingDepth = 0
}

// dropChoices ends any pending choice without replacing the display text.
func (s *Session) dropChoices() {
	s.clearPending()
	s.display.Choices = nil
}

// fail reports err to the sink and hands it back to the caller.
func (s *Session) fail(err *Error) error {
	id := 0
	if err.Kind == KindState {
		id = StatusNoteID
	}
	s.sink.Error(err.Message, id)
	if err.Cause != nil {
		s.logger.Printf("session %s: %s error: %s: %v", s.ID, err.Kind, err.Message, err.Cause)
	} else {
		s.logger.Printf("session %s: %s error: %s", s.ID, err.Kind, err.Message)
	}
	return err
}
