package models

import (
	"sort"
)

// SlotAction tags what happens when a slot is used.
type SlotAction string

const (
	ActionNone           SlotAction = "NONE"
	ActionNavScene       SlotAction = "NAV_SCENE"
	ActionNavExploration SlotAction = "NAV_EXPLORATION"
	ActionShowText       SlotAction = "SHOW_TEXT"
	ActionChoice         SlotAction = "CHOICE"
	ActionCheckAttr      SlotAction = "CHECK_ATTR"
	ActionHitPlayer      SlotAction = "HIT_PLAYER"
	ActionHitTarget      SlotAction = "HIT_TARGET"
)

// Known reports whether a is one of the defined actions.
func (a SlotAction) Known() bool {
	switch a {
	case ActionNone, ActionNavScene, ActionNavExploration, ActionShowText,
		ActionChoice, ActionCheckAttr, ActionHitPlayer, ActionHitTarget:
		return true
	}
	return false
}

// Branching reports whether a carries a choices list.
func (a SlotAction) Branching() bool {
	return a == ActionChoice || a == ActionCheckAttr
}

// Outcome labels for the two CHECK_ATTR choices.
const (
	OutcomeSuccess = "Success"
	OutcomeFailure = "Failure"
)

// MaxChoiceDepth bounds how deeply choices may nest. A top-level slot is at
// depth 0, so actions at depth MaxChoiceDepth or deeper are never evaluated.
const MaxChoiceDepth = 4

// SlotInteractionData is the action payload. Text is the shown text, the
// checked attribute, or a target's title; Target is a scene id, an
// exploration id, or a check difficulty.
type SlotInteractionData struct {
	Text    string                  `yaml:"text,omitempty"`
	Target  int                     `yaml:"target,omitempty"`
	Choices []SlotInteractionChoice `yaml:"choices,omitempty"`
}

// Depth returns how many levels of choices hang below d.
func (d SlotInteractionData) Depth() int {
	deepest := 0
	for _, c := range d.Choices {
		if n := 1 + c.Data.Depth(); n > deepest {
			deepest = n
		}
	}
	return deepest
}

// Outcome returns the choice labelled text, as used for check outcomes.
func (d SlotInteractionData) Outcome(text string) (SlotInteractionChoice, bool) {
	for _, c := range d.Choices {
		if c.Text == text {
			return c, true
		}
	}
	return SlotInteractionChoice{}, false
}

// SlotInteractionChoice is one option of a CHOICE or CHECK_ATTR slot.
type SlotInteractionChoice struct {
	Text   string              `yaml:"text"`
	Action SlotAction          `yaml:"action"`
	Data   SlotInteractionData `yaml:"data,omitempty"`
}

// InteractiveSlot is one clickable element in a scene layer.
type InteractiveSlot struct {
	Index  int                 `yaml:"index"`
	Name   string              `yaml:"name"`
	Action SlotAction          `yaml:"action"`
	Data   SlotInteractionData `yaml:"data,omitempty"`
}

// Layer is an ordered list of slots.
type Layer []InteractiveSlot

// Scene is one screen of an exploration.
type Scene struct {
	ID            int     `yaml:"id"`
	ExplorationID int     `yaml:"exploration_id"`
	Title         string  `yaml:"title"`
	Description   string  `yaml:"description,omitempty"`
	Order         int     `yaml:"order"`
	Layers        []Layer `yaml:"layers"`
}

// Slot returns the slot with the given index in a layer.
func (s *Scene) Slot(layer, index int) (*InteractiveSlot, bool) {
	if layer < 0 || layer >= len(s.Layers) {
		return nil, false
	}
	for i := range s.Layers[layer] {
		if s.Layers[layer][i].Index == index {
			return &s.Layers[layer][i], true
		}
	}
	return nil, false
}

// UpsertSlot replaces the slot with the same index in layer, or appends it.
// Missing layers are created.
func (s *Scene) UpsertSlot(layer int, slot InteractiveSlot) {
	for len(s.Layers) <= layer {
		s.Layers = append(s.Layers, Layer{})
	}
	for i := range s.Layers[layer] {
		if s.Layers[layer][i].Index == slot.Index {
			s.Layers[layer][i] = slot
			return
		}
	}
	s.Layers[layer] = append(s.Layers[layer], slot)
}

// RemoveSlot deletes the slot with index from layer and reports whether it
// existed.
func (s *Scene) RemoveSlot(layer, index int) bool {
	if layer < 0 || layer >= len(s.Layers) {
		return false
	}
	for i, slot := range s.Layers[layer] {
		if slot.Index == index {
			s.Layers[layer] = append(s.Layers[layer][:i], s.Layers[layer][i+1:]...)
			return true
		}
	}
	return false
}

// Exploration is a branching set of scenes.
type Exploration struct {
	ID          int     `yaml:"id"`
	WorldID     int     `yaml:"world_id,omitempty"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Public      bool    `yaml:"public"`
	Scenes      []Scene `yaml:"scenes"`
}

// Scene returns the scene with id.
func (e *Exploration) Scene(id int) (*Scene, bool) {
	for i := range e.Scenes {
		if e.Scenes[i].ID == id {
			return &e.Scenes[i], true
		}
	}
	return nil, false
}

// FirstScene returns the scene with the lowest Order.
func (e *Exploration) FirstScene() (*Scene, bool) {
	if len(e.Scenes) == 0 {
		return nil, false
	}
	first := &e.Scenes[0]
	for i := range e.Scenes[1:] {
		if e.Scenes[i+1].Order < first.Order {
			first = &e.Scenes[i+1]
		}
	}
	return first, true
}

// UpsertScene replaces the scene with the same id or appends it, keeping
// scenes sorted by Order.
func (e *Exploration) UpsertScene(scene Scene) {
	scene.ExplorationID = e.ID
	replaced := false
	for i := range e.Scenes {
		if e.Scenes[i].ID == scene.ID {
			e.Scenes[i] = scene
			replaced = true
			break
		}
	}
	if !replaced {
		e.Scenes = append(e.Scenes, scene)
	}
	sort.SliceStable(e.Scenes, func(i, j int) bool {
		return e.Scenes[i].Order < e.Scenes[j].Order
	})
}

// NextSceneID returns an id one above the highest in use.
func (e *Exploration) NextSceneID() int {
	next := 1
	for _, s := range e.Scenes {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

// AssignSceneIDs gives every scene without an id the next free one, in
// slice order.
func (e *Exploration) AssignSceneIDs() {
	next := e.NextSceneID()
	for i := range e.Scenes {
		if e.Scenes[i].ID == 0 {
			e.Scenes[i].ID = next
			next++
		}
	}
}
