package models

import (
	"errors"
	"fmt"

	"github.com/tatianab/explorations/internal/player"
)

// ErrTooDeep indicates a choice tree nests beyond MaxChoiceDepth.
var ErrTooDeep = errors.New("choices nested too deeply")

// ErrInvalidSlot indicates malformed slot data.
var ErrInvalidSlot = errors.New("invalid slot")

// ValidateAction checks one action payload found at depth.
func ValidateAction(action SlotAction, data SlotInteractionData, depth int) error {
	if depth >= MaxChoiceDepth {
		return fmt.Errorf("%w: %s at depth %d", ErrTooDeep, action, depth)
	}

	switch action {
	case ActionNavScene, ActionNavExploration:
		if data.Target <= 0 {
			return fmt.Errorf("%w: %s needs a target", ErrInvalidSlot, action)
		}
	case ActionCheckAttr:
		if !player.Attribute(data.Text).Valid() {
			return fmt.Errorf("%w: CHECK_ATTR needs an attribute, got %q", ErrInvalidSlot, data.Text)
		}
		for _, c := range data.Choices {
			if c.Text != OutcomeSuccess && c.Text != OutcomeFailure {
				return fmt.Errorf("%w: CHECK_ATTR outcome %q is not %s or %s", ErrInvalidSlot, c.Text, OutcomeSuccess, OutcomeFailure)
			}
		}
	case ActionChoice:
		if len(data.Choices) == 0 {
			return fmt.Errorf("%w: CHOICE needs at least one choice", ErrInvalidSlot)
		}
	case ActionNone, ActionShowText, ActionHitPlayer, ActionHitTarget:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidSlot, action)
	}

	for i, c := range data.Choices {
		if err := ValidateAction(c.Action, c.Data, depth+1); err != nil {
			return fmt.Errorf("choice %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a slot and its nested choices.
func (s InteractiveSlot) Validate() error {
	if err := ValidateAction(s.Action, s.Data, 0); err != nil {
		return fmt.Errorf("slot %d %q: %w", s.Index, s.Name, err)
	}
	return nil
}

// Validate checks every slot in the scene.
func (s *Scene) Validate() error {
	for l, layer := range s.Layers {
		for _, slot := range layer {
			if err := slot.Validate(); err != nil {
				return fmt.Errorf("scene %d layer %d: %w", s.ID, l, err)
			}
		}
	}
	return nil
}

// Validate checks scenes and their ids.
func (e *Exploration) Validate() error {
	if e.Title == "" {
		return errors.New("exploration title is required")
	}
	seen := make(map[int]bool, len(e.Scenes))
	for i := range e.Scenes {
		s := &e.Scenes[i]
		if seen[s.ID] {
			return fmt.Errorf("duplicate scene id %d", s.ID)
		}
		seen[s.ID] = true
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Prune drops payload fields an action does not use, recursively, and
// returns the cleaned copy.
func Prune(action SlotAction, data SlotInteractionData) SlotInteractionData {
	if !action.Branching() {
		data.Choices = nil
	}
	switch action {
	case ActionNone:
		return SlotInteractionData{}
	case ActionShowText:
		data.Target = 0
	}
	if len(data.Choices) > 0 {
		choices := make([]SlotInteractionChoice, len(data.Choices))
		for i, c := range data.Choices {
			c.Data = Prune(c.Action, c.Data)
			choices[i] = c
		}
		data.Choices = choices
	}
	return data
}

// PruneScene returns a copy of s with every slot payload pruned.
func PruneScene(s Scene) Scene {
	layers := make([]Layer, len(s.Layers))
	for l, layer := range s.Layers {
		layers[l] = make(Layer, len(layer))
		for i, slot := range layer {
			slot.Data = Prune(slot.Action, slot.Data)
			layers[l][i] = slot
		}
	}
	s.Layers = layers
	return s
}
