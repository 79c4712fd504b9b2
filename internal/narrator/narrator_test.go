package narrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/explorations/internal/models"
)

type fakeModel struct {
	reply  *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if text, ok := parts[0].(genai.Text); ok {
			f.prompt = string(text)
		}
	}
	return f.reply, f.err
}

func textReply(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(s)}},
		}},
	}
}

const draftYAML = "```yaml\n" + `title: Salt Mine
description: Tunnels under the flats.
scenes:
  - id: 1
    title: Shaft
    order: 0
    layers:
      - - index: 0
          name: Climb down
          action: CHECK_ATTR
          data:
            text: Physical
            target: 9
            choices:
              - text: Success
                action: NAV_SCENE
                data:
                  target: 2
              - text: Failure
                action: SHOW_TEXT
                data:
                  text: The rope burns your palms.
                  target: 12
  - id: 2
    title: Gallery
    order: 1
` + "```"

func TestCleanYAML(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"```yaml\ntitle: x\n```": "title: x",
		"```\ntitle: x\n```":     "title: x",
		"  title: x  ":           "title: x",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanYAML(in), in)
	}
}

func TestDraftExploration(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: textReply(draftYAML)}
	n := &Narrator{model: model}

	e, err := n.DraftExploration(context.Background(), "salt and silence")
	require.NoError(t, err)
	assert.Equal(t, "Salt Mine", e.Title)
	require.Len(t, e.Scenes, 2)
	assert.Zero(t, e.ID)

	slot, ok := e.Scenes[0].Slot(0, 0)
	require.True(t, ok)
	failure, ok := slot.Data.Outcome(models.OutcomeFailure)
	require.True(t, ok)
	assert.Zero(t, failure.Data.Target, "SHOW_TEXT target is pruned")

	assert.Contains(t, model.prompt, "salt and silence")
	assert.Contains(t, model.prompt, "Simple 3")
	assert.Contains(t, model.prompt, "Write an exploration with 3 scenes")
}

func TestDraftExplorationRejectsUnplayable(t *testing.T) {
	t.Parallel()

	reply := textReply("title: Broken\nscenes:\n  - id: 1\n    layers:\n      - - index: 0\n          action: CHECK_ATTR\n          data:\n            text: Luck\n")
	n := &Narrator{model: &fakeModel{reply: reply}}

	_, err := n.DraftExploration(context.Background(), "")
	assert.ErrorContains(t, err, "draft is not playable")
}

func TestDraftExplorationBadYAML(t *testing.T) {
	t.Parallel()

	n := &Narrator{model: &fakeModel{reply: textReply("title: [unterminated")}}
	_, err := n.DraftExploration(context.Background(), "")
	assert.ErrorContains(t, err, "Output was")
}

func TestWritingPrompt(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: textReply("  A lighthouse keeps a secret.\n")}
	n := &Narrator{model: model}

	got, err := n.WritingPrompt(context.Background(), "lighthouse")
	require.NoError(t, err)
	assert.Equal(t, "A lighthouse keeps a secret.", got)
	assert.Contains(t, model.prompt, "The author offered this hint: lighthouse")

	_, err = n.WritingPrompt(context.Background(), "")
	require.NoError(t, err)
	assert.NotContains(t, model.prompt, "hint:")
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota")
	_, err := (&Narrator{model: &fakeModel{err: boom}}).WritingPrompt(context.Background(), "")
	assert.ErrorIs(t, err, boom)

	_, err = (&Narrator{model: &fakeModel{reply: &genai.GenerateContentResponse{}}}).WritingPrompt(context.Background(), "")
	assert.ErrorContains(t, err, "no content")
}
