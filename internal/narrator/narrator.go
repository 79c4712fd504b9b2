package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/player"
)

//go:embed prompts/writing_prompt.txt
var writingPromptText string

//go:embed prompts/draft_exploration.txt
var draftExplorationText string

var (
	writingPromptTmpl    = template.Must(template.New("writing_prompt").Parse(writingPromptText))
	draftExplorationTmpl = template.Must(template.New("draft_exploration").Parse(draftExplorationText))
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultDraftScenes is how many scenes a draft asks for.
const DefaultDraftScenes = 3

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Narrator writes prompts and exploration drafts with Gemini.
type Narrator struct {
	client *genai.Client
	model  generator
}

// New connects to Gemini with apiKey. An empty modelName uses DefaultModel.
func New(ctx context.Context, apiKey, modelName string) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Narrator{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close releases the client.
func (n *Narrator) Close() {
	if n.client != nil {
		n.client.Close()
	}
}

// WritingPrompt asks for a short prompt an author can build an exploration
// around.
func (n *Narrator) WritingPrompt(ctx context.Context, hint string) (string, error) {
	prompt, err := render(writingPromptTmpl, struct{ Hint string }{Hint: hint})
	if err != nil {
		return "", err
	}
	text, err := n.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// DraftExploration asks for a playable exploration and returns it validated
// and pruned, without an id.
func (n *Narrator) DraftExploration(ctx context.Context, hint string) (*models.Exploration, error) {
	prompt, err := render(draftExplorationTmpl, draftData{
		Hint:         hint,
		Scenes:       DefaultDraftScenes,
		MaxDepth:     models.MaxChoiceDepth,
		Difficulties: player.Difficulties,
	})
	if err != nil {
		return nil, err
	}
	text, err := n.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseDraft(text)
}

type draftData struct {
	Hint         string
	Scenes       int
	MaxDepth     int
	Difficulties []player.Difficulty
}

func (n *Narrator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseDraft(text string) (*models.Exploration, error) {
	raw := cleanYAML(text)
	e, err := models.DecodeExploration([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w\nOutput was: %s", err, raw)
	}
	e.ID = 0
	for i := range e.Scenes {
		e.Scenes[i].ExplorationID = 0
		e.Scenes[i] = models.PruneScene(e.Scenes[i])
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("draft is not playable: %w", err)
	}
	return e, nil
}

// cleanYAML strips the code fence models like to wrap YAML in.
func cleanYAML(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
