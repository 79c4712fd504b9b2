package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDir is where the file store keeps explorations.
const DefaultSaveDir = ".saves"

// ErrNotFound indicates a missing exploration or scene.
var ErrNotFound = errors.New("not found")

// Summary is a listing entry for an exploration.
type Summary struct {
	ID          int
	Title       string
	Description string
	Public      bool
	Scenes      int
}

// Store persists explorations and their scenes.
type Store interface {
	LoadExploration(ctx context.Context, id int) (*Exploration, error)
	SaveExploration(ctx context.Context, e *Exploration) error
	SaveExplorationScene(ctx context.Context, scene Scene) (Scene, error)
	ListExplorations(ctx context.Context) ([]Summary, error)
	Close() error
}

// FileStore keeps one YAML file per exploration under Dir/explorations.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir, or DefaultSaveDir when empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &FileStore{Dir: dir}
}

func (s *FileStore) root() string {
	return filepath.Join(s.Dir, "explorations")
}

func (s *FileStore) path(id int) string {
	return filepath.Join(s.root(), strconv.Itoa(id)+".yaml")
}

// LoadExploration reads the exploration with id.
func (s *FileStore) LoadExploration(ctx context.Context, id int) (*Exploration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("exploration %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var e Exploration
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode exploration %d: %w", id, err)
	}
	return &e, nil
}

// SaveExploration validates and writes e, assigning ids to the exploration
// and any scene without one.
func (s *FileStore) SaveExploration(ctx context.Context, e *Exploration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.AssignSceneIDs()
	if err := e.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root(), 0755); err != nil {
		return err
	}
	if e.ID == 0 {
		id, err := s.nextID()
		if err != nil {
			return err
		}
		e.ID = id
	}
	for i := range e.Scenes {
		e.Scenes[i].ExplorationID = e.ID
	}

	data, err := yaml.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(e.ID), data, 0644)
}

// SaveExplorationScene validates, prunes and stores one scene inside its
// exploration, assigning a scene id when it has none.
func (s *FileStore) SaveExplorationScene(ctx context.Context, scene Scene) (Scene, error) {
	if err := scene.Validate(); err != nil {
		return Scene{}, err
	}
	e, err := s.LoadExploration(ctx, scene.ExplorationID)
	if err != nil {
		return Scene{}, err
	}
	scene = PruneScene(scene)
	if scene.ID == 0 {
		scene.ID = e.NextSceneID()
	}
	e.UpsertScene(scene)
	if err := s.SaveExploration(ctx, e); err != nil {
		return Scene{}, err
	}
	return scene, nil
}

// ListExplorations returns a summary per stored exploration, by id.
func (s *FileStore) ListExplorations(ctx context.Context) ([]Summary, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		e, err := s.LoadExploration(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Public:      e.Public,
			Scenes:      len(e.Scenes),
		})
	}
	return summaries, nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) ids() ([]int, error) {
	entries, err := os.ReadDir(s.root())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".yaml")
		if entry.IsDir() || !ok {
			continue
		}
		if id, err := strconv.Atoi(name); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *FileStore) nextID() (int, error) {
	ids, err := s.ids()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 1, nil
	}
	return ids[len(ids)-1] + 1, nil
}

// DecodeExploration parses an exploration from YAML.
func DecodeExploration(data []byte) (*Exploration, error) {
	var e Exploration
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode exploration: %w", err)
	}
	return &e, nil
}
