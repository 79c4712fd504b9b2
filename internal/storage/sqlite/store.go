// Package sqlite provides a SQLite-backed exploration store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/storage/sqlite/migrations"
)

// Store persists explorations in SQLite. Scene layers are kept as YAML in a
// single column.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ models.Store = (*Store)(nil)

// Open opens a SQLite exploration store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadExploration reads an exploration and its scenes.
func (s *Store) LoadExploration(ctx context.Context, id int) (*models.Exploration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		e      models.Exploration
		public int
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, world_id, title, description, public FROM explorations WHERE id = ?`, id,
	).Scan(&e.ID, &e.WorldID, &e.Title, &e.Description, &public)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exploration %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exploration %d: %w", id, err)
	}
	e.Public = public != 0

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, title, description, scene_order, layers FROM exploration_scenes
		 WHERE exploration_id = ? ORDER BY scene_order, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list scenes for exploration %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		scene := models.Scene{ExplorationID: e.ID}
		var layers string
		if err := rows.Scan(&scene.ID, &scene.Title, &scene.Description, &scene.Order, &layers); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		if err := yaml.Unmarshal([]byte(layers), &scene.Layers); err != nil {
			return nil, fmt.Errorf("decode scene %d layers: %w", scene.ID, err)
		}
		e.Scenes = append(e.Scenes, scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenes: %w", err)
	}
	return &e, nil
}

// SaveExploration writes e and replaces its scenes, assigning ids to the
// exploration and any scene without one.
func (s *Store) SaveExploration(ctx context.Context, e *models.Exploration) error {
	e.AssignSceneIDs()
	if err := e.Validate(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	public := 0
	if e.Public {
		public = 1
	}
	updatedAt := s.now().UTC().UnixMilli()
	if e.ID == 0 {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO explorations (world_id, title, description, public, updated_at) VALUES (?, ?, ?, ?, ?)`,
			e.WorldID, e.Title, e.Description, public, updatedAt)
		if err != nil {
			return fmt.Errorf("insert exploration: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("exploration id: %w", err)
		}
		e.ID = int(id)
	} else {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO explorations (id, world_id, title, description, public, updated_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET world_id = excluded.world_id, title = excluded.title,
			 description = excluded.description, public = excluded.public, updated_at = excluded.updated_at`,
			e.ID, e.WorldID, e.Title, e.Description, public, updatedAt)
		if err != nil {
			return fmt.Errorf("upsert exploration %d: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exploration_scenes WHERE exploration_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clear scenes: %w", err)
	}
	for i := range e.Scenes {
		scene := &e.Scenes[i]
		scene.ExplorationID = e.ID
		if err := putScene(ctx, tx, *scene); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveExplorationScene validates, prunes and upserts one scene.
func (s *Store) SaveExplorationScene(ctx context.Context, scene models.Scene) (models.Scene, error) {
	if err := scene.Validate(); err != nil {
		return models.Scene{}, err
	}
	scene = models.PruneScene(scene)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return models.Scene{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM explorations WHERE id = ?`, scene.ExplorationID).Scan(&exists); err != nil {
		return models.Scene{}, fmt.Errorf("check exploration: %w", err)
	}
	if exists == 0 {
		return models.Scene{}, fmt.Errorf("exploration %d: %w", scene.ExplorationID, models.ErrNotFound)
	}
	if scene.ID == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(id), 0) + 1 FROM exploration_scenes WHERE exploration_id = ?`, scene.ExplorationID,
		).Scan(&scene.ID); err != nil {
			return models.Scene{}, fmt.Errorf("next scene id: %w", err)
		}
	}
	if err := putScene(ctx, tx, scene); err != nil {
		return models.Scene{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE explorations SET updated_at = ? WHERE id = ?`,
		s.now().UTC().UnixMilli(), scene.ExplorationID); err != nil {
		return models.Scene{}, fmt.Errorf("touch exploration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Scene{}, err
	}
	return scene, nil
}

// ListExplorations returns a summary per exploration, by id.
func (s *Store) ListExplorations(ctx context.Context) ([]models.Summary, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT e.id, e.title, e.description, e.public, COUNT(sc.id)
		 FROM explorations e LEFT JOIN exploration_scenes sc ON sc.exploration_id = e.id
		 GROUP BY e.id ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("list explorations: %w", err)
	}
	defer rows.Close()

	var out []models.Summary
	for rows.Next() {
		var (
			sum    models.Summary
			public int
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Description, &public, &sum.Scenes); err != nil {
			return nil, fmt.Errorf("scan exploration: %w", err)
		}
		sum.Public = public != 0
		out = append(out, sum)
	}
	return out, rows.Err()
}

func putScene(ctx context.Context, tx *sql.Tx, scene models.Scene) error {
	layers, err := yaml.Marshal(scene.Layers)
	if err != nil {
		return fmt.Errorf("encode scene %d layers: %w", scene.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO exploration_scenes (exploration_id, id, title, description, scene_order, layers)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(exploration_id, id) DO UPDATE SET title = excluded.title,
		 description = excluded.description, scene_order = excluded.scene_order, layers = excluded.layers`,
		scene.ExplorationID, scene.ID, scene.Title, scene.Description, scene.Order, string(layers))
	if err != nil {
		return fmt.Errorf("put scene %d: %w", scene.ID, err)
	}
	return nil
}
