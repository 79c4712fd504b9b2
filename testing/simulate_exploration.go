package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tatianab/explorations/internal/config"
	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/engine"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/notify"
	"github.com/tatianab/explorations/internal/player"
	"github.com/tatianab/explorations/internal/random"
	"github.com/tatianab/explorations/internal/storage"
)

const maxTurns = 30

func main() {
	explorationID := flag.Int("exploration", 1, "exploration id to play")
	seed := flag.Int64("seed", 0, "random seed (0 = EXPLORE_SEED, then random)")
	turns := flag.Int("turns", maxTurns, "maximum interactions")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed == 0 {
		*seed = cfg.Seed
	}
	if *seed == 0 {
		if *seed, err = random.NewSeed(); err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
	}

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	if _, err := storage.SeedDemo(ctx, store); err != nil {
		log.Fatalf("Failed to seed demo: %v", err)
	}

	src := random.New(*seed)
	alerts := notify.NewCenter()
	alerts.OnChange(func(all []notify.Alert) {
		if len(all) == 0 {
			return
		}
		last := all[len(all)-1]
		if last.Error {
			fmt.Printf("  ! %s\n", last.Msg)
		} else {
			fmt.Printf("  * %s\n", last.Msg)
		}
	})

	p := player.New(src, "")
	session, err := engine.NewSession(p, engine.Options{
		Loader:      store,
		Roller:      dice.NewRoller(src),
		Sink:        alerts,
		Logger:      log.New(os.Stderr, "[simulate] ", 0),
		LoadTimeout: cfg.LoadTimeout,
		Notation:    cfg.DiceNotation,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	fmt.Printf("--- Seed %d: %s (%d HP) ---\n", *seed, p.DisplayName(), p.HP)
	if err := session.Start(ctx, *explorationID); err != nil {
		log.Fatalf("Failed to start exploration %d: %v", *explorationID, err)
	}
	fmt.Printf("Exploration: %s\n\n", session.Exploration().Title)

	for turn := 1; turn <= *turns; turn++ {
		if session.State() == engine.StatePlayerDefeated {
			fmt.Printf("\n--- Defeated after %d turns ---\n", turn-1)
			return
		}

		if pending := session.Pending(); len(pending) > 0 {
			i := src.Intn(len(pending))
			fmt.Printf("Turn %d: choose %q\n", turn, pending[i].Text)
			report(session, session.Choose(ctx, i))
			continue
		}

		scene := session.Scene()
		slot, ok := pickSlot(src, scene)
		if !ok {
			fmt.Printf("Scene %q has nothing to do.\n", scene.Title)
			return
		}
		fmt.Printf("Turn %d [%s]: %s\n", turn, scene.Title, slot.Name)
		layer := layerOf(scene, slot)
		report(session, session.Interact(ctx, layer, slot.Index))
	}
	fmt.Printf("\n--- Stopped after %d turns with %d HP ---\n", *turns, session.Player().HP)
}

func pickSlot(src random.Source, scene *models.Scene) (models.InteractiveSlot, bool) {
	var slots []models.InteractiveSlot
	for _, layer := range scene.Layers {
		slots = append(slots, layer...)
	}
	if len(slots) == 0 {
		return models.InteractiveSlot{}, false
	}
	return random.Pick(src, slots), true
}

func layerOf(scene *models.Scene, slot models.InteractiveSlot) int {
	for l, layer := range scene.Layers {
		for _, s := range layer {
			if s.Index == slot.Index && s.Name == slot.Name {
				return l
			}
		}
	}
	return 0
}

var lastSeen *engine.CheckReport

func report(session *engine.Session, err error) {
	var engineErr *engine.Error
	if errors.As(err, &engineErr) {
		fmt.Printf("  (%s) %s\n", engineErr.Kind, engineErr.Message)
		return
	}
	if err != nil {
		fmt.Printf("  error: %v\n", err)
		return
	}
	if c := session.LastCheck(); c != nil && c != lastSeen {
		lastSeen = c
		fmt.Printf("  check %s vs %d: roll %d, diff %d, HP %d\n", c.Attribute, c.Threshold, c.Result.Roll, c.Result.Diff, c.HP)
	}
	if d := session.Display(); d.Text != "" {
		fmt.Printf("  %s\n", d.Text)
	}
}
