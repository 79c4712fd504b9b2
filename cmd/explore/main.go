// Command explore plays, seeds, imports and drafts explorations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tatianab/explorations/internal/config"
	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/narrator"
	"github.com/tatianab/explorations/internal/random"
	"github.com/tatianab/explorations/internal/storage"
	"github.com/tatianab/explorations/internal/tui"
)

const usage = `usage: explore <command> [flags]

commands:
  play              play an exploration in the terminal
  list              list stored explorations
  seed              store the demo exploration
  import <file>     validate and store an exploration YAML file
  draft -hint text  draft an exploration with Gemini and store it
  prompt -hint text ask Gemini for a writing prompt
  roll [notation]   roll dice, e.g. 3d10+2
`

var errUsage = errors.New("invalid usage")

func main() {
	log.SetPrefix("[explore] ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch cmd {
	case "roll":
		return roll(cfg, args, out)
	case "prompt":
		return prompt(ctx, cfg, args, out)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	switch cmd {
	case "play":
		return tui.Run(ctx, cfg, store)
	case "list":
		return list(ctx, store, out)
	case "seed":
		return seed(ctx, store, out)
	case "import":
		return importFile(ctx, store, args, out)
	case "draft":
		return draft(ctx, cfg, store, args, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func roll(cfg *config.Config, args []string, out io.Writer) error {
	notation := cfg.DiceNotation
	if len(args) > 0 {
		notation = strings.Join(args, "")
	}
	n, err := dice.Parse(notation)
	if err != nil {
		return err
	}
	src, err := random.NewSource(cfg.Seed)
	if err != nil {
		return err
	}
	result := dice.NewRoller(src).RollNotation(n)
	fmt.Fprintf(out, "%s: %v = %d\n", result.Notation, result.Results, result.Total)
	return nil
}

func list(ctx context.Context, store models.Store, out io.Writer) error {
	summaries, err := store.ListExplorations(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No explorations stored. Run `explore seed` to add the demo.")
		return nil
	}
	for _, s := range summaries {
		visibility := "private"
		if s.Public {
			visibility = "public"
		}
		fmt.Fprintf(out, "%d\t%s\t%d scenes\t%s\n", s.ID, s.Title, s.Scenes, visibility)
	}
	return nil
}

func seed(ctx context.Context, store models.Store, out io.Writer) error {
	seeded, err := storage.SeedDemo(ctx, store)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Fprintln(out, "Store already has explorations; demo not added.")
		return nil
	}
	fmt.Fprintln(out, "Added the demo exploration.")
	return nil
}

func importFile(ctx context.Context, store models.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	keepID := fs.Bool("keep-id", false, "keep the id in the file instead of assigning a new one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import needs one file", errUsage)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	e, err := models.DecodeExploration(data)
	if err != nil {
		return err
	}
	if !*keepID {
		e.ID = 0
	}
	for i := range e.Scenes {
		e.Scenes[i] = models.PruneScene(e.Scenes[i])
	}
	if err := store.SaveExploration(ctx, e); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %q as exploration %d.\n", e.Title, e.ID)
	return nil
}

func draft(ctx context.Context, cfg *config.Config, store models.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("draft", flag.ContinueOnError)
	hint := fs.String("hint", "", "idea to build the exploration around")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openNarrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	e, err := n.DraftExploration(ctx, *hint)
	if err != nil {
		return err
	}
	if err := store.SaveExploration(ctx, e); err != nil {
		return err
	}
	fmt.Fprintf(out, "Drafted %q as exploration %d with %d scenes.\n", e.Title, e.ID, len(e.Scenes))
	return nil
}

func prompt(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	hint := fs.String("hint", "", "optional theme")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openNarrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	text, err := n.WritingPrompt(ctx, *hint)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

func openNarrator(ctx context.Context, cfg *config.Config) (*narrator.Narrator, error) {
	if err := cfg.RequireGemini(); err != nil {
		return nil, err
	}
	return narrator.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}
