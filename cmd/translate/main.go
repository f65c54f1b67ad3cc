package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-command/dispatcher"
	padel "github.com/goliatone/go-padel"
	"github.com/goliatone/go-padel/commands"
	"github.com/google/uuid"
)

var moduleBuilder = buildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runTranslate(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("translate: %v", err)
	}
}

func buildModule(configPath string) (*padel.Module, error) {
	cfg, err := padel.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return padel.New(cfg)
}

func runTranslate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("padel-translate", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a config file (yaml, json or toml); PADEL_* env vars apply on top")
	entityType := fs.String("type", "", "Entity type to translate: racket, guide, blog_post, brand or author")
	locales := fs.String("locales", "", "Comma separated target locales")
	ids := fs.String("ids", "", "Comma separated entity ids (defaults to every record of the type)")
	force := fs.Bool("force", false, "Overwrite existing overrides, manual edits included")
	dryRun := fs.Bool("dry-run", false, "Report what would be translated without calling the translator")
	maxChunk := fs.Int("max-chunk-chars", 0, "Chunk size for long HTML fields (defaults to config)")
	concurrency := fs.Int("concurrency", 0, "Concurrent translation workers (defaults to config)")
	retries := fs.Int("retries", 0, "Dispatcher retries for a failed run")

	if err := fs.Parse(args); err != nil {
		return err
	}

	entityIDs, err := parseIDs(*ids)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(*configPath)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	registration, err := commands.RegisterContainerCommands(module.Container(), commands.RegistrationOptions{
		Dispatcher: commands.Dispatcher{MaxRetries: *retries},
	})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	defer registration.Close()

	report := &padel.TranslationReport{}
	cmd := padel.TranslateEntitiesCommand{
		EntityType:    *entityType,
		Locales:       splitList(*locales),
		IDs:           entityIDs,
		Force:         *force,
		DryRun:        *dryRun,
		MaxChunkChars: *maxChunk,
		Concurrency:   *concurrency,
		Report:        report,
	}
	if err := dispatcher.Dispatch(ctx, cmd); err != nil {
		return fmt.Errorf("dispatch translate command: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func parseIDs(raw string) ([]uuid.UUID, error) {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
