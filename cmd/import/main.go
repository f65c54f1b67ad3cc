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
	"syscall"

	padel "github.com/goliatone/go-padel"
)

var moduleBuilder = buildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runImport(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func buildModule(configPath string) (*padel.Module, error) {
	cfg, err := padel.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return padel.New(cfg)
}

func runImport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("padel-import", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a config file (yaml, json or toml); PADEL_* env vars apply on top")
	directory := fs.String("dir", "", "Markdown content directory (defaults to markdown.content_dir)")
	entityType := fs.String("type", "", "Default entity type, guide or blog_post (defaults to markdown.default_type)")
	author := fs.String("author", "", "Author slug for documents without one (defaults to markdown.author)")
	recursive := fs.Bool("recursive", true, "Walk sub-directories, including locale folders")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting content")

	if err := fs.Parse(args); err != nil {
		return err
	}
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	module, err := moduleBuilder(*configPath)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	defaults := module.Config().Markdown
	cmd := padel.ImportMarkdownCommand{
		Directory:   firstNonEmpty(*directory, defaults.ContentDir),
		DefaultType: firstNonEmpty(*entityType, defaults.DefaultType),
		Author:      firstNonEmpty(*author, defaults.Author),
		Recursive:   defaults.Recursive,
		DryRun:      *dryRun,
	}
	if explicit["recursive"] {
		cmd.Recursive = *recursive
	}

	result, err := module.ImportMarkdown(ctx, cmd)
	if err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
