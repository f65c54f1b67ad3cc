package markdowncmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-padel/internal/commands"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/markdown"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

const importOperation = "markdown.import_directory"

var _ command.Commander[ImportMarkdownCommand] = (*ImportMarkdownHandler)(nil)

// DirectoryImporter is satisfied by *markdown.Importer.
type DirectoryImporter interface {
	ImportDirectory(ctx context.Context, dir string, opts markdown.ImportOptions) (*markdown.ImportResult, error)
}

// ImportMarkdownHandler orchestrates directory imports via the shared command handler.
type ImportMarkdownHandler struct {
	inner *commands.Handler[ImportMarkdownCommand]
}

func NewImportMarkdownHandler(importer DirectoryImporter, logger interfaces.Logger, opts ...commands.HandlerOption[ImportMarkdownCommand]) *ImportMarkdownHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportMarkdownCommand) error {
		result, err := importer.ImportDirectory(ctx, msg.Directory, msg.options())
		if result != nil {
			if msg.Result != nil {
				*msg.Result = *result
			}
			logging.WithFields(baseLogger, map[string]any{
				"created_count":    result.Created,
				"updated_count":    result.Updated,
				"translated_count": result.Translated,
				"skipped_count":    result.Skipped,
				"error_count":      len(result.Errors),
			}).Info("markdown.command.import_directory.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportMarkdownCommand]{
		commands.WithLogger[ImportMarkdownCommand](baseLogger),
		commands.WithOperation[ImportMarkdownCommand](importOperation),
		commands.WithMessageFields(func(msg ImportMarkdownCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.DefaultType != "" {
				fields["default_type"] = msg.DefaultType
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportMarkdownHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportMarkdownCommand].
func (h *ImportMarkdownHandler) Execute(ctx context.Context, msg ImportMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}
