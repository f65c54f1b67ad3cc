package translatecmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/commands"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

const translateOperation = "translations.translate_entities"

var _ command.Commander[TranslateEntitiesCommand] = (*TranslateEntitiesHandler)(nil)

// Runner executes batch jobs. *batch.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, job batch.Job) (*batch.Report, error)
}

// TranslateEntitiesHandler runs batch translation jobs through the shared
// command handler.
type TranslateEntitiesHandler struct {
	inner *commands.Handler[TranslateEntitiesCommand]
}

func NewTranslateEntitiesHandler(runner Runner, logger interfaces.Logger, opts ...commands.HandlerOption[TranslateEntitiesCommand]) *TranslateEntitiesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg TranslateEntitiesCommand) error {
		report, err := runner.Run(ctx, msg.job())
		if report != nil {
			if msg.Report != nil {
				*msg.Report = *report
			}
			logging.WithFields(baseLogger, map[string]any{
				"translated": report.Translated,
				"planned":    report.Planned,
				"skipped":    report.Skipped,
				"failed":     report.Failed,
			}).Info("translations.command.translate_entities.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[TranslateEntitiesCommand]{
		commands.WithLogger[TranslateEntitiesCommand](baseLogger),
		commands.WithOperation[TranslateEntitiesCommand](translateOperation),
		// Batches call a remote model per chunk and outlive the default timeout.
		commands.WithTimeout[TranslateEntitiesCommand](0),
		commands.WithMessageFields(func(msg TranslateEntitiesCommand) map[string]any {
			fields := map[string]any{
				"entity_type": msg.EntityType,
				"locales":     strings.Join(msg.Locales, ","),
			}
			if len(msg.IDs) > 0 {
				fields["ids"] = len(msg.IDs)
			}
			if msg.Force {
				fields["force"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TranslateEntitiesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TranslateEntitiesCommand].
func (h *TranslateEntitiesHandler) Execute(ctx context.Context, msg TranslateEntitiesCommand) error {
	return h.inner.Execute(ctx, msg)
}
