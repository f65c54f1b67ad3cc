package translatecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
)

const translateEntitiesMessageType = "padel.translations.translate_entities"

// MaxConcurrency caps the worker count a command may request.
const MaxConcurrency = 16

// TranslateEntitiesCommand machine-translates the translatable fields of one
// entity type into the target locales.
type TranslateEntitiesCommand struct {
	EntityType string      `json:"entity_type"`
	Locales    []string    `json:"locales"`
	IDs        []uuid.UUID `json:"ids,omitempty"`
	// Force overwrites existing rows, manual ones included.
	Force         bool `json:"force,omitempty"`
	DryRun        bool `json:"dry_run,omitempty"`
	MaxChunkChars int  `json:"max_chunk_chars,omitempty"`
	Concurrency   int  `json:"concurrency,omitempty"`
	// Report, when set, receives the run report.
	Report *batch.Report `json:"-"`
}

// Type implements command.Message.
func (TranslateEntitiesCommand) Type() string { return translateEntitiesMessageType }

// Validate implements command.Message.
func (cmd TranslateEntitiesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.EntityType, validation.Required, validation.By(func(value any) error {
			if _, err := domain.ParseEntityType(value.(string)); err != nil {
				return validation.NewError("padel.translations.entity_type_invalid", "entity_type is not a translatable entity")
			}
			return nil
		})),
		validation.Field(&cmd.Locales, validation.Required, validation.Each(validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("padel.translations.locale_blank", "locales cannot contain blank values")
			}
			return nil
		}))),
		validation.Field(&cmd.MaxChunkChars, validation.Min(0)),
		validation.Field(&cmd.Concurrency, validation.Min(0), validation.Max(MaxConcurrency)),
	)
}

func (cmd TranslateEntitiesCommand) job() batch.Job {
	entityType, _ := domain.ParseEntityType(cmd.EntityType)
	return batch.Job{
		EntityType:    entityType,
		TargetLocales: cmd.Locales,
		IDs:           cmd.IDs,
		Force:         cmd.Force,
		DryRun:        cmd.DryRun,
		MaxChunkChars: cmd.MaxChunkChars,
		Concurrency:   cmd.Concurrency,
	}
}
