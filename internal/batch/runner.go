package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/chunker"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/metrics"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	DefaultMaxChunkChars = 3000
	DefaultConcurrency   = 2
)

const (
	OutcomeTranslated = "translated"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
	OutcomePlanned    = "planned"
)

var (
	ErrTargetLocalesRequired = errors.New("batch: at least one target locale is required")
	ErrTranslatorRequired    = errors.New("batch: translator is required")
)

// Source lists the canonical records a job translates.
type Source interface {
	ListTranslatable(ctx context.Context, entityType domain.EntityType, opts catalog.ListOptions) ([]domain.Translatable, error)
}

// Store reads and writes override rows. *translations.Service satisfies it.
type Store interface {
	TargetLocale(code string) (string, error)
	Get(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) (*translations.ContentTranslation, error)
	Save(ctx context.Context, req translations.SaveRequest) (*translations.ContentTranslation, error)
}

// Job describes one batch translation run.
type Job struct {
	EntityType    domain.EntityType
	TargetLocales []string
	// IDs restricts the run to these records. Empty means every record.
	IDs    []uuid.UUID
	Force  bool
	DryRun bool
	// MaxChunkChars and Concurrency fall back to the runner defaults when zero.
	MaxChunkChars int
	Concurrency   int
}

// ItemError records a failed (entity, locale) pair.
type ItemError struct {
	EntityID uuid.UUID `json:"entity_id"`
	Locale   string    `json:"locale"`
	Message  string    `json:"message"`
}

// Report summarises a run. Planned counts the pairs a dry run would translate.
type Report struct {
	EntityType domain.EntityType `json:"entity_type"`
	Locales    []string          `json:"locales"`
	DryRun     bool              `json:"dry_run"`
	Translated int               `json:"translated"`
	Planned    int               `json:"planned"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Errors     []ItemError       `json:"errors,omitempty"`
}

func (r *Report) record(entityID uuid.UUID, locale, outcome string, err error) {
	switch outcome {
	case OutcomeTranslated:
		r.Translated++
	case OutcomePlanned:
		r.Planned++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
		r.Errors = append(r.Errors, ItemError{EntityID: entityID, Locale: locale, Message: err.Error()})
	}
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMaxChunkChars(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxChunkChars = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithSourceLocale sets the locale of canonical records passed to the translator.
func WithSourceLocale(locale string) Option {
	return func(r *Runner) {
		if strings.TrimSpace(locale) != "" {
			r.sourceLocale = locale
		}
	}
}

// Runner machine-translates canonical records into override rows.
type Runner struct {
	source        Source
	store         Store
	translator    interfaces.MachineTranslator
	logger        interfaces.Logger
	sourceLocale  string
	maxChunkChars int
	concurrency   int
}

func NewRunner(source Source, store Store, translator interfaces.MachineTranslator, opts ...Option) *Runner {
	r := &Runner{
		source:        source,
		store:         store,
		translator:    translator,
		logger:        logging.NoOp(),
		sourceLocale:  "en",
		maxChunkChars: DefaultMaxChunkChars,
		concurrency:   DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type task struct {
	entity domain.Translatable
	id     uuid.UUID
	locale string
}

// Run translates every (record, locale) pair of job. A failing pair is
// reported and does not stop the run; a cancelled context does, returning
// the partial report with the context error.
func (r *Runner) Run(ctx context.Context, job Job) (*Report, error) {
	if len(job.EntityType.TranslatableFields()) == 0 {
		return nil, domain.ErrEntityTypeInvalid
	}
	if r.translator == nil && !job.DryRun {
		return nil, ErrTranslatorRequired
	}
	targets, err := r.targetLocales(job.TargetLocales)
	if err != nil {
		return nil, err
	}

	entities, err := r.source.ListTranslatable(ctx, job.EntityType, catalog.ListOptions{
		Statuses: []domain.Status{domain.StatusDraft, domain.StatusPublished},
		IDs:      job.IDs,
	})
	if err != nil {
		return nil, fmt.Errorf("batch: list %s: %w", job.EntityType, err)
	}

	maxChars := job.MaxChunkChars
	if maxChars <= 0 {
		maxChars = r.maxChunkChars
	}
	workers := job.Concurrency
	if workers <= 0 {
		workers = r.concurrency
	}

	report := &Report{EntityType: job.EntityType, Locales: targets, DryRun: job.DryRun}
	logger := logging.WithFields(r.logger, map[string]any{
		"entity_type": job.EntityType.String(),
		"locales":     strings.Join(targets, ","),
		"dry_run":     job.DryRun,
	})
	logger.Info("batch.run.start", "entities", len(entities), "workers", workers)

	var mu sync.Mutex
	collect := func(t task, outcome string, err error) {
		metrics.ObserveBatch(job.EntityType.String(), t.locale, outcome)
		mu.Lock()
		report.record(t.id, t.locale, outcome, err)
		mu.Unlock()
	}

	tasks := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				outcome, err := r.process(ctx, job, t, maxChars)
				if err != nil && ctx.Err() != nil {
					continue
				}
				if err != nil {
					logging.WithEntity(logger, job.EntityType.String(), t.id.String(), t.locale).
						Warn("batch.item.failed", "error", err)
				}
				collect(t, outcome, err)
			}
		}()
	}

	var runErr error
dispatch:
	for _, entity := range entities {
		_, id := entity.TranslationKey()
		for _, locale := range targets {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break dispatch
			case tasks <- task{entity: entity, id: id, locale: locale}:
			}
		}
	}
	close(tasks)
	wg.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	logger.Info("batch.run.finished",
		"translated", report.Translated,
		"planned", report.Planned,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, runErr
}

func (r *Runner) targetLocales(codes []string) ([]string, error) {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		locale, err := r.store.TargetLocale(code)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[locale]; ok {
			continue
		}
		seen[locale] = struct{}{}
		out = append(out, locale)
	}
	if len(out) == 0 {
		return nil, ErrTargetLocalesRequired
	}
	return out, nil
}

func (r *Runner) process(ctx context.Context, job Job, t task, maxChars int) (string, error) {
	_, err := r.store.Get(ctx, job.EntityType, t.id, t.locale)
	switch {
	case err == nil:
		// Force is the only way past an existing row, manual or machine.
		if !job.Force {
			return OutcomeSkipped, nil
		}
	case !translations.IsNotFound(err):
		return OutcomeFailed, err
	}

	source := t.entity.TranslatableFields()
	keys := make([]string, 0, len(source))
	for key, value := range source {
		if strings.TrimSpace(value) != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return OutcomeSkipped, nil
	}
	if job.DryRun {
		return OutcomePlanned, nil
	}
	sort.Strings(keys)

	fields := make(map[string]string, len(keys))
	for _, key := range keys {
		translated, err := r.translateField(ctx, job.EntityType, key, source[key], t.locale, maxChars)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("field %s: %w", key, err)
		}
		fields[key] = translated
	}

	_, err = r.store.Save(ctx, translations.SaveRequest{
		EntityType: job.EntityType,
		EntityID:   t.id,
		Locale:     t.locale,
		Fields:     fields,
		Source:     translations.SourceMachine,
		Force:      job.Force,
	})
	if errors.Is(err, translations.ErrManualOverride) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeFailed, err
	}
	return OutcomeTranslated, nil
}

func (r *Runner) translateField(ctx context.Context, entityType domain.EntityType, field, value, locale string, maxChars int) (string, error) {
	format := interfaces.FormatText
	chunks := chunker.TextChunks(value, maxChars)
	if domain.IsHTMLField(field) {
		format = interfaces.FormatHTML
		chunks = chunker.Split(value, maxChars)
	}

	for i, chunk := range chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			continue
		}
		translated, err := r.translator.Translate(ctx, interfaces.TranslateRequest{
			Text:         chunk.Text,
			SourceLocale: r.sourceLocale,
			TargetLocale: locale,
			Format:       format,
			Hint:         entityType.String() + " " + field,
		})
		if err != nil {
			return "", err
		}
		chunks[i].Text = keepSpacing(chunk.Text, translated)
	}
	return chunker.Join(chunks), nil
}

// keepSpacing re-applies the leading and trailing whitespace of src to
// translated, since chunk boundaries sit on whitespace the model drops.
func keepSpacing(src, translated string) string {
	trimmed := strings.TrimSpace(translated)
	lead := src[:len(src)-len(strings.TrimLeftFunc(src, unicode.IsSpace))]
	trail := src[len(strings.TrimRightFunc(src, unicode.IsSpace)):]
	return lead + trimmed + trail
}
