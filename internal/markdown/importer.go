package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrCatalogRequired   = errors.New("markdown importer: catalog is required")
	ErrTitleMissing      = errors.New("markdown importer: frontmatter title is required")
	ErrTypeUnsupported   = errors.New("markdown importer: only guides and blog posts can be imported")
	ErrCanonicalNotFound = errors.New("markdown importer: canonical document not found")
)

// OverrideWriter stores localized documents. *translations.Service satisfies it.
type OverrideWriter interface {
	TargetLocale(code string) (string, error)
	Save(ctx context.Context, req translations.SaveRequest) (*translations.ContentTranslation, error)
}

// ImporterConfig holds the importer dependencies.
type ImporterConfig struct {
	Catalog      *catalog.Catalog
	Translations OverrideWriter
	Registry     *locales.Registry
	Parser       interfaces.MarkdownParser
	Logger       interfaces.Logger
}

// ImportOptions tune a single import run.
type ImportOptions struct {
	// DefaultType applies to documents without a type in frontmatter.
	DefaultType domain.EntityType
	// Author is the author slug used when frontmatter names none.
	Author string
	DryRun bool
	// Recursive walks sub-directories. Locale folders (es/, fr/) need it.
	Recursive bool
}

// ImportError describes a document that could not be imported.
type ImportError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ImportResult counts what an import did, or would do in a dry run.
type ImportResult struct {
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Translated int           `json:"translated"`
	Skipped    int           `json:"skipped"`
	Errors     []ImportError `json:"errors,omitempty"`
}

// Importer turns markdown documents into guides, blog posts and their
// localized overrides.
type Importer struct {
	catalog      *catalog.Catalog
	translations OverrideWriter
	registry     *locales.Registry
	parser       interfaces.MarkdownParser
	logger       interfaces.Logger
}

func NewImporter(cfg ImporterConfig) *Importer {
	registry := cfg.Registry
	if registry == nil {
		registry = locales.MustRegistry(locales.DefaultBase)
	}
	parser := cfg.Parser
	if parser == nil {
		parser = NewGoldmarkParser(ParseOptions{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		catalog:      cfg.Catalog,
		translations: cfg.Translations,
		registry:     registry,
		parser:       parser,
		logger:       logger,
	}
}

// ImportDirectory imports every markdown file under dir.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("markdown importer: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown importer: %s is not a directory", dir)
	}
	return i.ImportFS(ctx, os.DirFS(dir), opts)
}

// ImportFS imports every markdown file of fsys. Canonical documents are
// applied before localized ones so overrides can find their record.
func (i *Importer) ImportFS(ctx context.Context, fsys fs.FS, opts ImportOptions) (*ImportResult, error) {
	if i.catalog == nil {
		return nil, ErrCatalogRequired
	}
	loader := NewLoader(fsys, LoaderConfig{
		DefaultLocale: i.registry.Base(),
		Locales:       i.registry.Supported(),
		Recursive:     opts.Recursive,
	})
	docs, err := loader.LoadDirectory(ctx, ".")
	if err != nil {
		return nil, err
	}
	return i.ImportDocuments(ctx, docs, opts)
}

// ImportDocuments imports already loaded documents.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts ImportOptions) (*ImportResult, error) {
	if i.catalog == nil {
		return nil, ErrCatalogRequired
	}
	if opts.DefaultType == "" {
		opts.DefaultType = domain.EntityGuide
	}

	ordered := slices.Clone(docs)
	sort.SliceStable(ordered, func(a, b int) bool {
		return i.isCanonical(ordered[a]) && !i.isCanonical(ordered[b])
	})

	run := &importRun{
		importer: i,
		opts:     opts,
		result:   &ImportResult{},
		planned:  map[string]uuid.UUID{},
		logger:   logging.WithFields(i.logger, map[string]any{"dry_run": opts.DryRun}),
	}
	for _, doc := range ordered {
		if err := ctx.Err(); err != nil {
			return run.result, err
		}
		if doc == nil {
			continue
		}
		var outcome string
		var err error
		if i.isCanonical(doc) {
			outcome, err = run.importCanonical(ctx, doc)
		} else {
			outcome, err = run.importOverride(ctx, doc)
		}
		if err != nil {
			run.fail(doc, err)
			continue
		}
		run.count(outcome)
		run.logger.Debug("markdown.document.imported", "path", doc.FilePath, "locale", doc.Locale, "outcome", outcome)
	}

	run.logger.Info("markdown.import.completed",
		"created", run.result.Created,
		"updated", run.result.Updated,
		"translated", run.result.Translated,
		"skipped", run.result.Skipped,
		"errors", len(run.result.Errors),
	)
	return run.result, run.firstErr
}

func (i *Importer) isCanonical(doc *interfaces.Document) bool {
	return doc != nil && (doc.Locale == "" || doc.Locale == i.registry.Base())
}

const (
	outcomeCreated    = "created"
	outcomeUpdated    = "updated"
	outcomeTranslated = "translated"
	outcomeSkipped    = "skipped"
)

type importRun struct {
	importer *Importer
	opts     ImportOptions
	result   *ImportResult
	// planned maps type/slug of canonical records seen in this run.
	planned  map[string]uuid.UUID
	firstErr error
	logger   interfaces.Logger
}

func (r *importRun) count(outcome string) {
	switch outcome {
	case outcomeCreated:
		r.result.Created++
	case outcomeUpdated:
		r.result.Updated++
	case outcomeTranslated:
		r.result.Translated++
	default:
		r.result.Skipped++
	}
}

func (r *importRun) fail(doc *interfaces.Document, err error) {
	if r.firstErr == nil {
		r.firstErr = fmt.Errorf("%s: %w", doc.FilePath, err)
	}
	r.result.Errors = append(r.result.Errors, ImportError{Path: doc.FilePath, Message: err.Error()})
	r.logger.Warn("markdown.document.failed", "path", doc.FilePath, "error", err)
}

func (r *importRun) entityType(doc *interfaces.Document) (domain.EntityType, error) {
	if strings.TrimSpace(doc.FrontMatter.Type) == "" {
		return r.opts.DefaultType, nil
	}
	entityType, err := domain.ParseEntityType(doc.FrontMatter.Type)
	if err != nil {
		return "", err
	}
	if entityType != domain.EntityGuide && entityType != domain.EntityBlogPost {
		return "", ErrTypeUnsupported
	}
	return entityType, nil
}

// slug comes from frontmatter or the file name, never the title, so a
// localized file keeps pointing at its canonical record.
func (r *importRun) slug(doc *interfaces.Document) (string, error) {
	source := strings.TrimSpace(doc.FrontMatter.Slug)
	if source == "" {
		source = fileSlug(doc.FilePath, doc.Locale)
	}
	return catalog.NormalizeSlug(source)
}

func (r *importRun) render(doc *interfaces.Document) (string, error) {
	if len(doc.BodyHTML) == 0 {
		html, err := r.importer.parser.Parse(doc.Body)
		if err != nil {
			return "", err
		}
		doc.BodyHTML = html
	}
	return strings.TrimSpace(string(doc.BodyHTML)), nil
}

func (r *importRun) importCanonical(ctx context.Context, doc *interfaces.Document) (string, error) {
	entityType, err := r.entityType(doc)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.FrontMatter.Title) == "" {
		return "", ErrTitleMissing
	}
	slugValue, err := r.slug(doc)
	if err != nil {
		return "", err
	}
	status, err := domain.ParseStatus(doc.FrontMatter.Status)
	if err != nil {
		return "", err
	}
	body, err := r.render(doc)
	if err != nil {
		return "", err
	}
	authorID, err := r.author(ctx, doc)
	if err != nil {
		return "", err
	}

	content := canonicalContent{
		title:    strings.TrimSpace(doc.FrontMatter.Title),
		excerpt:  strings.TrimSpace(doc.FrontMatter.Excerpt),
		body:     body,
		status:   status,
		authorID: authorID,
		tags:     doc.FrontMatter.Tags,
	}
	if !doc.FrontMatter.Date.IsZero() {
		date := doc.FrontMatter.Date.UTC()
		content.published = &date
	}

	var outcome string
	var id uuid.UUID
	switch entityType {
	case domain.EntityGuide:
		outcome, id, err = upsert(ctx, r.importer.catalog.Guides, slugValue, r.opts.DryRun,
			func() *catalog.Guide { return &catalog.Guide{} }, content.applyGuide)
	default:
		outcome, id, err = upsert(ctx, r.importer.catalog.Posts, slugValue, r.opts.DryRun,
			func() *catalog.BlogPost { return &catalog.BlogPost{} }, content.applyPost)
	}
	if err != nil {
		return "", err
	}
	r.planned[plannedKey(entityType, slugValue)] = id
	return outcome, nil
}

func (r *importRun) author(ctx context.Context, doc *interfaces.Document) (*uuid.UUID, error) {
	slugValue := strings.TrimSpace(doc.FrontMatter.Author)
	if slugValue == "" {
		slugValue = strings.TrimSpace(r.opts.Author)
	}
	if slugValue == "" {
		return nil, nil
	}
	author, err := r.importer.catalog.Authors.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, fmt.Errorf("author %s: %w", slugValue, err)
	}
	id := author.ID
	return &id, nil
}

func (r *importRun) importOverride(ctx context.Context, doc *interfaces.Document) (string, error) {
	if r.importer.translations == nil {
		return "", errors.New("markdown importer: translations service is required for localized documents")
	}
	entityType, err := r.entityType(doc)
	if err != nil {
		return "", err
	}
	locale, err := r.importer.translations.TargetLocale(doc.Locale)
	if err != nil {
		return "", err
	}
	slugValue, err := r.slug(doc)
	if err != nil {
		return "", err
	}
	entityID, err := r.canonicalID(ctx, entityType, slugValue)
	if err != nil {
		return "", err
	}
	body, err := r.render(doc)
	if err != nil {
		return "", err
	}

	fields := map[string]string{}
	for key, value := range map[string]string{
		"title":     strings.TrimSpace(doc.FrontMatter.Title),
		"excerpt":   strings.TrimSpace(doc.FrontMatter.Excerpt),
		"body_html": body,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return outcomeSkipped, nil
	}
	if r.opts.DryRun {
		return outcomeTranslated, nil
	}

	if _, err := r.importer.translations.Save(ctx, translations.SaveRequest{
		EntityType: entityType,
		EntityID:   entityID,
		Locale:     locale,
		Fields:     fields,
		Source:     translations.SourceManual,
	}); err != nil {
		return "", err
	}
	return outcomeTranslated, nil
}

func (r *importRun) canonicalID(ctx context.Context, entityType domain.EntityType, slugValue string) (uuid.UUID, error) {
	if id, ok := r.planned[plannedKey(entityType, slugValue)]; ok {
		return id, nil
	}
	var record catalog.Record
	var err error
	switch entityType {
	case domain.EntityGuide:
		record, err = r.importer.catalog.Guides.GetBySlug(ctx, slugValue)
	default:
		record, err = r.importer.catalog.Posts.GetBySlug(ctx, slugValue)
	}
	if catalog.IsNotFound(err) {
		return uuid.Nil, fmt.Errorf("%w: %s %s", ErrCanonicalNotFound, entityType, slugValue)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return record.GetID(), nil
}

func plannedKey(entityType domain.EntityType, slugValue string) string {
	return entityType.String() + "/" + slugValue
}

type canonicalContent struct {
	title     string
	excerpt   string
	body      string
	status    domain.Status
	authorID  *uuid.UUID
	tags      []string
	published *time.Time
}

func (c canonicalContent) applyGuide(g *catalog.Guide) bool {
	changed := setString(&g.Title, c.title)
	changed = setString(&g.Excerpt, c.excerpt) || changed
	changed = setString(&g.BodyHTML, c.body) || changed
	changed = setStatus(&g.Status, c.status) || changed
	changed = setUUID(&g.AuthorID, c.authorID) || changed
	changed = setTime(&g.PublishedAt, c.published) || changed
	return changed
}

func (c canonicalContent) applyPost(p *catalog.BlogPost) bool {
	changed := setString(&p.Title, c.title)
	changed = setString(&p.Excerpt, c.excerpt) || changed
	changed = setString(&p.BodyHTML, c.body) || changed
	changed = setStatus(&p.Status, c.status) || changed
	changed = setUUID(&p.AuthorID, c.authorID) || changed
	changed = setTime(&p.PublishedAt, c.published) || changed
	if !slices.Equal(p.Tags, c.tags) && !(len(p.Tags) == 0 && len(c.tags) == 0) {
		p.Tags = slices.Clone(c.tags)
		changed = true
	}
	return changed
}

// upsert creates the record for slugValue or updates it when apply reports a
// change. In a dry run nothing is written and new records get uuid.Nil.
func upsert[T catalog.Record](ctx context.Context, store *catalog.Store[T], slugValue string, dryRun bool, fresh func() T, apply func(T) bool) (string, uuid.UUID, error) {
	existing, err := store.GetBySlug(ctx, slugValue)
	switch {
	case catalog.IsNotFound(err):
		record := fresh()
		apply(record)
		record.SetSlug(slugValue)
		if dryRun {
			return outcomeCreated, uuid.Nil, record.Validate()
		}
		created, err := store.Create(ctx, record)
		if err != nil {
			return "", uuid.Nil, err
		}
		return outcomeCreated, created.GetID(), nil
	case err != nil:
		return "", uuid.Nil, err
	}

	if !apply(existing) {
		return outcomeSkipped, existing.GetID(), nil
	}
	if dryRun {
		return outcomeUpdated, existing.GetID(), nil
	}
	updated, err := store.Update(ctx, existing)
	if err != nil {
		return "", uuid.Nil, err
	}
	return outcomeUpdated, updated.GetID(), nil
}

func setString(target *string, value string) bool {
	if *target == value {
		return false
	}
	*target = value
	return true
}

func setStatus(target *domain.Status, value domain.Status) bool {
	if *target == value {
		return false
	}
	*target = value
	return true
}

func setUUID(target **uuid.UUID, value *uuid.UUID) bool {
	switch {
	case value == nil:
		return false
	case *target != nil && **target == *value:
		return false
	}
	id := *value
	*target = &id
	return true
}

func setTime(target **time.Time, value *time.Time) bool {
	switch {
	case value == nil:
		return false
	case *target != nil && (*target).Equal(*value):
		return false
	}
	ts := *value
	*target = &ts
	return true
}
