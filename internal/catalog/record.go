package catalog

import (
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
)

// Record is the contract shared by every catalog model. Implementations are
// pointer types.
type Record interface {
	domain.Translatable

	GetID() uuid.UUID
	SetID(uuid.UUID)
	GetSlug() string
	SetSlug(string)
	// SlugSource is the value a slug is derived from when none is supplied.
	SlugSource() string
	// Stamp sets timestamps for a write happening at now.
	Stamp(now time.Time)
	Validate() error
}

// statusScoped records carry a publication status. Records without one are
// always public.
type statusScoped interface {
	GetStatus() domain.Status
	SetStatus(domain.Status)
}

type brandScoped interface {
	GetBrandID() uuid.UUID
}

type authorScoped interface {
	GetAuthorID() *uuid.UUID
}

var (
	_ Record = (*Racket)(nil)
	_ Record = (*Guide)(nil)
	_ Record = (*BlogPost)(nil)
	_ Record = (*Brand)(nil)
	_ Record = (*Author)(nil)
)

// Racket

func (r *Racket) GetID() uuid.UUID          { return r.ID }
func (r *Racket) SetID(id uuid.UUID)        { r.ID = id }
func (r *Racket) GetSlug() string           { return r.Slug }
func (r *Racket) SetSlug(slug string)       { r.Slug = slug }
func (r *Racket) SlugSource() string        { return r.Name }
func (r *Racket) GetStatus() domain.Status  { return r.Status }
func (r *Racket) SetStatus(s domain.Status) { r.Status = s }
func (r *Racket) GetBrandID() uuid.UUID     { return r.BrandID }
func (r *Racket) Stamp(now time.Time) {
	stamp(&r.CreatedAt, &r.UpdatedAt, r.Status, &r.PublishedAt, now)
}
func (r *Racket) TranslationKey() (domain.EntityType, uuid.UUID) {
	return domain.EntityRacket, r.ID
}

func (r *Racket) TranslatableFields() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"summary":     r.Summary,
		"review_html": r.ReviewHTML,
		"pros":        r.Pros,
		"cons":        r.Cons,
	}
}

func (r *Racket) ApplyTranslation(fields map[string]string) {
	assign(fields, "name", &r.Name)
	assign(fields, "summary", &r.Summary)
	assign(fields, "review_html", &r.ReviewHTML)
	assign(fields, "pros", &r.Pros)
	assign(fields, "cons", &r.Cons)
}

func (r *Racket) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.BrandID, validation.By(requiredUUID)),
		validation.Field(&r.Status, validation.By(validStatus)),
		validation.Field(&r.WeightGrams, validation.Min(0)),
		validation.Field(&r.PriceCents, validation.Min(int64(0))),
		validation.Field(&r.Rating, validation.Min(0.0), validation.Max(10.0)),
		validation.Field(&r.Currency, validation.When(r.Currency != "", validation.Length(3, 3))),
	)
}

func (r *Racket) clone() *Racket {
	copied := *r
	copied.PublishedAt = cloneTime(r.PublishedAt)
	return &copied
}

// Guide

func (g *Guide) GetID() uuid.UUID          { return g.ID }
func (g *Guide) SetID(id uuid.UUID)        { g.ID = id }
func (g *Guide) GetSlug() string           { return g.Slug }
func (g *Guide) SetSlug(slug string)       { g.Slug = slug }
func (g *Guide) SlugSource() string        { return g.Title }
func (g *Guide) GetStatus() domain.Status  { return g.Status }
func (g *Guide) SetStatus(s domain.Status) { g.Status = s }
func (g *Guide) GetAuthorID() *uuid.UUID   { return g.AuthorID }
func (g *Guide) Stamp(now time.Time) {
	stamp(&g.CreatedAt, &g.UpdatedAt, g.Status, &g.PublishedAt, now)
}
func (g *Guide) TranslationKey() (domain.EntityType, uuid.UUID) {
	return domain.EntityGuide, g.ID
}

func (g *Guide) TranslatableFields() map[string]string {
	return map[string]string{
		"title":     g.Title,
		"excerpt":   g.Excerpt,
		"body_html": g.BodyHTML,
	}
}

func (g *Guide) ApplyTranslation(fields map[string]string) {
	assign(fields, "title", &g.Title)
	assign(fields, "excerpt", &g.Excerpt)
	assign(fields, "body_html", &g.BodyHTML)
}

func (g *Guide) Validate() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&g.Status, validation.By(validStatus)),
	)
}

func (g *Guide) clone() *Guide {
	copied := *g
	copied.AuthorID = cloneUUID(g.AuthorID)
	copied.PublishedAt = cloneTime(g.PublishedAt)
	return &copied
}

// BlogPost

func (p *BlogPost) GetID() uuid.UUID          { return p.ID }
func (p *BlogPost) SetID(id uuid.UUID)        { p.ID = id }
func (p *BlogPost) GetSlug() string           { return p.Slug }
func (p *BlogPost) SetSlug(slug string)       { p.Slug = slug }
func (p *BlogPost) SlugSource() string        { return p.Title }
func (p *BlogPost) GetStatus() domain.Status  { return p.Status }
func (p *BlogPost) SetStatus(s domain.Status) { p.Status = s }
func (p *BlogPost) GetAuthorID() *uuid.UUID   { return p.AuthorID }
func (p *BlogPost) Stamp(now time.Time) {
	stamp(&p.CreatedAt, &p.UpdatedAt, p.Status, &p.PublishedAt, now)
}
func (p *BlogPost) TranslationKey() (domain.EntityType, uuid.UUID) {
	return domain.EntityBlogPost, p.ID
}

func (p *BlogPost) TranslatableFields() map[string]string {
	return map[string]string{
		"title":     p.Title,
		"excerpt":   p.Excerpt,
		"body_html": p.BodyHTML,
	}
}

func (p *BlogPost) ApplyTranslation(fields map[string]string) {
	assign(fields, "title", &p.Title)
	assign(fields, "excerpt", &p.Excerpt)
	assign(fields, "body_html", &p.BodyHTML)
}

func (p *BlogPost) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&p.Status, validation.By(validStatus)),
		validation.Field(&p.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
}

func (p *BlogPost) clone() *BlogPost {
	copied := *p
	copied.AuthorID = cloneUUID(p.AuthorID)
	copied.PublishedAt = cloneTime(p.PublishedAt)
	copied.Tags = slices.Clone(p.Tags)
	return &copied
}

// Brand

func (b *Brand) GetID() uuid.UUID    { return b.ID }
func (b *Brand) SetID(id uuid.UUID)  { b.ID = id }
func (b *Brand) GetSlug() string     { return b.Slug }
func (b *Brand) SetSlug(slug string) { b.Slug = slug }
func (b *Brand) SlugSource() string  { return b.Name }
func (b *Brand) Stamp(now time.Time) { stamp(&b.CreatedAt, &b.UpdatedAt, "", nil, now) }
func (b *Brand) TranslationKey() (domain.EntityType, uuid.UUID) {
	return domain.EntityBrand, b.ID
}

func (b *Brand) TranslatableFields() map[string]string {
	return map[string]string{"description": b.Description}
}

func (b *Brand) ApplyTranslation(fields map[string]string) {
	assign(fields, "description", &b.Description)
}

func (b *Brand) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 120)),
	)
}

func (b *Brand) clone() *Brand {
	copied := *b
	return &copied
}

// Author

func (a *Author) GetID() uuid.UUID    { return a.ID }
func (a *Author) SetID(id uuid.UUID)  { a.ID = id }
func (a *Author) GetSlug() string     { return a.Slug }
func (a *Author) SetSlug(slug string) { a.Slug = slug }
func (a *Author) SlugSource() string  { return a.Name }
func (a *Author) Stamp(now time.Time) { stamp(&a.CreatedAt, &a.UpdatedAt, "", nil, now) }
func (a *Author) TranslationKey() (domain.EntityType, uuid.UUID) {
	return domain.EntityAuthor, a.ID
}

func (a *Author) TranslatableFields() map[string]string {
	return map[string]string{"bio": a.Bio}
}

func (a *Author) ApplyTranslation(fields map[string]string) {
	assign(fields, "bio", &a.Bio)
}

func (a *Author) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 120)),
	)
}

func (a *Author) clone() *Author {
	copied := *a
	return &copied
}

func assign(fields map[string]string, key string, target *string) {
	if value, ok := fields[key]; ok {
		*target = value
	}
}

func stamp(created, updated *time.Time, status domain.Status, publishedAt **time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
	if publishedAt != nil && status.IsPublic() && *publishedAt == nil {
		ts := now
		*publishedAt = &ts
	}
}

func requiredUUID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required_id", "must be a valid id")
	}
	return nil
}

func validStatus(value any) error {
	status, _ := value.(domain.Status)
	if _, err := domain.ParseStatus(strings.TrimSpace(string(status))); err != nil {
		return validation.NewError("validation_status_invalid", "must be draft, published or archived")
	}
	return nil
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

func cloneUUID(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
