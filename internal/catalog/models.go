package catalog

import (
	"time"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Brand is a racket manufacturer.
type Brand struct {
	bun.BaseModel `bun:"table:brands,alias:b"`

	ID          uuid.UUID `bun:",pk,type:uuid"      json:"id"`
	Name        string    `bun:"name,notnull"       json:"name"`
	Slug        string    `bun:"slug,notnull"       json:"slug"`
	Country     string    `bun:"country"            json:"country,omitempty"`
	Website     string    `bun:"website"            json:"website,omitempty"`
	LogoURL     string    `bun:"logo_url"           json:"logo_url,omitempty"`
	Description string    `bun:"description"        json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Author writes guides and blog posts.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull"  json:"name"`
	Slug      string    `bun:"slug,notnull"  json:"slug"`
	Bio       string    `bun:"bio"           json:"bio,omitempty"`
	AvatarURL string    `bun:"avatar_url"    json:"avatar_url,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Racket is a reviewed padel racket.
type Racket struct {
	bun.BaseModel `bun:"table:rackets,alias:r"`

	ID           uuid.UUID     `bun:",pk,type:uuid"              json:"id"`
	BrandID      uuid.UUID     `bun:"brand_id,notnull,type:uuid" json:"brand_id"`
	Name         string        `bun:"name,notnull"               json:"name"`
	Slug         string        `bun:"slug,notnull"               json:"slug"`
	Shape        string        `bun:"shape"                      json:"shape,omitempty"`
	Balance      string        `bun:"balance"                    json:"balance,omitempty"`
	WeightGrams  int           `bun:"weight_grams"               json:"weight_grams,omitempty"`
	Level        string        `bun:"level"                      json:"level,omitempty"`
	Year         int           `bun:"year"                       json:"year,omitempty"`
	PriceCents   int64         `bun:"price_cents"                json:"price_cents,omitempty"`
	Currency     string        `bun:"currency"                   json:"currency,omitempty"`
	Rating       float64       `bun:"rating"                     json:"rating,omitempty"`
	ImageURL     string        `bun:"image_url"                  json:"image_url,omitempty"`
	AffiliateURL string        `bun:"affiliate_url"              json:"affiliate_url,omitempty"`
	Summary      string        `bun:"summary"                    json:"summary,omitempty"`
	ReviewHTML   string        `bun:"review_html"                json:"review_html,omitempty"`
	Pros         string        `bun:"pros"                       json:"pros,omitempty"`
	Cons         string        `bun:"cons"                       json:"cons,omitempty"`
	Status       domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt  *time.Time    `bun:"published_at,nullzero"      json:"published_at,omitempty"`
	CreatedAt    time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Guide is a long-form buying or technique guide.
type Guide struct {
	bun.BaseModel `bun:"table:guides,alias:g"`

	ID          uuid.UUID     `bun:",pk,type:uuid"           json:"id"`
	AuthorID    *uuid.UUID    `bun:"author_id,type:uuid"     json:"author_id,omitempty"`
	Title       string        `bun:"title,notnull"           json:"title"`
	Slug        string        `bun:"slug,notnull"            json:"slug"`
	Excerpt     string        `bun:"excerpt"                 json:"excerpt,omitempty"`
	BodyHTML    string        `bun:"body_html"               json:"body_html,omitempty"`
	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt *time.Time    `bun:"published_at,nullzero"   json:"published_at,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// BlogPost is a dated news or opinion article.
type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts,alias:bp"`

	ID          uuid.UUID     `bun:",pk,type:uuid"           json:"id"`
	AuthorID    *uuid.UUID    `bun:"author_id,type:uuid"     json:"author_id,omitempty"`
	Title       string        `bun:"title,notnull"           json:"title"`
	Slug        string        `bun:"slug,notnull"            json:"slug"`
	Excerpt     string        `bun:"excerpt"                 json:"excerpt,omitempty"`
	BodyHTML    string        `bun:"body_html"               json:"body_html,omitempty"`
	Tags        []string      `bun:"tags,type:jsonb"         json:"tags,omitempty"`
	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt *time.Time    `bun:"published_at,nullzero"   json:"published_at,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Models returns one zero value per catalog table, for migrations.
func Models() []any {
	return []any{
		(*Brand)(nil),
		(*Author)(nil),
		(*Racket)(nil),
		(*Guide)(nil),
		(*BlogPost)(nil),
	}
}
