package translations

import (
	"maps"
	"time"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Source records who produced an override row.
type Source string

const (
	SourceMachine Source = "machine"
	SourceManual  Source = "manual"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceMachine || s == SourceManual
}

// ContentTranslation holds per-locale field overrides for one catalog record.
// At most one row exists per (entity_type, entity_id, locale).
type ContentTranslation struct {
	bun.BaseModel `bun:"table:content_translations,alias:ctr"`

	ID         uuid.UUID         `bun:",pk,type:uuid"                  json:"id"`
	EntityType domain.EntityType `bun:"entity_type,notnull"            json:"entity_type"`
	EntityID   uuid.UUID         `bun:"entity_id,notnull,type:uuid"    json:"entity_id"`
	Locale     string            `bun:"locale,notnull"                 json:"locale"`
	Fields     map[string]string `bun:"fields,type:jsonb,notnull"      json:"fields"`
	Source     Source            `bun:"source,notnull,default:'machine'" json:"source"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneTranslation(src *ContentTranslation) *ContentTranslation {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = maps.Clone(src.Fields)
	if copied.Fields == nil {
		copied.Fields = map[string]string{}
	}
	return &copied
}

// LocaleCount is one row of CountByLocale.
type LocaleCount struct {
	Locale string `bun:"locale" json:"locale"`
	Count  int    `bun:"count"  json:"count"`
}
