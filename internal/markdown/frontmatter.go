package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-padel/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and the markdown body from source.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a Document from a file path, its raw content and
// modification time. BodyHTML is left empty; the importer renders it.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &interfaces.Document{
		FilePath:     path,
		Locale:       fm.Locale,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Type    string         `yaml:"type"`
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Excerpt string         `yaml:"excerpt"`
	Summary string         `yaml:"summary"`
	Status  string         `yaml:"status"`
	Author  string         `yaml:"author"`
	Locale  string         `yaml:"locale"`
	Lang    string         `yaml:"lang"`
	Tags    []string       `yaml:"tags"`
	Date    time.Time      `yaml:"date"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	excerpt := env.Excerpt
	if excerpt == "" {
		excerpt = env.Summary
	}
	locale := env.Locale
	if locale == "" {
		locale = env.Lang
	}
	status := env.Status
	if status == "" && env.Draft {
		status = "draft"
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}
	set := func(key, value string) {
		if value != "" {
			raw[key] = value
		}
	}
	set("type", env.Type)
	set("title", env.Title)
	set("slug", env.Slug)
	set("excerpt", excerpt)
	set("status", status)
	set("author", env.Author)
	set("locale", locale)
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}

	return interfaces.FrontMatter{
		Type:    env.Type,
		Title:   env.Title,
		Slug:    env.Slug,
		Excerpt: excerpt,
		Status:  status,
		Author:  env.Author,
		Locale:  locale,
		Tags:    append([]string(nil), env.Tags...),
		Date:    env.Date,
		Raw:     raw,
	}
}
