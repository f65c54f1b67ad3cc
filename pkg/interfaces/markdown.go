package interfaces

import "time"

// MarkdownParser renders markdown source into HTML.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
}

// FrontMatter is the metadata block at the top of an imported markdown document.
type FrontMatter struct {
	Type    string
	Title   string
	Slug    string
	Excerpt string
	Status  string
	Author  string
	Locale  string
	Tags    []string
	Date    time.Time
	Raw     map[string]any
}

// Document is a parsed markdown file ready to be imported.
type Document struct {
	FilePath string
	// Locale is the normalized locale the document is written in.
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
}
