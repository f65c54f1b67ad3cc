package domain

// Status represents the publication state of a catalog record.
type Status string

const (
	// StatusDraft is the default state for new records.
	StatusDraft Status = "draft"
	// StatusPublished records are served by the public API.
	StatusPublished Status = "published"
	// StatusArchived records are kept for history and hidden from readers.
	StatusArchived Status = "archived"
)
