package domain

import (
	"errors"
	"strings"
)

// ErrStatusInvalid is returned by ParseStatus for unknown values.
var ErrStatusInvalid = errors.New("domain: invalid status")

// ParseStatus normalizes a status string; blank input yields StatusDraft.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", ErrStatusInvalid
	}
}

// IsPublic reports whether records in this state are visible to readers.
func (s Status) IsPublic() bool {
	return s == StatusPublished
}
