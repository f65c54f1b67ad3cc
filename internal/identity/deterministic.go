package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-padel"

// UUID derives a stable UUID from key using go-hashid. Keys must be prefixed
// by kind so different entities never share a key.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TranslationUUID is the row id for the (entityType, entityID, locale) triple.
// Two writers targeting the same triple always produce the same primary key.
func TranslationUUID(entityType string, entityID uuid.UUID, locale string) uuid.UUID {
	return UUID(namespace + ":translation:" +
		strings.ToLower(strings.TrimSpace(entityType)) + ":" +
		entityID.String() + ":" +
		strings.ToLower(strings.TrimSpace(locale)))
}

// SlugUUID derives a record id from an entity type and slug, used by imports
// so re-running an import targets the same rows.
func SlugUUID(entityType, slug string) uuid.UUID {
	return UUID(namespace + ":" + strings.ToLower(strings.TrimSpace(entityType)) + ":" + strings.TrimSpace(slug))
}
