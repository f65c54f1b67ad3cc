package catalog

import (
	"strings"
	"time"
)

func byName(aName, aSlug, bName, bSlug string) bool {
	if cmp := strings.Compare(aName, bName); cmp != 0 {
		return cmp < 0
	}
	return aSlug < bSlug
}

func byRecency(aDate time.Time, aSlug string, bDate time.Time, bSlug string) bool {
	if !aDate.Equal(bDate) {
		return aDate.After(bDate)
	}
	return aSlug < bSlug
}

func effectiveDate(published *time.Time, created time.Time) time.Time {
	if published != nil {
		return *published
	}
	return created
}
