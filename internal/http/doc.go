// Package http exposes the localized catalog and the translation admin API
// over a chi router.
//
// Public routes mount under /api and apply the translation overlay for the
// locale resolved from ?lang=, then Accept-Language, then the base locale:
//   - Rackets: /rackets, /rackets/{slug}
//   - Guides: /guides, /guides/{slug}
//   - Blog: /blog, /blog/{slug}
//   - Brands: /brands, /brands/{slug}
//   - Authors: /authors/{slug}
//   - Locales: /locales
//
// Admin routes mount under /api/admin and require an HS256 bearer token:
//   - Overrides: /translations/{type}/{id}, /translations/{type}/{id}/{locale}
//   - Batch jobs: /translations/jobs
//   - Stats: /translations/stats/{type}
package http
