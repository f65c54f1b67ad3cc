package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

// LoaderConfig configures how markdown files are discovered.
type LoaderConfig struct {
	// DefaultLocale applies when neither frontmatter nor path name a locale.
	DefaultLocale string
	// Locales are matched against the first directory segment (es/guide.md).
	Locales []string
	// Pattern limits discovered files. Defaults to "*.md".
	Pattern   string
	Recursive bool
}

// Loader turns files of an fs.FS into markdown documents.
type Loader struct {
	fs            fs.FS
	defaultLocale string
	locales       map[string]struct{}
	pattern       string
	recursive     bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	known := make(map[string]struct{}, len(cfg.Locales))
	for _, code := range cfg.Locales {
		if normalized, err := locales.Normalize(code); err == nil {
			known[normalized] = struct{}{}
		}
	}
	return &Loader{
		fs:            filesystem,
		defaultLocale: cfg.DefaultLocale,
		locales:       known,
		pattern:       pattern,
		recursive:     cfg.Recursive,
	}
}

// LoadFile reads and parses one document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(strings.TrimPrefix(name, "/"))

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	locale, err := l.detectLocale(name, doc.FrontMatter.Locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	doc.Locale = locale
	return doc, nil
}

// LoadDirectory parses every matching file under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var docs []*interfaces.Document
	err := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if match, _ := path.Match(l.pattern, path.Base(current)); !match {
			return nil
		}
		doc, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// detectLocale resolves the document locale from frontmatter, then a locale
// directory segment, then a name suffix (guide.es.md), then the default.
func (l *Loader) detectLocale(name, declared string) (string, error) {
	if strings.TrimSpace(declared) != "" {
		return locales.Normalize(declared)
	}
	for _, segment := range strings.Split(path.Dir(name), "/") {
		if normalized, err := locales.Normalize(segment); err == nil {
			if _, ok := l.locales[normalized]; ok {
				return normalized, nil
			}
		}
	}
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		if normalized, err := locales.Normalize(stem[idx+1:]); err == nil {
			if _, ok := l.locales[normalized]; ok {
				return normalized, nil
			}
		}
	}
	if l.defaultLocale == "" {
		return "", nil
	}
	return locales.Normalize(l.defaultLocale)
}

// fileSlug derives a slug candidate from the file name, dropping a trailing
// locale suffix.
func fileSlug(name, locale string) string {
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if idx := strings.LastIndex(stem, "."); idx > 0 && locale != "" {
		if normalized, err := locales.Normalize(stem[idx+1:]); err == nil && normalized == locale {
			stem = stem[:idx]
		}
	}
	return stem
}
