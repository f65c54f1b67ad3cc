// Package markdown imports guides and blog posts written as markdown files
// with YAML frontmatter. Canonical documents become catalog records; localized
// documents become manual translation overrides.
package markdown
