package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/markdown"
)

const importMarkdownMessageType = "padel.markdown.import_directory"

// ImportMarkdownCommand imports the markdown documents under Directory.
type ImportMarkdownCommand struct {
	Directory string `json:"directory"`
	// DefaultType is guide or blog_post; documents may override it.
	DefaultType string `json:"default_type,omitempty"`
	// Author is the author slug used when frontmatter names none.
	Author    string `json:"author,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
	// Result, when set, receives the import counts.
	Result *markdown.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportMarkdownCommand) Type() string { return importMarkdownMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("padel.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.DefaultType, validation.By(func(value any) error {
			raw := strings.TrimSpace(value.(string))
			if raw == "" {
				return nil
			}
			entityType, err := domain.ParseEntityType(raw)
			if err != nil || (entityType != domain.EntityGuide && entityType != domain.EntityBlogPost) {
				return validation.NewError("padel.markdown.import_directory.type_invalid", "default_type must be guide or blog_post")
			}
			return nil
		})),
	)
}

func (cmd ImportMarkdownCommand) options() markdown.ImportOptions {
	opts := markdown.ImportOptions{
		Author:    strings.TrimSpace(cmd.Author),
		Recursive: cmd.Recursive,
		DryRun:    cmd.DryRun,
	}
	if entityType, err := domain.ParseEntityType(cmd.DefaultType); err == nil {
		opts.DefaultType = entityType
	}
	return opts
}
