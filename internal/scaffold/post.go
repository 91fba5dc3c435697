// internal/scaffold/post.go
//
// `lx new post <title>` stub writer.
//
/*
Context
--------
A new post is a Markdown file with YAML front matter:

	---
	title: Hello, World
	date: "2024-03-01T07:00:00-05:00"
	draft: true
	---

The date is rendered in the site's default timezone so a post written on
a laptop abroad still lands on the site's calendar day.  Existing files
are never overwritten.

Oxford commas, two spaces after periods.
*/
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// Templates lists the names accepted by `lx new`.
var Templates = []string{"post"}

// ErrExists is returned when the target file is already present.
var ErrExists = errors.New("scaffold: file already exists")

// ErrUnknownTemplate is returned for names outside Templates.
var ErrUnknownTemplate = errors.New("scaffold: unknown template")

// FrontMatter is the header written at the top of a new post.
type FrontMatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Draft bool   `yaml:"draft"`
}

// New dispatches on template name.
func New(template, contentDir, title string, site siteinfo.SiteInfo, now time.Time) (string, error) {
	switch template {
	case "post":
		return NewPost(contentDir, title, site, now)
	default:
		return "", fmt.Errorf("%w %q (want one of: %s)",
			ErrUnknownTemplate, template, strings.Join(Templates, ", "))
	}
}

// NewPost writes <contentDir>/<slug>.md and returns its path.
func NewPost(contentDir, title string, site siteinfo.SiteInfo, now time.Time) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("scaffold: empty title")
	}
	if loc := site.DefaultTimezone.Location(); loc != nil {
		now = now.In(loc)
	}

	body, err := render(FrontMatter{
		Title: title,
		Date:  now.Format(time.RFC3339),
		Draft: true,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(contentDir, MakeSlug(title)+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", err
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	zap.S().Infow("post created", "file", path, "site", site.Title)
	return path, nil
}

func render(fm FrontMatter) ([]byte, error) {
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	return b.Bytes(), nil
}
