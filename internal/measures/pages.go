package measures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// defaultPageTemplate renders one feature page per measure. Pages carry front
// matter the downstream generator understands plus the raw measure data.
const defaultPageTemplate = `---
title: "{{ .Key }}"
type: feature
measure: "{{ .Key }}"
---

# {{ .Key }}

` + "```yaml\n{{ .ValueYAML }}```\n"

const indexTemplate = `---
title: "Features"
---

# Features
{{ range .Entries }}
- [{{ .Key }}]({{ .Slug }}/)
{{- end }}
`

type pageData struct {
	Key       string
	ValueYAML string
}

// WritePages emits the fixed set of generated feature pages into outDir:
// one page per measure plus a section index. templatePath optionally
// overrides the built-in page template.
func WritePages(m Measures, outDir, templatePath string) error {
	tmplText := defaultPageTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return sferrors.Wrap(err, sferrors.CategoryMeasures, sferrors.SeverityFatal, "feature page template not readable").
				WithContext("path", templatePath)
		}
		tmplText = string(data)
	}
	tmpl, err := template.New("feature").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parse feature page template: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create feature page directory: %w", err)
	}

	for _, key := range m.Keys() {
		valueYAML, err := valueYAML(m[key])
		if err != nil {
			return err
		}
		var b strings.Builder
		if err := tmpl.Execute(&b, pageData{Key: key, ValueYAML: valueYAML}); err != nil {
			return fmt.Errorf("render feature page %q: %w", key, err)
		}
		pageDir := filepath.Join(outDir, slugify(key))
		if err := os.MkdirAll(pageDir, 0o750); err != nil {
			return fmt.Errorf("create feature page directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(pageDir, "index.md"), []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("write feature page %q: %w", key, err)
		}
	}

	idx, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return fmt.Errorf("parse feature index template: %w", err)
	}
	type indexEntry struct{ Key, Slug string }
	entries := make([]indexEntry, 0, len(m))
	for _, key := range m.Keys() {
		entries = append(entries, indexEntry{Key: key, Slug: slugify(key)})
	}
	var b strings.Builder
	if err := idx.Execute(&b, struct{ Entries []indexEntry }{Entries: entries}); err != nil {
		return fmt.Errorf("render feature index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "_index.md"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write feature index: %w", err)
	}
	return nil
}

// slugify maps a measure key to a directory-safe slug.
func slugify(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, s)
	if s == "" {
		s = "measure"
	}
	return s
}
