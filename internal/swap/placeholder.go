package swap

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

const defaultMaintenanceMarkdown = `# Rebuilding

The site is being rebuilt and will be back shortly.

This page refreshes automatically.
`

const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="30">
<title>%s</title>
<style>body{font-family:sans-serif;max-width:40rem;margin:4rem auto;padding:0 1rem;color:#333}</style>
</head>
<body>
%s</body>
</html>
`

// RenderMaintenancePage converts the maintenance markdown into the full HTML
// page the placeholder server responds with. customPath optionally overrides
// the built-in notice.
func RenderMaintenancePage(title, customPath string) ([]byte, error) {
	md := defaultMaintenanceMarkdown
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, sferrors.Wrap(err, sferrors.CategoryServer, sferrors.SeverityFatal, "maintenance page not readable").
				WithContext("path", customPath)
		}
		md = string(data)
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("render maintenance markdown: %w", err)
	}
	if title == "" {
		title = "Maintenance"
	}
	return []byte(fmt.Sprintf(pageShell, title, body.String())), nil
}
