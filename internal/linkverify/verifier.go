package linkverify

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BrokenLink is one internal link whose target does not exist on disk.
type BrokenLink struct {
	Page string // site-relative path of the page containing the link
	URL  string // the unresolvable link
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.URL)
}

// VerifySite walks every HTML file under siteDir and resolves each internal
// link against the output tree. External links are not touched: this is a
// filesystem check, not a crawler.
func VerifySite(siteDir string) ([]BrokenLink, error) {
	var broken []BrokenLink
	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		links, err := ExtractLinks(p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		for _, l := range links {
			if !l.Internal {
				continue
			}
			if !targetExists(siteDir, rel, l.URL) {
				broken = append(broken, BrokenLink{Page: rel, URL: l.URL})
			}
		}
		return nil
	})
	return broken, err
}

// targetExists resolves link relative to the page (or the site root for
// absolute paths) and checks the filesystem. Directory targets count when
// they hold an index.html.
func targetExists(siteDir, page, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	target := u.Path
	if target == "" {
		// query-only or fragment-only reference to the page itself
		return true
	}

	var fsPath string
	if path.IsAbs(target) {
		fsPath = filepath.Join(siteDir, filepath.FromSlash(target))
	} else {
		fsPath = filepath.Join(siteDir, filepath.Dir(filepath.FromSlash(page)), filepath.FromSlash(target))
	}

	info, err := os.Stat(fsPath)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(fsPath, "index.html"))
		return err == nil
	}
	return true
}
