// Package linkverify checks that internal links in the generated site resolve
// to files that actually exist in the output tree.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is one extracted reference from an HTML document.
type Link struct {
	URL       string // raw href/src value
	Tag       string // a, img, script, link
	Attribute string // href or src
	Internal  bool   // true when the link targets this site
}

var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"script": "src",
	"link":   "href",
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]Link, error) {
	f, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ExtractLinksFromReader(f)
}

// ExtractLinksFromReader extracts all links from an HTML document.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key != attr || a.Val == "" {
						continue
					}
					links = append(links, Link{
						URL:       a.Val,
						Tag:       n.Data,
						Attribute: attr,
						Internal:  isInternal(a.Val),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// isInternal reports whether a link targets the site itself rather than an
// external host, anchor, or non-http scheme.
func isInternal(raw string) bool {
	if strings.HasPrefix(raw, "#") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
