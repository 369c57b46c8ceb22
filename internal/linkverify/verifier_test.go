package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	doc := `<html><body>
<a href="/creators/">creators</a>
<a href="https://example.com/">external</a>
<a href="#top">anchor</a>
<img src="logo.png">
<script src="/js/app.js"></script>
</body></html>`

	links, err := ExtractLinksFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, links, 5)

	internal := 0
	for _, l := range links {
		if l.Internal {
			internal++
		}
	}
	// External host and pure anchor are not internal.
	assert.Equal(t, 3, internal)
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestVerifySiteAllResolvable(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":          `<a href="/creators/">c</a><a href="lists/index.html">l</a>`,
		"creators/index.html": `<a href="../">home</a>`,
		"lists/index.html":    `<a href="https://example.com">ext</a>`,
	})

	broken, err := VerifySite(dir)
	require.NoError(t, err)
	assert.Empty(t, broken)
}

func TestVerifySiteReportsBrokenLinks(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="/missing/">gone</a><img src="logo.png">`,
	})

	broken, err := VerifySite(dir)
	require.NoError(t, err)
	require.Len(t, broken, 2)
	assert.Equal(t, "index.html", broken[0].Page)
}

func TestVerifySiteDirectoryNeedsIndex(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":       `<a href="/empty/">e</a>`,
		"empty/notes.html": `ok`,
	})

	broken, err := VerifySite(dir)
	require.NoError(t, err)
	// /empty/ has no index.html, so the directory link is broken.
	require.Len(t, broken, 1)
	assert.Equal(t, "/empty/", broken[0].URL)
}
