package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-marksnap/internal/fileutil"
)

// RewriteImagePaths turns relative <img src> values in a rendered segment into
// absolute file:// URLs under sourceDir. Surfaces are loaded by the browser from
// a temp file, so relative image paths would otherwise resolve against the temp
// directory. Links are left alone: they are not clickable in an exported image.
//
// Paths that escape sourceDir, URLs, data URIs and absolute paths are kept as-is.
// An empty sourceDir returns the fragment unchanged.
func RewriteImagePaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteImages(n, absDir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteImages walks the tree and rewrites img[src].
func rewriteImages(n *html.Node, dir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			abs := filepath.Join(dir, attr.Val)
			if !isPathUnderDir(abs, dir) {
				continue
			}
			n.Attr[i].Val = pathToFileURL(abs)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, dir)
	}
}

// isRelativePath reports whether path is a plain relative filesystem path.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if fileutil.IsURL(path) || strings.HasPrefix(path, "file://") || strings.HasPrefix(path, "data:") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks that absPath does not escape dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
