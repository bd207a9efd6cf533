// Package htmlinline rewrites image references inside HTML.
package htmlinline

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReplaceFunc maps an img src value to its replacement.
// Returning keep=true leaves the attribute unchanged.
type ReplaceFunc func(src string) (replacement string, keep bool, err error)

// RewriteImages calls fn for every local img[src] and stores the result.
// URLs, data URIs, protocol-relative references and anchors are skipped.
// The first error from fn aborts the rewrite.
func RewriteImages(htmlContent string, fn ReplaceFunc) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	if err := rewriteNode(doc, fn); err != nil {
		return "", err
	}

	return renderHTML(doc, isFragment)
}

// IsLocalPath reports whether src refers to a file rather than a URL.
// Anything carrying a scheme, protocol-relative references and fragments
// are not local.
func IsLocalPath(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "//") || strings.HasPrefix(src, "#") {
		return false
	}

	u, err := url.Parse(src)
	if err != nil {
		// Unparsable values such as "a%zz.png" are still plain file names
		// unless they start with a scheme.
		scheme, _, found := strings.Cut(src, ":")
		return !found || strings.ContainsAny(scheme, "/\\.")
	}

	return u.Scheme == ""
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node and whether it was a fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Parse with body context to avoid the <html><body> wrapper
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// Fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, fn ReplaceFunc) error {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Namespace != "" || attr.Key != "src" || !IsLocalPath(attr.Val) {
				continue
			}

			replacement, keep, err := fn(strings.TrimSpace(attr.Val))
			if err != nil {
				return err
			}
			if !keep {
				n.Attr[i].Val = replacement
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := rewriteNode(c, fn); err != nil {
			return err
		}
	}

	return nil
}
