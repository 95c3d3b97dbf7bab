// Package linkcheck finds external links in a generated project and probes
// them over HTTP with bounded concurrency.
package linkcheck

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/net/html"
)

// Link is one external reference found in a generated page.
type Link struct {
	URL  string `json:"url"`
	Page string `json:"page"`
	Line int    `json:"-"`
}

// Collect walks the output tree and gathers http(s) anchors from every .html
// file. Each URL is reported once per page.
func Collect(fs billy.Filesystem, root string) ([]Link, error) {
	var links []Link
	if err := walkHTML(fs, root, func(rel string) error {
		f, err := fs.Open(path.Join(root, rel))
		if err != nil {
			return fmt.Errorf("open %s: %w", rel, err)
		}
		defer f.Close()

		urls, err := anchorURLs(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}
		for _, u := range urls {
			links = append(links, Link{URL: u, Page: rel})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return links, nil
}

func walkHTML(fs billy.Filesystem, root string, fn func(rel string) error) error {
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ReadDir(path.Join(root, dir))
		if err != nil {
			return fmt.Errorf("read dir %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			rel := path.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(rel); err != nil {
					return err
				}
				continue
			}
			if strings.EqualFold(path.Ext(e.Name()), ".html") {
				if err := fn(rel); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(".")
}

// anchorURLs returns deduplicated external href values, in document order.
func anchorURLs(r interface{ Read([]byte) (int, error) }) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var urls []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				u := strings.TrimSpace(attr.Val)
				if isExternal(u) && !seen[u] {
					seen[u] = true
					urls = append(urls, u)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return urls, nil
}

func isExternal(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
