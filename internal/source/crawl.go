package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// Crawl limits. The crawler is a reconnaissance aid, not a spider; tight
// caps keep a scan bounded on large sites.
const (
	DefaultCrawlDepth    = 2
	DefaultCrawlMaxPages = 30
	maxLinksPerPage      = 20
	crawlUserAgent       = "sensit-scanner/1.0"
	maxPageBytes         = 5 << 20
)

// CrawlSource fetches a page and same-domain pages and scripts linked from
// it, breadth-first, up to MaxDepth hops and MaxPages fetches.
type CrawlSource struct {
	Client   *http.Client
	MaxDepth int
	MaxPages int
	Log      logrus.FieldLogger
}

func NewCrawlSource(log logrus.FieldLogger) *CrawlSource {
	return &CrawlSource{
		Client:   &http.Client{Timeout: 15 * time.Second},
		MaxDepth: DefaultCrawlDepth,
		MaxPages: DefaultCrawlMaxPages,
		Log:      log,
	}
}

type crawlItem struct {
	url   string
	depth int
}

func (c *CrawlSource) Acquire(ctx context.Context, target string, emit EmitFunc) error {
	root, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", target, err)
	}
	if root.Scheme != "http" && root.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", root.Scheme)
	}

	visited := map[string]bool{}
	queue := []crawlItem{{url: root.String(), depth: 0}}
	pages := 0

	for len(queue) > 0 && pages < c.MaxPages {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := queue[0]
		queue = queue[1:]
		if visited[item.url] {
			continue
		}
		visited[item.url] = true

		body, contentType, err := c.fetch(ctx, item.url)
		if err != nil {
			c.Log.WithError(err).WithField("url", item.url).Debug("fetch failed")
			continue
		}
		pages++
		emit(item.url, body)

		if item.depth >= c.MaxDepth || !strings.Contains(contentType, "html") {
			continue
		}
		for _, link := range extractLinks(body, root) {
			if !visited[link] {
				queue = append(queue, crawlItem{url: link, depth: item.depth + 1})
			}
		}
	}
	if pages == 0 {
		return fmt.Errorf("no pages fetched from %s", target)
	}
	return nil
}

func (c *CrawlSource) fetch(ctx context.Context, u string) (body, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", crawlUserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%s: %s", u, resp.Status)
	}
	ct := resp.Header.Get("Content-Type")
	if !scannableContentType(ct) {
		return "", "", fmt.Errorf("%s: skipping content type %q", u, ct)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", "", err
	}
	return string(raw), ct, nil
}

func scannableContentType(ct string) bool {
	for _, want := range []string{"text/html", "text/plain", "javascript", "json", "xml"} {
		if strings.Contains(ct, want) {
			return true
		}
	}
	return false
}

// extractLinks pulls same-domain <a href> and <script src> targets from an
// HTML document, capped per page.
func extractLinks(body string, root *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if len(out) >= maxLinksPerPage {
			return
		}
		if n.Type == html.ElementNode {
			var attr string
			switch n.Data {
			case "a":
				attr = "href"
			case "script":
				attr = "src"
			}
			if attr != "" {
				for _, a := range n.Attr {
					if a.Key != attr {
						continue
					}
					if link, ok := resolveSameDomain(a.Val, root); ok && !seen[link] {
						seen[link] = true
						out = append(out, link)
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)
	return out
}

func resolveSameDomain(raw string, root *url.URL) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "mailto:") || strings.HasPrefix(raw, "javascript:") {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := root.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if abs.Hostname() != root.Hostname() {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}
