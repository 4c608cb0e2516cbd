package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
	"golang.org/x/net/html"
)

type craigslistSource struct {
	client *http.Client
}

func NewCraigslistSource(ctx context.Context) *craigslistSource {
	return &craigslistSource{
		client: &http.Client{Timeout: xcontext.Configs(ctx).Pipeline.SourceTimeout},
	}
}

func (s *craigslistSource) Name() entity.SourceType {
	return entity.SourceCraigslist
}

func (s *craigslistSource) Fetch(ctx context.Context) ([]RawListing, int, error) {
	cfg := xcontext.Configs(ctx).Craigslist
	url := fmt.Sprintf("%s/search/ggg?query=%s&sort=date", cfg.BaseURL, cfg.Query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: craigslist returned status %d", ErrUnavailable, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rows := findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "li" &&
			(hasClass(n, "result-row") || hasClass(n, "cl-search-result"))
	})

	listings := []RawListing{}
	skipped := 0
	for _, row := range rows {
		if len(listings) >= cfg.Limit {
			break
		}

		listing, ok := s.parseRow(row, cfg.BaseURL)
		if !ok {
			skipped++
			continue
		}

		listings = append(listings, listing)
	}

	return listings, skipped, nil
}

// parseRow extracts one listing from a search result row. The description is
// not available on the search page; price and location stand in for it, like
// the detail fetch fallback of the upstream site scrapers.
func (s *craigslistSource) parseRow(row *html.Node, baseURL string) (RawListing, bool) {
	anchor := findFirst(row, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			(hasClass(n, "result-title") || hasClass(n, "posting-title") || hasClass(n, "titlestring"))
	})
	if anchor == nil {
		return RawListing{}, false
	}

	title := strings.TrimSpace(textContent(anchor))
	if title == "" {
		return RawListing{}, false
	}

	link := attr(anchor, "href")
	if link != "" && !strings.HasPrefix(link, "http") {
		link = baseURL + "/" + strings.TrimPrefix(link, "/")
	}

	price := classText(row, "result-price", "priceinfo")
	location := strings.Trim(classText(row, "result-hood", "meta"), "() ")

	description := strings.TrimSpace(price + " - " + location)

	return RawListing{
		Source:      entity.SourceCraigslist,
		ExternalID:  externalIDFromLink(link),
		Title:       title,
		Description: description,
		Link:        link,
		RewardText:  price,
		Location:    location,
		Score:       -1,
		PostedAt:    time.Now().UTC(),
	}, true
}

// externalIDFromLink takes the last path segment of the posting URL, which
// craigslist keeps stable across re-crawls.
func externalIDFromLink(link string) string {
	if link == "" {
		return ""
	}

	trimmed := strings.TrimSuffix(link, ".html")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}

	return trimmed
}

func classText(root *html.Node, classes ...string) string {
	n := findFirst(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range classes {
			if hasClass(n, c) {
				return true
			}
		}
		return false
	})
	if n == nil {
		return ""
	}

	return strings.TrimSpace(textContent(n))
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	found := []*html.Node{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return found
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if match(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}

	return walk(root)
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}

	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return sb.String()
}
