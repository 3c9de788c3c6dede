package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/scanner"
)

const (
	behanceOrigin          = "https://www.behance.net"
	behanceProjectSelector = "a.ProjectCoverNeue-link"
)

// BehanceExtractor pulls project covers out of a Behance profile page.
type BehanceExtractor struct {
	origin   *url.URL
	selector string
}

var _ scanner.Extractor = (*BehanceExtractor)(nil)

// NewBehanceExtractor builds an extractor; empty arguments fall back to the
// public Behance origin and the project cover link selector.
func NewBehanceExtractor(origin, selector string) (*BehanceExtractor, error) {
	if strings.TrimSpace(origin) == "" {
		origin = behanceOrigin
	}
	if strings.TrimSpace(selector) == "" {
		selector = behanceProjectSelector
	}

	base, err := url.Parse(strings.TrimSuffix(strings.TrimSpace(origin), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid origin %s: %w", origin, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("origin %s must be an absolute URL", origin)
	}
	if base.Path != "/" || base.RawQuery != "" || base.Fragment != "" {
		return nil, fmt.Errorf("origin %s must be scheme and host only", origin)
	}

	return &BehanceExtractor{origin: base, selector: selector}, nil
}

// Name identifies the strategy inside the registry.
func (b *BehanceExtractor) Name() string {
	return "behance"
}

// Extract returns one record per project anchor, in document order.
func (b *BehanceExtractor) Extract(markup []byte, handle string) ([]domain.ArtworkRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	records := make([]domain.ArtworkRecord, 0)
	doc.Find(b.selector).Each(func(_ int, anchor *goquery.Selection) {
		record, ok := b.parseAnchor(anchor, handle)
		if !ok {
			return
		}
		records = append(records, record)
	})

	return records, nil
}

func (b *BehanceExtractor) parseAnchor(anchor *goquery.Selection, handle string) (domain.ArtworkRecord, bool) {
	href, exists := anchor.Attr("href")
	href = strings.TrimSpace(href)
	if !exists || href == "" {
		return domain.ArtworkRecord{}, false
	}

	sourceURL, ok := b.resolve(href)
	if !ok {
		return domain.ArtworkRecord{}, false
	}

	title := domain.UntitledProject
	if label, exists := anchor.Attr("aria-label"); exists {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			title = trimmed
		}
	}

	imageURL := ""
	if src, exists := anchor.Find("img").First().Attr("src"); exists {
		imageURL = strings.TrimSpace(src)
	}

	return domain.ArtworkRecord{
		Title:        title,
		ImageURL:     imageURL,
		ArtistHandle: handle,
		SourceURL:    sourceURL,
		Tags:         []string{},
		Category:     domain.DefaultCategory,
	}, true
}

// resolve joins a page-relative href onto the origin. Absolute http(s) links
// are kept as they are, including links to other hosts; anything else that
// cannot become an absolute URL is rejected.
func (b *BehanceExtractor) resolve(href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := b.origin.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}
