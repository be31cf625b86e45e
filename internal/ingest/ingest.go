// Package ingest normalizes job postings forwarded as raw HTML into plain
// text suitable for optimization. The companion extension captures the
// rendered page; this side only cleans it up.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is a normalized job posting.
type Posting struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Text    string `json:"text"`
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)
var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// ExtractPosting strips page chrome from posting HTML and returns the
// remaining text with title and company pulled heuristically. Plain text
// input passes through with only whitespace normalization.
func ExtractPosting(htmlContent string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse posting HTML: %w", err)
	}

	// Drop everything that is never posting content.
	doc.Find("script, style, noscript, nav, header, footer, iframe, svg, form").Remove()

	posting := &Posting{
		Title:   extractTitle(doc),
		Company: extractCompany(doc),
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	posting.Text = normalizeText(blockText(body))
	if posting.Text == "" {
		return nil, fmt.Errorf("posting has no extractable text")
	}
	return posting, nil
}

func extractTitle(doc *goquery.Document) string {
	// The posting's h1 is more reliable than <title>, which carries site
	// branding.
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	title := strings.TrimSpace(doc.Find("title").Text())
	// "Senior Engineer - Acme | Board" style titles: keep the first segment.
	for _, sep := range []string{" | ", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return strings.TrimSpace(title)
}

func extractCompany(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// blockText walks the selection emitting newlines at block boundaries so list
// items and paragraphs survive as separate lines rather than running together.
func blockText(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				sb.WriteString(c.Text())
				return
			}
			switch goquery.NodeName(c) {
			case "p", "div", "li", "ul", "ol", "section", "article", "br",
				"h1", "h2", "h3", "h4", "h5", "h6", "tr":
				sb.WriteString("\n")
				walk(c)
				sb.WriteString("\n")
			default:
				walk(c)
			}
		})
	}
	walk(sel)
	return sb.String()
}

func normalizeText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
