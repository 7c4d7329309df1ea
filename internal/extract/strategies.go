package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
)

// maxLabelHits bounds how many label occurrences a structural strategy
// will try before giving up on a page.
const maxLabelHits = 25

// LabelValue is the structural label-and-value strategy: find elements
// whose own text matches label, then read a value from the same node
// after the label, the next element sibling, or the parent's broader
// text, in that fixed sub-order.
func LabelValue(id string, label, value *regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		for _, el := range labelElements(d, label) {
			own := document.NodeText(el)
			if v := valueAfterLabel(own, label, value); v != "" {
				return v, true
			}
			if sib := nextElementSibling(el); sib != nil {
				if v := value.FindString(document.NodeText(sib)); v != "" {
					return v, true
				}
			}
			if el.Parent != nil {
				if v := value.FindString(document.NodeText(el.Parent)); v != "" {
					return v, true
				}
			}
		}
		return "", false
	})
}

// RegexWindow searches the flattened page text with an ordered pattern
// list. With an anchor, the search is restricted to a window of the
// given size starting at the anchor's first occurrence; with an empty
// anchor the whole text is searched.
func RegexWindow(id, anchor string, window int, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		text := d.Text()
		if anchor != "" {
			idx := strings.Index(strings.ToLower(text), strings.ToLower(anchor))
			if idx < 0 {
				return "", false
			}
			end := idx + window
			if end > len(text) {
				end = len(text)
			}
			text = text[idx:end]
		}
		if len(patterns) == 0 {
			return text, text != ""
		}
		for _, re := range patterns {
			if m := re.FindString(text); m != "" {
				return m, true
			}
		}
		return "", false
	})
}

// RegexGroup extracts one capture group from the first full-text match.
func RegexGroup(id string, re *regexp.Regexp, group int) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		m := re.FindStringSubmatch(d.Text())
		if m == nil || group >= len(m) || m[group] == "" {
			return "", false
		}
		return m[group], true
	})
}

// HeadRegex searches only the leading fraction of the page text. Used
// for fields that render near the top of the page, where a later
// occurrence of the same shape is usually a different fund's value.
func HeadRegex(id string, fraction float64, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		text := d.Text()
		if fraction > 0 && fraction < 1 {
			cut := int(float64(len(text)) * fraction)
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		for _, re := range patterns {
			if m := re.FindString(text); m != "" {
				return m, true
			}
		}
		return "", false
	})
}

// SectionRegex locates a semantic section by hint and searches its
// normalized text. Misses when no section matches the hints.
func SectionRegex(id string, hints []string, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		sel := d.LocateSection(hints...)
		if sel == nil {
			return "", false
		}
		text := document.NormalizeWhitespace(sel.Text())
		for _, re := range patterns {
			if m := re.FindString(text); m != "" {
				return m, true
			}
		}
		return "", false
	})
}

// TableLookup scans parsed tables for one whose serialized text
// contains any of keywords, then reads the cell at the row whose label
// matches rowLabel and the column whose header matches any colHint.
func TableLookup(id string, keywords []string, rowLabel string, colHints []string) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		for _, t := range d.Tables() {
			if !tableMatches(t, keywords) {
				continue
			}
			if v := cellFor(t, rowLabel, colHints); v != "" {
				return v, true
			}
		}
		return "", false
	})
}

// LiveQuery reads texts from a live page handle via a CSS selector and
// applies the patterns to the joined result. Misses without a page.
func LiveQuery(id, selector string, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, _ *document.Document, page live.Page) (string, bool) {
		if page == nil {
			return "", false
		}
		texts := page.QueryTexts(selector)
		if len(texts) == 0 {
			return "", false
		}
		joined := strings.Join(texts, " ")
		if len(patterns) == 0 {
			return strings.TrimSpace(joined), joined != ""
		}
		for _, re := range patterns {
			if m := re.FindString(joined); m != "" {
				return m, true
			}
		}
		return "", false
	})
}

// LiveScript evaluates a script against a live page handle and applies
// the patterns to the returned text. Misses without a page.
func LiveScript(id, script string, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(ctx context.Context, _ *document.Document, page live.Page) (string, bool) {
		if page == nil {
			return "", false
		}
		out, err := page.EvaluateText(ctx, script)
		if err != nil || out == "" {
			return "", false
		}
		if len(patterns) == 0 {
			return strings.TrimSpace(out), true
		}
		for _, re := range patterns {
			if m := re.FindString(out); m != "" {
				return m, true
			}
		}
		return "", false
	})
}

// XPathText evaluates an XPath expression and returns the first node
// text, optionally filtered through patterns.
func XPathText(id, expr string, patterns ...*regexp.Regexp) Strategy {
	return New(id, func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		nodes, err := htmlquery.QueryAll(d.Root(), expr)
		if err != nil {
			return "", false
		}
		for _, n := range nodes {
			text := document.NodeText(n)
			if text == "" {
				continue
			}
			if len(patterns) == 0 {
				return text, true
			}
			for _, re := range patterns {
				if m := re.FindString(text); m != "" {
					return m, true
				}
			}
		}
		return "", false
	})
}

// labelElements walks the parse tree in document order collecting
// parent elements of text nodes that match label.
func labelElements(d *document.Document, label *regexp.Regexp) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= maxLabelHits {
			return
		}
		if n.Type == html.TextNode && label.MatchString(n.Data) {
			if p := n.Parent; p != nil && p.Type == html.ElementNode {
				switch p.Data {
				case "script", "style", "noscript":
				default:
					out = append(out, p)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.Root())
	return out
}

// valueAfterLabel applies value to the portion of text after the first
// label match. Returns "" when either pattern misses.
func valueAfterLabel(text string, label, value *regexp.Regexp) string {
	loc := label.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	return value.FindString(text[loc[1]:])
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func tableMatches(t document.Table, keywords []string) bool {
	text := t.Text()
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// cellFor resolves a cell by row label and column hint. Mapped rows
// match hints against header keys; positional rows resolve the column
// index from the header list.
func cellFor(t document.Table, rowLabel string, colHints []string) string {
	if len(t.Mapped) > 0 {
		for _, row := range t.Mapped {
			if !rowHasLabel(row, rowLabel) {
				continue
			}
			// Iterate headers, not the map, so column resolution
			// follows document order.
			for _, key := range t.Headers {
				lk := strings.ToLower(key)
				for _, hint := range colHints {
					if strings.Contains(lk, hint) && strings.TrimSpace(row[key]) != "" {
						return strings.TrimSpace(row[key])
					}
				}
			}
		}
		return ""
	}

	// Positional rows carry no headers, so a column hint has nothing
	// to bind to; the regex fallbacks cover those tables.
	return ""
}

func rowHasLabel(row map[string]string, label string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(v), label) {
			return true
		}
	}
	return false
}
