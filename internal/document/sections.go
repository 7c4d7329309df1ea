package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// sectionTextCap bounds the text length of a containment match so that
// a hint appearing in a whole-page wrapper never selects that wrapper.
const sectionTextCap = 200

// containerSelector lists the element kinds treated as section
// containers when walking up from a matching node.
const containerSelector = "div, section, article"

// LocateSection finds the container of a named page section. Hints are
// matched case-insensitively, in three passes of decreasing precision:
// heading text (h2-h6), class/id attribute substrings, then any short
// element whose text contains a hint. The nearest div/section/article
// ancestor of the first match is returned, or nil when nothing matches.
func (d *Document) LocateSection(hints ...string) *goquery.Selection {
	lowered := make([]string, len(hints))
	for i, h := range hints {
		lowered[i] = strings.ToLower(h)
	}

	if sel := d.sectionByHeading(lowered); sel != nil {
		return sel
	}
	if sel := d.sectionByAttr(lowered); sel != nil {
		return sel
	}
	return d.sectionByText(lowered)
}

func (d *Document) sectionByHeading(hints []string) *goquery.Selection {
	var found *goquery.Selection
	d.doc.Find("h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if containsAny(text, hints) {
			found = containerOf(s)
			return false
		}
		return true
	})
	return found
}

func (d *Document) sectionByAttr(hints []string) *goquery.Selection {
	var found *goquery.Selection
	d.doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attrs := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
		if containsAny(attrs, hints) {
			found = containerOf(s)
			return false
		}
		return true
	})
	return found
}

func (d *Document) sectionByText(hints []string) *goquery.Selection {
	var found *goquery.Selection
	d.doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) >= sectionTextCap {
			return true
		}
		if containsAny(strings.ToLower(text), hints) {
			found = containerOf(s)
			return false
		}
		return true
	})
	return found
}

// containerOf walks up to the nearest section container, falling back
// to the direct parent when the match has no such ancestor.
func containerOf(s *goquery.Selection) *goquery.Selection {
	if c := s.Closest(containerSelector); c.Length() > 0 {
		return c
	}
	if p := s.Parent(); p.Length() > 0 {
		return p
	}
	return s
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
