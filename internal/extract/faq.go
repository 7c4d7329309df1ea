package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

const (
	maxFAQs         = 10
	maxAnswerLen    = 500
	minQuestionLen  = 10
	maxQuestionLen  = 250
	bottomPageStart = 0.7
)

var (
	faqSectionHints = []string{"frequently asked", "faq"}

	// Question-bearing shapes, scanned together in document order.
	questionSelector = strings.Join([]string{
		"h3", "h4", "h5", "h6",
		"button[aria-expanded]",
		"summary",
		`[class*="question"]`, `[class*="Question"]`,
		`[class*="faq"]`, `[class*="FAQ"]`,
	}, ", ")

	accordionSelector = `[class*="accordion"], [class*="Accordion"], [class*="collapse"], details`

	interrogatives = []string{"what", "how", "why", "when", "where", "which", "who", "is", "are", "can", "should", "does", "do"}
)

// faq collects question and answer pairs. Sections are located by
// heading hint first, then by accordion markup, then by position near
// the bottom of the page. Results are deduplicated and capped.
func (e *Engine) faq(_ context.Context, d *document.Document, _ live.Page) []record.QA {
	out := []record.QA{}

	section := d.LocateSection(faqSectionHints...)
	if section == nil {
		section = accordionSection(d)
	}
	if section == nil {
		section = bottomQuestionSection(d)
	}
	if section == nil {
		return out
	}

	seen := map[string]bool{}
	section.Find(questionSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		q := document.NormalizeWhitespace(s.Text())
		if !plausibleQuestion(q) || seen[q] {
			return true
		}
		seen[q] = true
		out = append(out, record.QA{Question: q, Answer: answerFor(s, q)})
		return len(out) < maxFAQs
	})
	return out
}

func plausibleQuestion(q string) bool {
	return strings.Contains(q, "?") && len(q) >= minQuestionLen && len(q) <= maxQuestionLen
}

// answerFor reads the answer near a question node: the next sibling,
// then the parent's next sibling, then the parent's own trailing text.
func answerFor(q *goquery.Selection, question string) string {
	if a := answerText(q.Next().Text()); a != "" {
		return a
	}
	if a := answerText(q.Parent().Next().Text()); a != "" {
		return a
	}
	parent := document.NormalizeWhitespace(q.Parent().Text())
	if idx := strings.Index(parent, question); idx >= 0 {
		return answerText(parent[idx+len(question):])
	}
	return ""
}

// answerText normalizes a raw answer, truncating at the next question
// mark so one accordion panel's text never swallows its neighbor, and
// otherwise after three sentences.
func answerText(raw string) string {
	text := document.NormalizeWhitespace(validate.StripMarkup(raw))
	if text == "" {
		return ""
	}
	if idx := strings.Index(text, "?"); idx >= 0 {
		// Back up to the start of the sentence holding the next
		// question.
		if cut := strings.LastIndex(text[:idx], ". "); cut >= 0 {
			text = text[:cut+1]
		} else {
			text = text[:idx]
		}
	}
	text = firstSentences(text, 3)
	if cleaned, ok := validate.CleanText(text, 1, maxAnswerLen); ok {
		return cleaned
	}
	return ""
}

func firstSentences(text string, n int) string {
	count, end := 0, len(text)
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '.' && text[i+1] == ' ' {
			count++
			if count == n {
				end = i + 1
				break
			}
		}
	}
	return strings.TrimSpace(text[:end])
}

// accordionSection falls back to collapse or details markup when no
// heading names the FAQ block.
func accordionSection(d *document.Document) *goquery.Selection {
	sel := d.Doc().Find(accordionSelector).First()
	if sel.Length() == 0 {
		return nil
	}
	if parent := sel.Closest("div, section, article"); parent.Length() > 0 {
		return parent
	}
	return sel
}

// bottomQuestionSection looks for a question-shaped element in the
// last stretch of the page, where FAQ blocks conventionally render.
func bottomQuestionSection(d *document.Document) *goquery.Selection {
	all := d.Doc().Find("body *")
	n := all.Length()
	if n == 0 {
		return nil
	}
	var found *goquery.Selection
	all.Slice(int(float64(n)*bottomPageStart), n).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := document.NormalizeWhitespace(s.Text())
		if len(t) < 15 || len(t) > 200 || !strings.Contains(t, "?") {
			return true
		}
		first := strings.ToLower(strings.SplitN(t, " ", 2)[0])
		for _, w := range interrogatives {
			if first == w {
				found = s
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil
	}
	if parent := found.Closest("div, section, article"); parent.Length() > 0 {
		return parent
	}
	return found
}
