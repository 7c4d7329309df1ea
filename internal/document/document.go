// Package document wraps a parsed HTML page behind an immutable model.
//
// A Document is created once per page and never mutated. It exposes the
// goquery tree for structural queries, the raw node tree for XPath
// queries, and a memoized whitespace-normalized text projection for
// regex strategies. Tables are derived once and cached for reuse by
// every field pipeline.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion.
const MaxHTMLSize = 10 * 1024 * 1024

// ErrParse indicates the input could not be tokenized as HTML at all.
var ErrParse = errors.New("document: unparseable input")

// Document is an immutable parsed page.
type Document struct {
	doc  *goquery.Document
	root *html.Node

	textOnce sync.Once
	text     string

	tablesOnce sync.Once
	tables     []Table
}

// Parse builds a Document from raw HTML with automatic charset
// detection. It fails only when the input is empty, oversized, or
// cannot be tokenized; partial or malformed markup still parses.
func Parse(htmlStr string) (*Document, error) {
	if err := validateInput(htmlStr); err != nil {
		return nil, err
	}

	root, err := html.Parse(decodingReader([]byte(htmlStr)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return &Document{
		doc:  goquery.NewDocumentFromNode(root),
		root: root,
	}, nil
}

func validateInput(htmlStr string) error {
	if strings.TrimSpace(htmlStr) == "" {
		return fmt.Errorf("%w: empty input", ErrParse)
	}
	if len(htmlStr) > MaxHTMLSize {
		return fmt.Errorf("%w: input exceeds %d bytes", ErrParse, MaxHTMLSize)
	}
	if !strings.Contains(htmlStr, "<") {
		return fmt.Errorf("%w: no markup found", ErrParse)
	}
	return nil
}

// decodingReader converts input bytes to UTF-8 using detected charset,
// falling back to the raw bytes when detection or conversion fails.
func decodingReader(data []byte) *bytes.Reader {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return bytes.NewReader(data)
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), strings.ToLower(result.Charset))
	if err != nil {
		return bytes.NewReader(data)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(utf8Reader); err != nil {
		return bytes.NewReader(data)
	}
	return bytes.NewReader(buf.Bytes())
}

// Doc returns the goquery tree for CSS-selector queries.
func (d *Document) Doc() *goquery.Document {
	return d.doc
}

// Root returns the underlying node tree for XPath queries.
func (d *Document) Root() *html.Node {
	return d.root
}

// Text returns the flattened projection of the page: all visible text
// with tags stripped and whitespace collapsed. Computed once.
func (d *Document) Text() string {
	d.textOnce.Do(func() {
		d.text = NormalizeWhitespace(visibleText(d.root))
	})
	return d.text
}

// Title returns the trimmed page title, falling back to og:title.
func (d *Document) Title() string {
	title := strings.TrimSpace(d.doc.Find("title").First().Text())
	if title == "" {
		title = d.doc.Find("meta[property='og:title']").AttrOr("content", "")
	}
	return title
}

// visibleText walks the node tree collecting text nodes, joining them
// with spaces. Script, style, and noscript subtrees are skipped.
func visibleText(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// NodeText extracts the trimmed text content of a single node subtree.
func NodeText(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeWhitespace(buf.String())
}

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
