// Package sandbox implements live.Page over an already-parsed document
// using an embedded goja runtime. Scroll and wait are no-ops because a
// static tree is fully materialized; script evaluation sees a minimal
// document object backed by the parsed page.
package sandbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"

	"github.com/fundsift/fundsift/internal/document"
)

// DefaultTimeout bounds a single script evaluation.
const DefaultTimeout = 5 * time.Second

// Page adapts a parsed Document to the live.Page interface.
type Page struct {
	doc     *document.Document
	vm      *goja.Runtime
	timeout time.Duration
	mu      sync.Mutex
}

// New builds a sandboxed page over doc.
func New(doc *document.Document) (*Page, error) {
	p := &Page{
		doc:     doc,
		vm:      goja.New(),
		timeout: DefaultTimeout,
	}
	if err := p.setupGlobals(); err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	return p, nil
}

// ScrollTo is a no-op: a parsed tree has no viewport.
func (p *Page) ScrollTo(fraction float64) error {
	return nil
}

// WaitForTimeout is a no-op: static content never settles further.
func (p *Page) WaitForTimeout(d time.Duration) {}

// EvaluateText runs script with an interrupt-based timeout and returns
// the result coerced to a string. Null and undefined map to "".
func (p *Page) EvaluateText(ctx context.Context, script string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-timer.C:
			p.vm.Interrupt("evaluation timeout exceeded")
		case <-ctx.Done():
			p.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := p.vm.RunString(script)
	if err != nil {
		return "", fmt.Errorf("sandbox: script failed: %w", err)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return "", nil
	}
	return val.String(), nil
}

// QueryTexts returns trimmed text content per match, in document order.
// Invalid selectors yield no matches rather than a failure.
func (p *Page) QueryTexts(selector string) (texts []string) {
	defer func() {
		if recover() != nil {
			texts = nil
		}
	}()
	p.doc.Doc().Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

func (p *Page) setupGlobals() error {
	body := p.vm.NewObject()
	if err := body.Set("innerText", p.doc.Text()); err != nil {
		return err
	}

	doc := p.vm.NewObject()
	if err := doc.Set("body", body); err != nil {
		return err
	}
	if err := doc.Set("title", p.doc.Title()); err != nil {
		return err
	}
	// Scripts written against a real DOM read textContent off each
	// match, so matches are element-shaped objects, not bare strings.
	if err := doc.Set("querySelectorAll", func(selector string) []map[string]string {
		texts := p.QueryTexts(selector)
		els := make([]map[string]string, len(texts))
		for i, text := range texts {
			els[i] = map[string]string{"textContent": text}
		}
		return els
	}); err != nil {
		return err
	}

	return p.vm.Set("document", doc)
}
