// Package live defines the rendered-page capability that extraction
// strategies may use when a page's sections are populated by
// scroll-triggered lazy loading.
//
// The extraction engine depends only on this interface. Production
// wiring satisfies it with a browser-automation adapter owned by the
// fetch layer; this repo ships a goja-backed static adapter in the
// sandbox subpackage for serving and testing without a browser.
package live

import (
	"context"
	"time"
)

// Page is a read-only handle onto a rendered page. All calls are
// synchronous; blocking calls are bounded by timeouts configured in the
// layer that constructed the handle, never retried here.
type Page interface {
	// ScrollTo scrolls to a fraction of the page height in [0,1].
	ScrollTo(fraction float64) error

	// WaitForTimeout pauses to let lazily loaded content settle.
	WaitForTimeout(d time.Duration)

	// EvaluateText runs a script in the page and returns its string result.
	EvaluateText(ctx context.Context, script string) (string, error)

	// QueryTexts returns the text content of every node matching the
	// CSS selector, in document order.
	QueryTexts(selector string) []string
}
