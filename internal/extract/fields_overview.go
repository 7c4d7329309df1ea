package extract

import (
	"context"
	"strings"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

// Script sources for the live page strategies. These run against the
// rendered page when a browser-backed handle is available; the static
// adapter evaluates them over the parsed tree instead.
const (
	fundSizeScript = `(function() {
	var els = document.querySelectorAll('*');
	for (var i = 0; i < els.length; i++) {
		var t = els[i].textContent || '';
		if (t.indexOf('Fund Size') >= 0 && t.indexOf('Fund Objective') < 0 && t.length < 300) {
			return t;
		}
	}
	return '';
})()`

	aumScript = `(function() {
	var body = document.body.innerText || '';
	var idx = body.toLowerCase().indexOf('fund objective');
	if (idx < 0) { return ''; }
	return body.substring(idx, idx + 2000);
})()`
)

func (e *Engine) fundName(ctx context.Context, d *document.Document, page live.Page) string {
	title := New("title", func(_ context.Context, d *document.Document, _ live.Page) (string, bool) {
		t := d.Title()
		return t, t != ""
	})
	return e.resolve(ctx, d, page, FieldSpec{
		Name:       "fund_name",
		Strategies: []Strategy{title, XPathText("xpath-h1", "//h1")},
		Accept: func(raw string) (string, bool) {
			name := strings.TrimSpace(titleSuffixRe.ReplaceAllString(raw, ""))
			return validate.CleanText(name, 3, 120)
		},
	})
}

// nav resolves the value and as-of date as one pair when the combined
// phrase is present, falling back to independent sub-field chains.
func (e *Engine) nav(ctx context.Context, d *document.Document, page live.Page) record.NAV {
	var nav record.NAV

	combined := e.resolve(ctx, d, page, FieldSpec{
		Name: "nav",
		Strategies: []Strategy{
			LabelValue("label-nav", navLabelRe, navCombinedRe),
			RegexWindow("text-nav", "", 0, navCombinedRe),
		},
		Accept: func(raw string) (string, bool) {
			m := navCombinedRe.FindStringSubmatch(raw)
			if m == nil {
				return "", false
			}
			value, ok := e.bounds.NAV("₹" + m[2])
			if !ok {
				return "", false
			}
			return m[1] + "\x00" + value, true
		},
	})
	if combined != "" {
		parts := strings.SplitN(combined, "\x00", 2)
		nav.AsOf, nav.Value = parts[0], parts[1]
		return nav
	}

	nav.Value = e.resolve(ctx, d, page, FieldSpec{
		Name: "nav_value",
		Strategies: []Strategy{
			LabelValue("label-nav-value", navLabelRe, navValueRe),
			HeadRegex("head-nav-value", 0.33, navValueRe),
		},
		Accept: e.bounds.NAV,
	})
	nav.AsOf = e.resolve(ctx, d, page, FieldSpec{
		Name: "nav_as_of",
		Strategies: []Strategy{
			LabelValue("label-nav-date", navLabelRe, navDateRe),
			RegexWindow("text-nav-date", "nav", 300, navDateRe),
		},
		Accept: func(raw string) (string, bool) {
			m := navDateOnlyRe.FindString(raw)
			return m, m != ""
		},
	})
	return nav
}

func (e *Engine) fundSize(ctx context.Context, d *document.Document, page live.Page) string {
	return e.resolve(ctx, d, page, FieldSpec{
		Name: "fund_size",
		Strategies: []Strategy{
			LiveScript("live-fund-size", fundSizeScript, croreValueRe),
			LabelValue("label-fund-size", fundSizeLabelRe, croreValueRe),
			HeadRegex("head-fund-size", 0.33, fundSizeTextRe),
		},
		Accept: e.bounds.CroreAmount,
	})
}

func (e *Engine) aum(ctx context.Context, d *document.Document, page live.Page) string {
	objectiveHints := []string{"fund objective", "investment objective", "objective"}
	return e.resolve(ctx, d, page, FieldSpec{
		Name: "aum",
		Strategies: []Strategy{
			LiveScript("live-aum", aumScript, aumPatterns...),
			SectionRegex("section-aum", objectiveHints, aumPatterns...),
			RegexWindow("window-aum", "fund objective", 2000, aumPatterns...),
		},
		Accept: e.bounds.CroreAmount,
	})
}
