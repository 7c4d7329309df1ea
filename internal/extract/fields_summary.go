package extract

import (
	"context"
	"strings"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

const riskScript = `(function() {
	var els = document.querySelectorAll('[class*="risk"], [class*="Risk"]');
	var out = [];
	for (var i = 0; i < els.length; i++) {
		var t = (els[i].textContent || '').trim();
		if (t && t.length < 100) { out.push(t); }
	}
	return out.join(' ');
})()`

// fundTypeKeywords map name fragments to the canonical fund type, most
// specific first.
var fundTypeKeywords = []struct{ keyword, fundType string }{
	{"elss", "ELSS"},
	{"tax saver", "ELSS"},
	{"large cap", "Large Cap"},
	{"flexi cap", "Flexi Cap"},
	{"mid cap", "Mid Cap"},
	{"small cap", "Small Cap"},
}

func (e *Engine) summary(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	rec.Summary.FundCategory = e.resolve(ctx, d, page, FieldSpec{
		Name: "fund_category",
		Strategies: []Strategy{
			LabelValue("label-category", categoryLabelRe, categoryValueRe),
			RegexGroup("text-category", categoryTextRe, 1),
		},
		Accept: func(raw string) (string, bool) {
			return validate.CleanText(raw, 5, 50)
		},
	})

	rec.Summary.FundType = fundTypeFromName(rec.FundName)
	rec.Summary.RiskLevel = e.riskLevel(ctx, d, page, rec.Summary.FundCategory)
	rec.Summary.LockInPeriod = e.lockInPeriod(ctx, d, page, rec.FundName)

	rec.Summary.Rating = e.resolveInt(ctx, d, page, "rating", []Strategy{
		LabelValue("label-rating", ratingLabelRe, ratingValueRe),
		XPathText("xpath-rating", `//*[contains(@class, "rating") or contains(@class, "Rating")]`, ratingValueRe),
	}, validate.Rating)
}

func fundTypeFromName(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range fundTypeKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.fundType
		}
	}
	return ""
}

func (e *Engine) riskLevel(ctx context.Context, d *document.Document, page live.Page, category string) string {
	inferred := New("infer-risk", func(_ context.Context, _ *document.Document, _ live.Page) (string, bool) {
		r := riskFromCategory(category)
		return r, r != ""
	})
	return e.resolve(ctx, d, page, FieldSpec{
		Name: "risk_level",
		Strategies: []Strategy{
			LiveScript("live-risk", riskScript, riskPhraseRe, riskValueRe),
			LabelValue("label-risk", riskLabelRe, riskValueRe),
			RegexWindow("text-risk", "", 0, riskPhraseRe),
			XPathText("xpath-riskometer", `//*[contains(@class, "riskometer") or contains(@class, "risk-o-meter")]`, riskValueRe),
			inferred,
		},
		Accept: func(raw string) (string, bool) {
			m := riskValueRe.FindString(raw)
			if m == "" {
				return "", false
			}
			level := canonicalRisk(m)
			if !strings.HasSuffix(level, "Risk") {
				level += " Risk"
			}
			return level, true
		},
	})
}

// riskFromCategory infers a risk level from the fund category when the
// page never states one.
func riskFromCategory(category string) string {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "elss"), strings.Contains(lower, "equity"):
		return "Very High"
	case strings.Contains(lower, "debt"), strings.Contains(lower, "bond"):
		return "Low"
	case strings.Contains(lower, "hybrid"):
		return "Moderate"
	}
	return ""
}

func canonicalRisk(m string) string {
	words := strings.Fields(strings.ToLower(m))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (e *Engine) lockInPeriod(ctx context.Context, d *document.Document, page live.Page, fundName string) string {
	elss := New("infer-elss-lockin", func(_ context.Context, _ *document.Document, _ live.Page) (string, bool) {
		lower := strings.ToLower(fundName)
		if strings.Contains(lower, "elss") || strings.Contains(lower, "tax saver") {
			return "3 years", true
		}
		return "", false
	})
	return e.resolve(ctx, d, page, FieldSpec{
		Name: "lock_in_period",
		Strategies: []Strategy{
			elss,
			RegexWindow("text-lockin", "", 0, lockInTextRe),
			LabelValue("label-lockin", lockInLabelRe, yearsRe),
		},
		Accept: func(raw string) (string, bool) {
			m := yearsRe.FindString(raw)
			if m == "" {
				return "", false
			}
			fields := strings.Fields(strings.ToLower(m))
			n := strings.TrimFunc(fields[0], func(r rune) bool { return r < '0' || r > '9' })
			if n == "" {
				return "", false
			}
			if n == "1" {
				return n + " year", true
			}
			return n + " years", true
		},
	})
}
