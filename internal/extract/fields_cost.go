package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

const exitLoadScript = `(function() {
	var body = document.body.innerText || '';
	var idx = body.toLowerCase().indexOf('exit load');
	if (idx < 0) { return ''; }
	return body.substring(idx, idx + 400);
})()`

func (e *Engine) costAndTax(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	rec.CostAndTax.ExpenseRatio = e.resolve(ctx, d, page, FieldSpec{
		Name: "expense_ratio",
		Strategies: []Strategy{
			LabelValue("label-expense", expenseLabelRe, percentValueRe),
			RegexWindow("text-expense", "", 0, expenseTextRe),
		},
		Accept: validate.Percent,
	})

	// Pages publish the ratio without its own effective date; the NAV
	// as-of date is the closest statement of when the figures held.
	rec.CostAndTax.ExpenseRatioEffectiveFrom = rec.NAV.AsOf

	rec.CostAndTax.ExitLoad = e.exitLoad(ctx, d, page)

	rec.CostAndTax.StampDuty = e.resolve(ctx, d, page, FieldSpec{
		Name: "stamp_duty",
		Strategies: []Strategy{
			LabelValue("label-stamp", stampLabelRe, percentValueRe),
			RegexWindow("text-stamp", "", 0, stampTextRe),
		},
		Accept: validate.Percent,
	})

	rec.CostAndTax.TaxImplication = e.resolve(ctx, d, page, FieldSpec{
		Name: "tax_implication",
		Strategies: []Strategy{
			LabelValue("label-tax", taxLabelRe, taxTextRe),
			RegexWindow("text-tax", "", 0, taxTextRe),
		},
		Accept: func(raw string) (string, bool) {
			m := taxTextRe.FindStringSubmatch(raw)
			text := raw
			if m != nil {
				text = m[1]
			}
			return validate.CleanText(validate.StripMarkup(text), 20, 300)
		},
	})
}

// exitLoad pulls the exit load context from the page and reconstructs
// the canonical sentence from its numeric parts. Defaults to "Nil":
// funds without an exit load usually omit the row entirely.
func (e *Engine) exitLoad(ctx context.Context, d *document.Document, page live.Page) string {
	for _, strat := range []Strategy{
		LiveScript("live-exit-load", exitLoadScript),
		LabelValue("label-exit-load", exitLoadLabelRe, exitLoadContextRe),
		RegexWindow("window-exit-load", "exit load", 400),
	} {
		raw, ok := e.attempt(ctx, strat, d, page)
		if !ok {
			continue
		}
		if sentence, ok := exitLoadFrom(raw); ok {
			return sentence
		}
	}
	return "Nil"
}

func exitLoadFrom(text string) (string, bool) {
	if exitLoadNilRe.MatchString(text) {
		return "Nil", true
	}
	if m := exitLoadFullRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("Exit load for units in excess of %s%%, %s%% will be charged for redemption within %s %s",
			m[1], m[2], m[3], strings.ToLower(m[4])), true
	}
	if m := exitLoadPctRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("Exit load of %s%% if redeemed within %s %s",
			m[1], m[2], strings.ToLower(m[3])), true
	}
	return "", false
}
