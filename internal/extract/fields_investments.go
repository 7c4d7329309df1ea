package extract

import (
	"context"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

func (e *Engine) minimumInvestments(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	minSIP := e.resolve(ctx, d, page, FieldSpec{
		Name: "min_sip",
		Strategies: []Strategy{
			LiveQuery("live-min-sip", `[class*="invest"], [class*="sip"], [class*="minimum"]`, minSIPRe...),
			LabelValue("label-min-sip", minSIPLabelRe, rupeePlainRe),
			RegexWindow("text-min-sip", "", 0, minSIPRe...),
		},
		Accept: validate.Rupee,
	})

	minFirst := e.resolve(ctx, d, page, FieldSpec{
		Name: "min_first_investment",
		Strategies: []Strategy{
			LabelValue("label-min-first", minFirstLabelRe, rupeePlainRe),
			RegexWindow("text-min-first", "", 0, minFirstRe),
		},
		Accept: validate.Rupee,
	})
	if minFirst == "" {
		// Funds that only publish a SIP minimum apply it to the first
		// lump-sum purchase too.
		minFirst = minSIP
	}

	minNext := e.resolve(ctx, d, page, FieldSpec{
		Name: "min_2nd_investment_onwards",
		Strategies: []Strategy{
			LabelValue("label-min-next", minNextLabelRe, rupeePlainRe),
			RegexWindow("text-min-next", "", 0, minNextRe),
		},
		Accept: validate.Rupee,
	})
	if minNext == "" {
		minNext = minSIP
	}

	rec.MinimumInvestments = record.MinimumInvestments{
		MinSIP:                 minSIP,
		MinFirstInvestment:     minFirst,
		Min2ndInvestmentOnward: minNext,
	}
}
