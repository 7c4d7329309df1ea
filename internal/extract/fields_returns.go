package extract

import (
	"context"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

var (
	returnsTableKeywords = []string{"return", "1y", "1 year"}
	horizonColHints      = map[string][]string{
		"1y":              {"1y", "1 y", "1 year"},
		"3y":              {"3y", "3 y", "3 year"},
		"5y":              {"5y", "5 y", "5 year"},
		"since_inception": {"inception", "all"},
	}
	// Capture group index per horizon in the flattened returns block.
	horizonGroup = map[string]int{"1y": 1, "3y": 2, "5y": 3, "since_inception": 4}
)

func (e *Engine) returns(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	rec.Returns = record.Returns{
		OneYear:        e.horizonReturn(ctx, d, page, "1y"),
		ThreeYear:      e.horizonReturn(ctx, d, page, "3y"),
		FiveYear:       e.horizonReturn(ctx, d, page, "5y"),
		SinceInception: e.horizonReturn(ctx, d, page, "since_inception"),
	}
}

func (e *Engine) horizonReturn(ctx context.Context, d *document.Document, page live.Page, horizon string) string {
	return e.resolve(ctx, d, page, FieldSpec{
		Name: "returns_" + horizon,
		Strategies: []Strategy{
			TableLookup("table-return-"+horizon, returnsTableKeywords, "fund return", horizonColHints[horizon]),
			RegexGroup("block-return-"+horizon, returnsBlockRe, horizonGroup[horizon]),
			RegexWindow("text-return-"+horizon, "fund return", 400, returnTextRe[horizon]),
		},
		Accept: validate.Percent,
	})
}

func (e *Engine) categoryInfo(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	category := e.resolve(ctx, d, page, FieldSpec{
		Name: "category",
		Strategies: []Strategy{
			RegexGroup("text-category-info", categoryTextRe, 1),
			LabelValue("label-category-info", categoryLabelRe, categoryValueRe),
		},
		Accept: func(raw string) (string, bool) {
			return validate.CleanText(raw, 4, 50)
		},
	})
	if category == "" {
		category = rec.Summary.FundCategory
	}
	rec.CategoryInfo.Category = category

	for _, horizon := range []string{"1y", "3y", "5y"} {
		avg := e.resolve(ctx, d, page, FieldSpec{
			Name: "category_average_" + horizon,
			Strategies: []Strategy{
				TableLookup("table-catavg-"+horizon, returnsTableKeywords, "category average", horizonColHints[horizon]),
				RegexGroup("block-catavg-"+horizon, catAvgBlockRe, horizonGroup[horizon]),
			},
			Accept: validate.Percent,
		})
		if avg != "" {
			rec.CategoryInfo.CategoryAverageAnnualised[horizon] = avg
		}

		rank := e.resolveInt(ctx, d, page, "rank_"+horizon, []Strategy{
			TableLookup("table-rank-"+horizon, []string{"rank"}, "rank", horizonColHints[horizon]),
			RegexGroup("block-rank-"+horizon, rankBlockRe, horizonGroup[horizon]),
		}, validate.Rank)
		if rank > 0 {
			rec.CategoryInfo.RankWithinCategory[horizon] = rank
		}
	}
}
