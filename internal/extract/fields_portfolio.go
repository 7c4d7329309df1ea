package extract

import (
	"context"
	"strings"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

const ratiosScript = `(function() {
	var els = document.querySelectorAll('[class*="ratio"], [class*="Ratio"], [class*="advanced"]');
	var out = [];
	for (var i = 0; i < els.length; i++) {
		var t = (els[i].textContent || '').trim();
		if (t) { out.push(t); }
	}
	return out.join(' ');
})()`

var (
	holdingsTableKeywords = []string{"holding", "stock", "company", "instrument"}
	holdingNameColHints   = []string{"name", "holding", "stock", "company", "instrument"}
	holdingPctColHints    = []string{"asset", "%", "weight", "allocation"}

	// Aggregate rows that look like holdings but describe the asset
	// class mix instead.
	genericHoldingNames = map[string]bool{
		"equity": true, "debt": true, "cash": true, "others": true,
		"other": true, "total": true, "cash & equivalents": true,
	}
)

// maxHoldingsScan is how many candidate rows to inspect before taking
// the top slice; pages interleave aggregate rows with real holdings.
const maxHoldingsScan = 10

func (e *Engine) portfolio(ctx context.Context, d *document.Document, page live.Page, rec *record.FundRecord) {
	rec.Top5Holdings = e.topHoldings(d)

	rec.AdvancedRatios.PERatio = e.resolve(ctx, d, page, FieldSpec{
		Name: "pe_ratio",
		Strategies: []Strategy{
			LabelValue("label-pe", peLabelRe, plainNumberRe),
			LiveScript("live-pe", ratiosScript, peTextRe),
			RegexWindow("text-pe", "", 0, peTextRe),
		},
		Accept: e.bounds.PERatio,
	})
	rec.AdvancedRatios.PBRatio = e.resolve(ctx, d, page, FieldSpec{
		Name: "pb_ratio",
		Strategies: []Strategy{
			LabelValue("label-pb", pbLabelRe, plainNumberRe),
			LiveScript("live-pb", ratiosScript, pbTextRe),
			RegexWindow("text-pb", "", 0, pbTextRe),
		},
		Accept: e.bounds.PBRatio,
	})

	rec.AdvancedRatios.Alpha = e.plainRatio(ctx, d, page, "alpha")
	rec.AdvancedRatios.Beta = e.plainRatio(ctx, d, page, "beta")
	rec.AdvancedRatios.SharpeRatio = e.plainRatio(ctx, d, page, "sharpe")
	rec.AdvancedRatios.SortinoRatio = e.plainRatio(ctx, d, page, "sortino")

	rec.AdvancedRatios.Top5WeightPct = e.resolve(ctx, d, page, FieldSpec{
		Name: "top_5_weight_pct",
		Strategies: []Strategy{
			LiveScript("live-top5-weight", ratiosScript, top5WeightRe),
			RegexWindow("text-top5-weight", "", 0, top5WeightRe),
		},
		Accept: validate.Percent,
	})
	rec.AdvancedRatios.Top20WeightPct = e.resolve(ctx, d, page, FieldSpec{
		Name: "top_20_weight_pct",
		Strategies: []Strategy{
			LiveScript("live-top20-weight", ratiosScript, top20WeightRe),
			RegexWindow("text-top20-weight", "", 0, top20WeightRe),
		},
		Accept: validate.Percent,
	})
}

func (e *Engine) plainRatio(ctx context.Context, d *document.Document, page live.Page, name string) string {
	return e.resolve(ctx, d, page, FieldSpec{
		Name: name,
		Strategies: []Strategy{
			LabelValue("label-"+name, ratioLabelRe[name], signedNumberRe),
			LiveScript("live-"+name, ratiosScript, ratioTextRe[name]),
			RegexWindow("text-"+name, "", 0, ratioTextRe[name]),
		},
		Accept: func(raw string) (string, bool) {
			m := ratioTextRe[name].FindStringSubmatch(raw)
			if m != nil {
				return validate.Number(m[1])
			}
			return validate.Number(raw)
		},
	})
}

// topHoldings scans the first table that looks like a holdings list
// and returns up to five real holdings in page order.
func (e *Engine) topHoldings(d *document.Document) []record.Holding {
	for _, t := range d.Tables() {
		if !tableMatches(t, holdingsTableKeywords) {
			continue
		}
		if holdings := holdingsFromTable(t); len(holdings) > 0 {
			if len(holdings) > 5 {
				holdings = holdings[:5]
			}
			return holdings
		}
	}
	return []record.Holding{}
}

func holdingsFromTable(t document.Table) []record.Holding {
	nameCol, pctCol := holdingColumns(t.Headers)
	if nameCol < 0 {
		nameCol = 0
	}
	var out []record.Holding
	for _, row := range tableRows(t) {
		if len(out) >= maxHoldingsScan {
			break
		}
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if len(name) <= 3 || genericHoldingNames[strings.ToLower(name)] {
			continue
		}
		pct := ""
		if pctCol >= 0 && pctCol < len(row) {
			if v, ok := validate.Percent(row[pctCol]); ok {
				pct = v
			}
		}
		if pct == "" {
			// No header hint resolved a percent column; take the
			// first cell in the row that parses as one.
			for i, cell := range row {
				if i == nameCol {
					continue
				}
				if v, ok := validate.Percent(cell); ok {
					pct = v
					break
				}
			}
		}
		out = append(out, record.Holding{Name: name, AssetPct: pct})
	}
	return out
}

// tableRows flattens both table shapes into positional rows following
// the header order.
func tableRows(t document.Table) [][]string {
	if len(t.Rows) > 0 {
		return t.Rows
	}
	rows := make([][]string, 0, len(t.Mapped))
	for _, m := range t.Mapped {
		row := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			row[i] = m[h]
		}
		rows = append(rows, row)
	}
	return rows
}

func holdingColumns(headers []string) (nameCol, pctCol int) {
	nameCol, pctCol = -1, -1
	for i, h := range headers {
		lh := strings.ToLower(h)
		if nameCol < 0 {
			for _, hint := range holdingNameColHints {
				if strings.Contains(lh, hint) {
					nameCol = i
					break
				}
			}
		}
		if pctCol < 0 {
			for _, hint := range holdingPctColHints {
				if strings.Contains(lh, hint) {
					pctCol = i
					break
				}
			}
		}
	}
	return nameCol, pctCol
}
