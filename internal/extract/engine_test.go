package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
)

const fundPageHTML = `<!DOCTYPE html>
<html>
<head><title>XYZ Flexi Cap Fund - NAV, Mutual Fund Performance &amp; Review</title></head>
<body>
<h1>XYZ Flexi Cap Fund</h1>
<div>Latest NAV as of 01 Jan 2024 ₹145.20</div>
<div><span>Fund Size</span><span>₹12,345.60 Cr</span></div>
<div>Rating: 4</div>
<div>Category: Equity Flexi Cap</div>
<div>Riskometer Very High Risk</div>
<div><span>Min. SIP Amount</span><span>₹500</span></div>
<section>
  <h2>Fund Objective</h2>
  <p>The scheme seeks long-term capital growth. AUM: ₹48,870.60 Cr</p>
</section>
<table>
  <thead><tr><th>Period</th><th>1Y</th><th>3Y</th><th>5Y</th></tr></thead>
  <tbody>
    <tr><td>Fund returns</td><td>22.3%</td><td>15.1%</td><td>13.8%</td></tr>
    <tr><td>Category average</td><td>18.2%</td><td>13.4%</td><td>12.1%</td></tr>
  </tbody>
</table>
<div>Expense Ratio: 0.52%</div>
<div>Stamp duty: 0.005%</div>
<div>Exit load of 1% if redeemed within 365 days</div>
<table>
  <thead><tr><th>Holding Name</th><th>Assets</th></tr></thead>
  <tbody>
    <tr><td>Equity</td><td>95.0%</td></tr>
    <tr><td>HDFC Bank Ltd.</td><td>9.2%</td></tr>
    <tr><td>ICICI Bank Ltd.</td><td>8.1%</td></tr>
    <tr><td>Reliance Industries Ltd.</td><td>6.5%</td></tr>
    <tr><td>Infosys Ltd.</td><td>5.9%</td></tr>
    <tr><td>Larsen &amp; Toubro Ltd.</td><td>4.8%</td></tr>
    <tr><td>Axis Bank Ltd.</td><td>3.7%</td></tr>
  </tbody>
</table>
<div>P/E Ratio: 24.5</div>
<div>P/B Ratio: 3.4</div>
</body>
</html>`

func testEngine() *Engine {
	return NewEngine(WithClock(func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}))
}

func TestBuildRecordEndToEnd(t *testing.T) {
	doc := mustParse(t, fundPageHTML)
	rec := testEngine().BuildRecord(context.Background(), doc, nil, "https://example.com/mutual-funds/xyz-flexi-cap-fund")

	assert.Equal(t, "XYZ Flexi Cap Fund", rec.FundName)
	assert.Equal(t, "₹145.20", rec.NAV.Value)
	assert.Equal(t, "01 Jan 2024", rec.NAV.AsOf)
	assert.Equal(t, "₹12,345.6Cr", rec.FundSize)
	assert.Equal(t, "₹48,870.6Cr", rec.AUM)

	assert.Equal(t, "Flexi Cap", rec.Summary.FundType)
	assert.Equal(t, 4, rec.Summary.Rating)
	assert.Equal(t, "Very High Risk", rec.Summary.RiskLevel)
	assert.Contains(t, rec.Summary.FundCategory, "Equity")

	assert.Equal(t, "₹500", rec.MinimumInvestments.MinSIP)
	// Without explicit first and subsequent minimums, the SIP minimum
	// applies to both.
	assert.Equal(t, "₹500", rec.MinimumInvestments.MinFirstInvestment)
	assert.Equal(t, "₹500", rec.MinimumInvestments.Min2ndInvestmentOnward)

	assert.Equal(t, "22.3%", rec.Returns.OneYear)
	assert.Equal(t, "15.1%", rec.Returns.ThreeYear)
	assert.Equal(t, "13.8%", rec.Returns.FiveYear)
	assert.Equal(t, "18.2%", rec.CategoryInfo.CategoryAverageAnnualised["1y"])
	assert.Equal(t, "13.4%", rec.CategoryInfo.CategoryAverageAnnualised["3y"])

	assert.Equal(t, "0.52%", rec.CostAndTax.ExpenseRatio)
	assert.Equal(t, "01 Jan 2024", rec.CostAndTax.ExpenseRatioEffectiveFrom)
	assert.Equal(t, "0.005%", rec.CostAndTax.StampDuty)
	assert.Equal(t, "Exit load of 1% if redeemed within 365 days", rec.CostAndTax.ExitLoad)

	require.Len(t, rec.Top5Holdings, 5)
	assert.Equal(t, "HDFC Bank Ltd.", rec.Top5Holdings[0].Name)
	assert.Equal(t, "9.2%", rec.Top5Holdings[0].AssetPct)
	assert.Equal(t, "Larsen & Toubro Ltd.", rec.Top5Holdings[4].Name)

	assert.Equal(t, "24.5", rec.AdvancedRatios.PERatio)
	assert.Equal(t, "3.4", rec.AdvancedRatios.PBRatio)

	assert.Equal(t, "https://example.com/mutual-funds/xyz-flexi-cap-fund", rec.SourceURL)
	assert.Equal(t, "2024-01-15", rec.LastScraped)
}

func TestBuildRecordShapeOnEmptyPage(t *testing.T) {
	doc := mustParse(t, `<html></html>`)
	rec := testEngine().BuildRecord(context.Background(), doc, nil, "https://example.com/unknown")

	assert.Empty(t, rec.FundName)
	assert.Empty(t, rec.NAV.Value)
	assert.Empty(t, rec.NAV.AsOf)
	assert.NotNil(t, rec.FAQ)
	assert.Empty(t, rec.FAQ)
	assert.NotNil(t, rec.Top5Holdings)
	assert.NotNil(t, rec.CategoryInfo.CategoryAverageAnnualised)
	assert.NotNil(t, rec.CategoryInfo.RankWithinCategory)
	assert.Equal(t, 0, rec.Summary.Rating)
	// Funds with no published exit load default to Nil.
	assert.Equal(t, "Nil", rec.CostAndTax.ExitLoad)
	assert.Equal(t, "2024-01-15", rec.LastScraped)
}

func TestBuildRecordDeterministic(t *testing.T) {
	doc := mustParse(t, fundPageHTML)
	e := testEngine()

	first := e.BuildRecord(context.Background(), doc, nil, "https://example.com/f")
	second := e.BuildRecord(context.Background(), doc, nil, "https://example.com/f")
	assert.Equal(t, first, second)
}

func TestImplausibleNAVRejected(t *testing.T) {
	doc := mustParse(t, `<html><body><div>Latest NAV as of 01 Jan 2024 ₹99999.00</div></body></html>`)
	rec := testEngine().BuildRecord(context.Background(), doc, nil, "https://example.com/f")

	assert.Empty(t, rec.NAV.Value)
}

func TestEarlierStrategyWins(t *testing.T) {
	e := testEngine()
	doc := mustParse(t, `<html><body><p>irrelevant</p></body></html>`)

	hit := func(v string) Strategy {
		return New(v, func(_ context.Context, _ *document.Document, _ live.Page) (string, bool) {
			return v, true
		})
	}

	val := e.resolve(context.Background(), doc, nil, FieldSpec{
		Name:       "test",
		Strategies: []Strategy{hit("first"), hit("second")},
	})
	assert.Equal(t, "first", val)
}

func TestRejectedCandidateAdvancesChain(t *testing.T) {
	e := testEngine()
	doc := mustParse(t, `<html><body><p>x</p></body></html>`)

	val := e.resolve(context.Background(), doc, nil, FieldSpec{
		Name: "test",
		Strategies: []Strategy{
			New("bad", func(context.Context, *document.Document, live.Page) (string, bool) {
				return "implausible", true
			}),
			New("good", func(context.Context, *document.Document, live.Page) (string, bool) {
				return "fine", true
			}),
		},
		Accept: func(raw string) (string, bool) {
			return raw, raw == "fine"
		},
	})
	assert.Equal(t, "fine", val)
}

func TestPanickingStrategyIsIsolated(t *testing.T) {
	e := testEngine()
	doc := mustParse(t, `<html><body><p>x</p></body></html>`)

	val := e.resolve(context.Background(), doc, nil, FieldSpec{
		Name: "test",
		Strategies: []Strategy{
			New("panics", func(context.Context, *document.Document, live.Page) (string, bool) {
				panic("boom")
			}),
			New("survives", func(context.Context, *document.Document, live.Page) (string, bool) {
				return "ok", true
			}),
		},
	})
	assert.Equal(t, "ok", val)
}

func TestExhaustedChainLeavesFieldEmpty(t *testing.T) {
	e := testEngine()
	doc := mustParse(t, `<html><body><p>x</p></body></html>`)

	val := e.resolve(context.Background(), doc, nil, FieldSpec{
		Name: "test",
		Strategies: []Strategy{
			New("miss", func(context.Context, *document.Document, live.Page) (string, bool) {
				return "", false
			}),
		},
	})
	assert.Empty(t, val)
}
