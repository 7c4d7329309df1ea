package extract

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsift/fundsift/internal/document"
)

func mustParse(t *testing.T, html string) *document.Document {
	t.Helper()
	doc, err := document.Parse(html)
	require.NoError(t, err)
	return doc
}

func TestLabelValueSameNode(t *testing.T) {
	doc := mustParse(t, `<html><body><div>Expense Ratio: 0.52%</div></body></html>`)

	s := LabelValue("test", expenseLabelRe, percentValueRe)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "0.52%", raw)
}

func TestLabelValueNextSibling(t *testing.T) {
	doc := mustParse(t, `<html><body><div><span>Expense Ratio</span><span>0.52%</span></div></body></html>`)

	s := LabelValue("test", expenseLabelRe, percentValueRe)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "0.52%", raw)
}

func TestLabelValueParentText(t *testing.T) {
	doc := mustParse(t, `<html><body><div><b>Stamp duty</b><div><i>0.005%</i> of investment</div></div></body></html>`)

	s := LabelValue("test", stampLabelRe, percentValueRe)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "0.005%", raw)
}

func TestLabelValueMiss(t *testing.T) {
	doc := mustParse(t, `<html><body><p>nothing labeled here</p></body></html>`)

	s := LabelValue("test", expenseLabelRe, percentValueRe)
	_, ok := s.Attempt(context.Background(), doc, nil)
	assert.False(t, ok)
}

func TestRegexWindowAnchored(t *testing.T) {
	doc := mustParse(t, `<html><body>
<p>Unrelated AUM: ₹99Cr text way out of window scope.</p>
<p>Fund Objective: long term growth. AUM: ₹48,870.6Cr as stated.</p>
</body></html>`)

	s := RegexWindow("test", "fund objective", 200, aumPatterns...)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Contains(t, raw, "48,870.6")
}

func TestRegexWindowMissingAnchor(t *testing.T) {
	doc := mustParse(t, `<html><body><p>AUM: ₹500Cr</p></body></html>`)

	s := RegexWindow("test", "fund objective", 200, aumPatterns...)
	_, ok := s.Attempt(context.Background(), doc, nil)
	assert.False(t, ok)
}

func TestHeadRegexFindsValueInWindow(t *testing.T) {
	doc := mustParse(t, `<html><body>
<p>NAV ₹45.67 today</p>
<p>`+strings.Repeat("later page content ", 20)+`</p>
</body></html>`)

	s := HeadRegex("test", 0.33, navValueRe)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "₹45.67", raw)
}

func TestHeadRegexCutsOnRuneBoundary(t *testing.T) {
	// A third of this text lands inside a multi-byte rupee sign; the
	// window must drop the partial rune rather than keep stray bytes
	// that decode as U+FFFD.
	doc := mustParse(t, `<html><body>aa ₹₹₹₹₹₹₹₹₹₹</body></html>`)

	s := HeadRegex("test", 0.33, regexp.MustCompile("�"))
	_, ok := s.Attempt(context.Background(), doc, nil)
	assert.False(t, ok)
}

func TestRegexGroup(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Fund returns 12.3% 15.1% 13.8% 14.2%</p></body></html>`)

	s := RegexGroup("test", returnsBlockRe, 3)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "13.8", raw)
}

func TestTableLookup(t *testing.T) {
	doc := mustParse(t, `<html><body>
<table>
  <thead><tr><th>Period</th><th>1Y</th><th>3Y</th></tr></thead>
  <tbody>
    <tr><td>Fund returns</td><td>12.3%</td><td>15.1%</td></tr>
    <tr><td>Category average</td><td>10.2%</td><td>13.4%</td></tr>
  </tbody>
</table>
</body></html>`)

	s := TableLookup("test", []string{"return"}, "fund return", []string{"1y"})
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "12.3%", raw)

	s = TableLookup("test", []string{"return"}, "category average", []string{"3y"})
	raw, ok = s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "13.4%", raw)
}

func TestTableLookupNoMatchingTable(t *testing.T) {
	doc := mustParse(t, `<html><body><table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table></body></html>`)

	s := TableLookup("test", []string{"return"}, "fund return", []string{"1y"})
	_, ok := s.Attempt(context.Background(), doc, nil)
	assert.False(t, ok)
}

func TestXPathText(t *testing.T) {
	doc := mustParse(t, `<html><body><h1>Axis Bluechip Fund</h1></body></html>`)

	s := XPathText("test", "//h1")
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Equal(t, "Axis Bluechip Fund", raw)
}

func TestSectionRegex(t *testing.T) {
	doc := mustParse(t, `<html><body>
<section>
  <h2>Fund Objective</h2>
  <p>Growth oriented. AUM: ₹1,200Cr</p>
</section>
</body></html>`)

	s := SectionRegex("test", []string{"fund objective"}, aumPatterns...)
	raw, ok := s.Attempt(context.Background(), doc, nil)
	require.True(t, ok)
	assert.Contains(t, raw, "1,200")
}

func TestLiveStrategiesMissWithoutPage(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Fund Size ₹100Cr</p></body></html>`)

	_, ok := LiveQuery("test", "div", regexp.MustCompile(`x`)).Attempt(context.Background(), doc, nil)
	assert.False(t, ok)

	_, ok = LiveScript("test", "1 + 1").Attempt(context.Background(), doc, nil)
	assert.False(t, ok)
}
