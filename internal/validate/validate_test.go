package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNAV(t *testing.T) {
	b := DefaultBounds()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"plain", "₹145.20", "₹145.20", true},
		{"spaced", "₹ 145.20", "₹145.20", true},
		{"commas stripped", "NAV as of 01 Jan 2024 ₹1,245.50", "₹1245.50", true},
		{"too large", "₹99999.00", "", false},
		{"too small", "₹0.50", "", false},
		{"no rupee", "145.20", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.NAV(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCroreAmount(t *testing.T) {
	b := DefaultBounds()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"trailing zero trimmed", "48,870.60 Cr", "₹48,870.6Cr", true},
		{"whole number", "AUM: ₹1,200.00Cr", "₹1,200Cr", true},
		{"crore word", "500 Crore", "₹500Cr", true},
		{"below floor", "0.01 Cr", "", false},
		{"above ceiling", "2,000,000 Cr", "", false},
		{"no amount", "Fund Size", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.CroreAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPERatioBounds(t *testing.T) {
	b := DefaultBounds()

	got, ok := b.PERatio("P/E Ratio: 24.5")
	require.True(t, ok)
	assert.Equal(t, "24.5", got)

	_, ok = b.PERatio("2.1")
	assert.False(t, ok)

	_, ok = b.PERatio("450")
	assert.False(t, ok)
}

func TestPBRatioBounds(t *testing.T) {
	b := DefaultBounds()

	got, ok := b.PBRatio("3.4")
	require.True(t, ok)
	assert.Equal(t, "3.4", got)

	_, ok = b.PBRatio("45")
	assert.False(t, ok)
}

func TestPercent(t *testing.T) {
	got, ok := Percent("12.3 %")
	require.True(t, ok)
	assert.Equal(t, "12.3%", got)

	_, ok = Percent("no number")
	assert.False(t, ok)
}

func TestRupee(t *testing.T) {
	got, ok := Rupee("Min. SIP Amount ₹500")
	require.True(t, ok)
	assert.Equal(t, "₹500", got)

	got, ok = Rupee("₹ 10,000")
	require.True(t, ok)
	assert.Equal(t, "₹10,000", got)

	_, ok = Rupee("500")
	assert.False(t, ok)
}

func TestRating(t *testing.T) {
	r, ok := Rating("Rating: 4")
	require.True(t, ok)
	assert.Equal(t, 4, r)

	_, ok = Rating("8")
	assert.False(t, ok)

	_, ok = Rating("no digits")
	assert.False(t, ok)
}

func TestRank(t *testing.T) {
	r, ok := Rank("Rank 23")
	require.True(t, ok)
	assert.Equal(t, 23, r)

	_, ok = Rank("none")
	assert.False(t, ok)
}

func TestCleanText(t *testing.T) {
	got, ok := CleanText("  Equity   Large Cap  ", 5, 50)
	require.True(t, ok)
	assert.Equal(t, "Equity Large Cap", got)

	_, ok = CleanText("hey", 5, 50)
	assert.False(t, ok)
}

func TestCleanTextTruncatesOnWordBoundary(t *testing.T) {
	got, ok := CleanText("alpha beta gamma delta", 1, 15)
	require.True(t, ok)
	assert.True(t, len(got) <= 18)
	assert.Contains(t, got, "...")
	assert.NotContains(t, got, "gamma")
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "bold and plain", StripMarkup("<b>bold</b> and plain"))
}
