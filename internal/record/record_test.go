package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/mutual-funds/axis-bluechip-fund", "axis-bluechip-fund"},
		{"https://example.com/mutual-funds/axis-bluechip-fund/", "axis-bluechip-fund"},
		{"https://example.com/", "unknown"},
		{"", "unknown"},
		{"://bad url", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.url), tt.url)
	}
}

func TestNewSerializesWithStableShape(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"fund_name", "nav", "fund_size", "aum", "faq", "summary",
		"minimum_investments", "returns", "category_info", "cost_and_tax",
		"top_5_holdings", "advanced_ratios", "source_url", "last_scraped",
	} {
		assert.Contains(t, m, key)
	}

	// Empty collections serialize as [] and {}, never null.
	assert.JSONEq(t, `[]`, string(m["faq"]))
	assert.JSONEq(t, `[]`, string(m["top_5_holdings"]))

	var ci struct {
		Avg  json.RawMessage `json:"category_average_annualised"`
		Rank json.RawMessage `json:"rank_within_category"`
	}
	require.NoError(t, json.Unmarshal(m["category_info"], &ci))
	assert.JSONEq(t, `{}`, string(ci.Avg))
	assert.JSONEq(t, `{}`, string(ci.Rank))
}
