// Package record defines the assembled output schema for one fund page.
//
// A FundRecord is fully shaped: every key is present in the serialized
// form even when extraction found nothing for it. Absence of data is
// represented by empty strings, empty slices, and empty maps, never by
// a missing key.
package record

import (
	"net/url"
	"strings"
)

// NAV is the per-unit price with its publication date.
type NAV struct {
	Value string `json:"value"`
	AsOf  string `json:"as_of"`
}

// QA is one question/answer pair from the FAQ section.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Summary groups the headline facts shown near the top of a fund page.
type Summary struct {
	FundCategory string `json:"fund_category"`
	FundType     string `json:"fund_type"`
	RiskLevel    string `json:"risk_level"`
	LockInPeriod string `json:"lock_in_period"`
	Rating       int    `json:"rating"`
}

// MinimumInvestments holds the SIP and lumpsum entry thresholds.
type MinimumInvestments struct {
	MinSIP                 string `json:"min_sip"`
	MinFirstInvestment     string `json:"min_first_investment"`
	Min2ndInvestmentOnward string `json:"min_2nd_investment_onwards"`
}

// Returns holds annualised return percentages per horizon.
type Returns struct {
	OneYear        string `json:"1y"`
	ThreeYear      string `json:"3y"`
	FiveYear       string `json:"5y"`
	SinceInception string `json:"since_inception"`
}

// CategoryInfo holds peer-relative statistics.
type CategoryInfo struct {
	Category                  string            `json:"category"`
	CategoryAverageAnnualised map[string]string `json:"category_average_annualised"`
	RankWithinCategory        map[string]int    `json:"rank_within_category"`
}

// CostAndTax groups fees and tax notes.
type CostAndTax struct {
	ExpenseRatio              string `json:"expense_ratio"`
	ExpenseRatioEffectiveFrom string `json:"expense_ratio_effective_from"`
	ExitLoad                  string `json:"exit_load"`
	StampDuty                 string `json:"stamp_duty"`
	TaxImplication            string `json:"tax_implication"`
}

// Holding is one portfolio position with its allocation percentage.
type Holding struct {
	Name     string `json:"name"`
	AssetPct string `json:"asset_pct"`
}

// AdvancedRatios holds valuation and risk-adjusted performance metrics.
type AdvancedRatios struct {
	PERatio        string `json:"pe_ratio"`
	PBRatio        string `json:"pb_ratio"`
	Alpha          string `json:"alpha"`
	Beta           string `json:"beta"`
	SharpeRatio    string `json:"sharpe_ratio"`
	SortinoRatio   string `json:"sortino_ratio"`
	Top5WeightPct  string `json:"top_5_weight_pct"`
	Top20WeightPct string `json:"top_20_weight_pct"`
}

// FundRecord is the structured result of extracting one fund page.
type FundRecord struct {
	FundName           string             `json:"fund_name"`
	NAV                NAV                `json:"nav"`
	FundSize           string             `json:"fund_size"`
	AUM                string             `json:"aum"`
	FAQ                []QA               `json:"faq"`
	Summary            Summary            `json:"summary"`
	MinimumInvestments MinimumInvestments `json:"minimum_investments"`
	Returns            Returns            `json:"returns"`
	CategoryInfo       CategoryInfo       `json:"category_info"`
	CostAndTax         CostAndTax         `json:"cost_and_tax"`
	Top5Holdings       []Holding          `json:"top_5_holdings"`
	AdvancedRatios     AdvancedRatios     `json:"advanced_ratios"`
	SourceURL          string             `json:"source_url"`
	LastScraped        string             `json:"last_scraped"`
}

// New returns a fully shaped record with empty defaults. Slices and maps
// are allocated so they serialize as [] and {} rather than null.
func New() *FundRecord {
	return &FundRecord{
		FAQ:          []QA{},
		Top5Holdings: []Holding{},
		CategoryInfo: CategoryInfo{
			CategoryAverageAnnualised: map[string]string{},
			RankWithinCategory:        map[string]int{},
		},
	}
}

// Slug derives the persistence key for a record from the last path
// segment of its source URL. Unparseable or empty paths map to "unknown".
func Slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "unknown"
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
