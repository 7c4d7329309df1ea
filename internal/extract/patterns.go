package extract

import "regexp"

// Compiled patterns shared across field pipelines. Grouped by field,
// ordered most-specific first where a pipeline tries several.
var (
	// Fund name.
	titleSuffixRe = regexp.MustCompile(`(?i)\s*-\s*NAV.*$`)

	// NAV. The combined form captures the as-of date and the rupee
	// value from one phrase; the split forms serve the individual
	// sub-fields.
	navCombinedRe = regexp.MustCompile(`(?i)as of\s+(\d{1,2}\s+\w+\s+\d{2,4}).*?₹\s*([\d,]+\.?\d{2,})`)
	navLabelRe    = regexp.MustCompile(`(?i)latest\s+nav|current\s+nav|\bnav\b`)
	navValueRe    = regexp.MustCompile(`₹\s*[\d,]+\.?\d{2,}`)
	navDateRe     = regexp.MustCompile(`(?i)as of\s+\d{1,2}\s+\w+\s+\d{2,4}`)
	navDateOnlyRe = regexp.MustCompile(`\d{1,2}\s+\w+\s+\d{2,4}`)

	// Fund size and AUM.
	croreValueRe    = regexp.MustCompile(`(?i)₹\s*[\d,]+\.?\d*\s*(?:Cr|Crore)`)
	fundSizeLabelRe = regexp.MustCompile(`(?i)fund\s+size`)
	fundSizeTextRe  = regexp.MustCompile(`(?i)Fund\s+Size[:\s]+₹\s*[\d,]+\.?\d*\s*(?:Cr|Crore)`)
	aumPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)AUM[:\s]+₹\s*[\d,]+\.?\d*\s*(?:Cr|Crore)`),
		regexp.MustCompile(`(?i)Assets\s+Under\s+Management[:\s]+₹?\s*[\d,]+\.?\d*\s*(?:Cr|Crore)`),
		regexp.MustCompile(`(?i)₹\s*[\d,]+\.?\d*\s*(?:Cr|Crore).{0,80}?AUM`),
		regexp.MustCompile(`(?i)AUM[:.\s]+[\d,]+\.?\d*\s*(?:Cr|Crore)`),
	}

	// Summary.
	categoryLabelRe = regexp.MustCompile(`(?i)\bcategory\b`)
	categoryValueRe = regexp.MustCompile(`(?:Equity|Debt|Hybrid|ELSS|Index|Solution|Commodity)[A-Za-z \-]{0,40}`)
	categoryTextRe  = regexp.MustCompile(`Category[:\s]+((?:Equity|Debt|Hybrid|Index|Solution|Commodity)(?:\s+[A-Z][a-z]+){0,2}|ELSS)`)

	riskLabelRe  = regexp.MustCompile(`(?i)risk\s*(?:level|ometer)?`)
	riskValueRe  = regexp.MustCompile(`(?i)very\s+high|moderately\s+(?:high|low)|high|moderate|low`)
	riskPhraseRe = regexp.MustCompile(`(?i)(?:very\s+high|moderately\s+(?:high|low)|high|moderate|low)\s+risk`)

	lockInLabelRe = regexp.MustCompile(`(?i)lock[\s-]?in`)
	lockInTextRe  = regexp.MustCompile(`(?i)lock[\s-]?in[^\d]{0,20}\d+\s*years?`)
	yearsRe       = regexp.MustCompile(`(?i)\d+\s*years?`)

	ratingLabelRe = regexp.MustCompile(`(?i)\brating\b|\bstars?\b`)
	ratingValueRe = regexp.MustCompile(`\b[1-5]\b`)

	// Minimum investments. Commas stay as printed.
	rupeePlainRe = regexp.MustCompile(`₹\s*[\d,]+`)
	minSIPRe     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Min(?:imum)?\.?\s*SIP[^₹]{0,30}₹\s*[\d,]+`),
		regexp.MustCompile(`(?i)SIP\s*(?:amount|investment)?[:\s]+₹\s*[\d,]+`),
	}
	minSIPLabelRe   = regexp.MustCompile(`(?i)min(?:imum)?\.?\s*sip|sip\s*amount`)
	minFirstRe      = regexp.MustCompile(`(?i)(?:min(?:imum)?\.?\s*)?(?:first|1st|initial)\s*investment[^₹]{0,30}₹\s*[\d,]+`)
	minFirstLabelRe = regexp.MustCompile(`(?i)(?:first|1st|initial)\s*investment`)
	minNextRe       = regexp.MustCompile(`(?i)(?:min(?:imum)?\.?\s*)?(?:2nd|second|subsequent|additional)\s*investment[^₹]{0,30}₹\s*[\d,]+`)
	minNextLabelRe  = regexp.MustCompile(`(?i)(?:2nd|second|subsequent|additional)\s*investment`)

	// Returns. The block form captures all four horizons left to
	// right; the per-horizon forms serve individual fallbacks.
	percentValueRe = regexp.MustCompile(`[\d.]+\s*%`)
	returnsBlockRe = regexp.MustCompile(`(?i)Fund\s+returns?\s+([\d.]+)%\s+([\d.]+)%\s+([\d.]+)%\s+([\d.]+)%`)
	returnTextRe   = map[string]*regexp.Regexp{
		"1y":              regexp.MustCompile(`(?i)1\s*Y(?:ear)?(?:\s+return)?[:\s]+([\d.]+)\s*%`),
		"3y":              regexp.MustCompile(`(?i)3\s*Y(?:ear)?(?:\s+return)?[:\s]+([\d.]+)\s*%`),
		"5y":              regexp.MustCompile(`(?i)5\s*Y(?:ear)?(?:\s+return)?[:\s]+([\d.]+)\s*%`),
		"since_inception": regexp.MustCompile(`(?i)(?:since\s+inception|all)[:\s]+([\d.]+)\s*%`),
	}
	catAvgBlockRe = regexp.MustCompile(`(?i)Category\s+average\s+([\d.]+)%\s+([\d.]+)%\s+([\d.]+)%`)
	rankBlockRe   = regexp.MustCompile(`(?i)Rank\s+with\s*in\s+category\s+(\d+)\s+(\d+)\s+(\d+)`)

	// Cost and tax.
	expenseLabelRe = regexp.MustCompile(`(?i)expense\s+ratio`)
	expenseTextRe  = regexp.MustCompile(`(?i)Expense\s+Ratio[:\s]+([\d.]+)\s*%`)
	stampLabelRe   = regexp.MustCompile(`(?i)stamp\s+duty`)
	stampTextRe    = regexp.MustCompile(`(?i)Stamp\s+duty[:\s]+([\d.]+)\s*%`)
	taxLabelRe     = regexp.MustCompile(`(?i)tax\s+implication`)
	taxTextRe      = regexp.MustCompile(`(?i)Tax\s+implication[s]?[:\s]+(.{20,300})`)

	exitLoadLabelRe   = regexp.MustCompile(`(?i)exit\s+load`)
	exitLoadContextRe = regexp.MustCompile(`(?i)(?:nil|zero|n/?a|none|[\d.]+\s*%).{0,200}`)
	// The parse patterns below run only on text already scoped to an
	// exit load context, so they do not re-anchor on the label.
	exitLoadNilRe = regexp.MustCompile(`(?i)\b(?:nil|zero|none|n/?a)\b`)
	// Captures threshold percent, charge percent and holding window
	// from the common phrasing.
	exitLoadFullRe = regexp.MustCompile(`(?i)in\s+excess\s+of\s+([\d.]+)\s*%[^%]{0,120}?([\d.]+)\s*%[^\d]{0,60}?(\d+)\s*(days?|months?|years?)`)
	exitLoadPctRe  = regexp.MustCompile(`(?i)([\d.]+)\s*%[^\d]{0,60}?(\d+)\s*(days?|months?|years?)`)

	// Advanced ratios.
	peLabelRe      = regexp.MustCompile(`(?i)\bp/?e\b`)
	peTextRe       = regexp.MustCompile(`(?i)\bP/?E\b\s*(?:Ratio)?[:\s]+([\d.]+)`)
	pbLabelRe      = regexp.MustCompile(`(?i)\bp/?b\b`)
	pbTextRe       = regexp.MustCompile(`(?i)\bP/?B\b\s*(?:Ratio)?[:\s]+([\d.]+)`)
	plainNumberRe  = regexp.MustCompile(`[\d,]+\.?\d*`)
	ratioTextRe    = map[string]*regexp.Regexp{
		"alpha":   regexp.MustCompile(`(?i)Alpha[:\s]+(-?[\d.]+)`),
		"beta":    regexp.MustCompile(`(?i)Beta[:\s]+([\d.]+)`),
		"sharpe":  regexp.MustCompile(`(?i)Sharpe(?:\s+Ratio)?[:\s]+(-?[\d.]+)`),
		"sortino": regexp.MustCompile(`(?i)Sortino(?:\s+Ratio)?[:\s]+(-?[\d.]+)`),
	}
	ratioLabelRe = map[string]*regexp.Regexp{
		"alpha":   regexp.MustCompile(`(?i)\balpha\b`),
		"beta":    regexp.MustCompile(`(?i)\bbeta\b`),
		"sharpe":  regexp.MustCompile(`(?i)\bsharpe\b`),
		"sortino": regexp.MustCompile(`(?i)\bsortino\b`),
	}
	signedNumberRe = regexp.MustCompile(`-?[\d.]+`)
	top5WeightRe   = regexp.MustCompile(`(?i)Top\s*5[^%]{0,40}?([\d.]+)\s*%`)
	top20WeightRe  = regexp.MustCompile(`(?i)Top\s*20[^%]{0,40}?([\d.]+)\s*%`)
)
