// Package validate applies domain acceptance bounds and canonical
// formatting to raw extraction candidates.
//
// Every check returns the canonical value plus an ok flag. A failed
// check is not an error: the caller's strategy chain simply moves on to
// its next strategy. Numeric bounds are heuristic guards against regex
// false positives (a date matched as a NAV, a year matched as a ratio),
// not business rules, so they live in a tunable Bounds value.
package validate

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Bounds holds the acceptance windows for numeric field classes.
type Bounds struct {
	NAVMin float64
	NAVMax float64
	AUMMin float64
	AUMMax float64
	PEMin  float64
	PEMax  float64
	PBMin  float64
	PBMax  float64
}

// DefaultBounds mirrors the guard constants the scraper has always used.
func DefaultBounds() Bounds {
	return Bounds{
		NAVMin: 1, NAVMax: 10000,
		AUMMin: 0.1, AUMMax: 1000000,
		PEMin: 5, PEMax: 100,
		PBMin: 0.1, PBMax: 20,
	}
}

var (
	rupeeAmountRe = regexp.MustCompile(`₹\s*([\d,]+\.?\d*)`)
	croreAmountRe = regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*(?:Cr|Crore)`)
	percentRe     = regexp.MustCompile(`([\d.]+)\s*%`)
	numberRe      = regexp.MustCompile(`([\d,]+\.?\d*)`)
	integerRe     = regexp.MustCompile(`(\d+)`)

	stripPolicy = bluemonday.StrictPolicy()
)

// NAV accepts a rupee amount within the NAV window and canonicalizes it
// to "₹" + the matched number with thousands separators removed.
func (b Bounds) NAV(raw string) (string, bool) {
	m := rupeeAmountRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < b.NAVMin || v > b.NAVMax {
		return "", false
	}
	return "₹" + num, true
}

// CroreAmount accepts an amount in Crores within the AUM window and
// canonicalizes it to "₹<grouped>Cr" with trailing zeros and a trailing
// decimal point stripped: "48,870.60 Cr" becomes "₹48,870.6Cr".
func (b Bounds) CroreAmount(raw string) (string, bool) {
	m := croreAmountRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < b.AUMMin || v > b.AUMMax {
		return "", false
	}
	return "₹" + trimAmount(v) + "Cr", true
}

// PERatio accepts a plain number inside the price-to-earnings window.
func (b Bounds) PERatio(raw string) (string, bool) {
	return boundedNumber(raw, b.PEMin, b.PEMax)
}

// PBRatio accepts a plain number inside the price-to-book window.
func (b Bounds) PBRatio(raw string) (string, bool) {
	return boundedNumber(raw, b.PBMin, b.PBMax)
}

func boundedNumber(raw string, min, max float64) (string, bool) {
	m := numberRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < min || v > max {
		return "", false
	}
	return num, true
}

// Rupee extracts a plain rupee amount, keeping the grouping exactly as
// printed on the page.
func Rupee(raw string) (string, bool) {
	m := rupeeAmountRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return "₹" + m[1], true
}

// Percent extracts a percentage and canonicalizes it to number + "%".
func Percent(raw string) (string, bool) {
	m := percentRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	if _, err := strconv.ParseFloat(m[1], 64); err != nil {
		return "", false
	}
	return m[1] + "%", true
}

// Number extracts an unbounded plain number.
func Number(raw string) (string, bool) {
	m := numberRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	if _, err := strconv.ParseFloat(num, 64); err != nil {
		return "", false
	}
	return num, true
}

// Rank extracts an integer with no bounds.
func Rank(raw string) (int, bool) {
	m := integerRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Rating extracts an integer star rating in [1,5].
func Rating(raw string) (int, bool) {
	v, ok := Rank(raw)
	if !ok || v < 1 || v > 5 {
		return 0, false
	}
	return v, true
}

// CleanText collapses whitespace and truncates at a word boundary with
// an ellipsis when the text exceeds maxLen. Text shorter than minLen is
// rejected as noise.
func CleanText(raw string, minLen, maxLen int) (string, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	if len(s) < minLen {
		return "", false
	}
	if len(s) > maxLen {
		cut := s[:maxLen]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		s = cut + "..."
	}
	return s, true
}

// StripMarkup removes any residual tags from text pulled out of rich
// sections (FAQ answers, tax notes) and unescapes entities.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// trimAmount renders a float with two decimals and western thousands
// grouping, then strips trailing zeros and a dangling decimal point.
func trimAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")
	grouped := groupThousands(intPart)
	if fracPart == "" {
		return grouped
	}
	return grouped + "." + fracPart
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
