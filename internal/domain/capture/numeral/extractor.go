// Package numeral finds money amounts in a transcript, written either with
// digits ("25", "١٢٫٥") or with Egyptian Arabic number words
// ("ميه وخمسه وعشرين").
package numeral

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	// amounts closer than this are the same amount
	amountEpsilon = 0.01
	// smallest amount that survives rounding to piasters
	minAmount = 0.005
	// above this an amount needs a confident context to be believed
	plausibleCeiling  = 10_000
	ceilingConfidence = 0.6
	maxAmount         = common.MaxAmount
)

var (
	digitPattern = regexp.MustCompile(`\p{Nd}+(?:\.\p{Nd}+)?`)

	// "الكيلو ب 30", "اللتر بسعر 12.5", "الواحده 20"
	unitPricePattern = regexp.MustCompile(
		`(?:ال)?(?:كيلو|لتر|جرام|علبه|حبه|قطعه|واحده|واحد)\s*(?:بسعر|سعره|ب)?\s*(\p{Nd}+(?:\.\p{Nd}+)?)`,
	)
)

var currencyWords = normalizer.CanonicalAll([]string{
	"بالجنيه", "بجنيه", "الجنيه", "جنيهات", "جنيها", "جنيه", "ج.م", "جم", "ج",
	"ريال", "ريالات", "دولار", "دولارات", "يورو",
	"pounds", "pound", "egp", "le",
})

// ExtractAmounts returns the plausible positive amounts in text, in the order
// they were found: unit prices, then digit amounts, then the word-form total.
func ExtractAmounts(text string, sig common.ContextSignals) []float64 {
	s := stripCurrency(normalizer.Canonical(text))
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var candidates []float64

	if sig.HasQuantityIndicator {
		for _, m := range unitPricePattern.FindAllStringSubmatch(s, -1) {
			if v, ok := parseDigits(m[1]); ok {
				candidates = append(candidates, v)
			}
		}
	}

	for _, loc := range digitPattern.FindAllStringIndex(s, -1) {
		if followedByMeasure(s, loc[1]) {
			continue
		}
		if v, ok := parseDigits(s[loc[0]:loc[1]]); ok {
			candidates = append(candidates, v)
		}
	}

	remainder := digitPattern.ReplaceAllString(s, " ")
	if v, ok := decodeWords(remainder, true); ok {
		candidates = append(candidates, v)
	}

	return filterAmounts(candidates, sig)
}

// ExtractComplexNumber decodes a word-form number such as "ألف وخمسمية".
// It reports false when no number word was recognized or the total is not
// positive.
func ExtractComplexNumber(text string) (float64, bool) {
	s := normalizer.Canonical(text)
	if s == "" {
		return 0, false
	}
	return decodeWords(s, false)
}

// HasNumeral reports whether text carries a digit or a number word.
func HasNumeral(text string) bool {
	s := normalizer.Canonical(text)
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	for _, tok := range tokenize(s) {
		if isNumberWord(tok) {
			return true
		}
	}
	return false
}

// IsNumberWord reports whether a single token is a spelled-out number,
// with or without a glued "و" or "ب".
func IsNumberWord(token string) bool {
	return isNumberWord(normalizer.Canonical(token))
}

// decodeWords folds number words into one value with a (total, current)
// accumulator. Phrases are matched longest first; a matched phrase advances
// the index past all of its tokens.
func decodeWords(s string, skipQuantities bool) (float64, bool) {
	tokens := tokenize(s)

	var total, current float64
	scale := 1.0
	found := false

	for i := 0; i < len(tokens); {
		w, n, ok := lookupAt(tokens, i)
		if !ok {
			i++
			continue
		}
		if skipQuantities && i+n < len(tokens) && isMeasure(tokens[i+n]) {
			i += n + 1
			continue
		}
		found = true

		switch w.kind {
		case kindValue:
			current += w.value
			if w.value >= 100 {
				scale = magnitude(w.value)
			} else {
				scale = 1
			}
		case kindTens:
			current += w.value
			scale = 1
		case kindHundred:
			if current == 0 {
				current = 1
			}
			current *= w.value
			scale = w.value
		case kindThousand:
			if current == 0 {
				current = 1
			}
			current *= w.value
			total += current
			current = 0
			scale = w.value
		case kindFraction:
			current += w.value * scale
		}
		i += n
	}

	result := total + current
	if !found || result <= 0 {
		return 0, false
	}
	return result, true
}

// tokenize splits on anything that is neither a word rune nor a digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !normalizer.IsWordRune(r) && !unicode.IsDigit(r)
	})
}

func isMeasure(token string) bool {
	_, ok := measureUnits[token]
	return ok
}

// followedByMeasure reports whether the first token after byte offset end is
// a measure unit ("2 كيلو").
func followedByMeasure(s string, end int) bool {
	rest := strings.TrimLeftFunc(s[end:], unicode.IsSpace)
	stop := strings.IndexFunc(rest, func(r rune) bool { return !normalizer.IsWordRune(r) })
	if stop < 0 {
		stop = len(rest)
	}
	return stop > 0 && isMeasure(rest[:stop])
}

func stripCurrency(s string) string {
	for _, w := range currencyWords {
		s = normalizer.ReplaceWord(s, w, " ")
	}
	return s
}

// parseDigits parses an ASCII digit run. Digits from scripts the normalizer
// does not fold are rejected.
func parseDigits(raw string) (float64, bool) {
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r != '.' && (r < '0' || r > '9') {
			return 0, false
		}
		i += size
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// filterAmounts drops amounts below a piaster, implausible and duplicate ones.
func filterAmounts(candidates []float64, sig common.ContextSignals) []float64 {
	var out []float64
	for _, a := range candidates {
		if a < minAmount || a > maxAmount {
			continue
		}
		if a > plausibleCeiling && sig.Confidence <= ceilingConfidence {
			continue
		}
		if containsAmount(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsAmount(amounts []float64, a float64) bool {
	for _, existing := range amounts {
		if math.Abs(existing-a) < amountEpsilon {
			return true
		}
	}
	return false
}
