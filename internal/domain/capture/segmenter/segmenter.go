// Package segmenter splits one utterance into clauses that each carry a
// single transaction.
package segmenter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/numeral"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/signals"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	// a split is only kept when every piece is longer than this
	minSplitRunes = 5
	// clauses this short are noise
	minClauseRunes = 3
	// weaker separators only apply to confidently understood text
	weakTierConfidence = 0.7
	// how far after a connector a numeral may appear
	connectorReach = 3
)

const and = "و"

var connectors = toSet(normalizer.CanonicalAll([]string{
	"كمان", "وكمان", "برضه", "برضو", "وبرضه", "وبرضو", "ايضا", "وايضا", "أيضاً",
	"بالاضافه", "وبالاضافه", "بالإضافة", "كذلك", "وكذلك", "also",
}))

var actionVerbs = toSet(normalizer.CanonicalAll([]string{
	"اشتريت", "شريت", "اشترينا", "جبت", "جبنا", "دفعت", "دفعنا", "صرفت", "صرفنا",
	"حاسبت", "سددت", "ركبت", "اتغديت", "اتعشيت", "فطرت", "خلصت", "حطيت",
	"قبضت", "قبضنا", "استلمت", "حولت", "بعت", "كسبت", "جالي", "وصلني", "نزلي",
}))

var locationPrepositions = toSet(normalizer.CanonicalAll([]string{
	"في", "فى", "من", "عند", "ف",
}))

var locationWords = toSet(normalizer.CanonicalAll([]string{
	"المطعم", "مطعم", "الكافيه", "كافيه", "القهوة", "قهوة", "المول", "مول",
	"السوبر", "السوق", "سوق", "الصيدلية", "صيدلية", "المستشفى", "مستشفى",
	"العيادة", "عيادة", "المحطة", "محطة", "البنزينة", "الجمعية", "البقال",
	"الكشك", "المحل", "محل", "البنك", "الجامعة", "المدرسة", "النادي", "الجيم",
	"كارفور", "هايبر",
}))

var temporalConnectors = toSet(normalizer.CanonicalAll([]string{
	"وبعدين", "بعدين", "بعدها", "وبعدها", "ثم", "وثم",
}))

// cutRule reports where a new clause starts when tokens[i] triggers a split.
type cutRule func(tokens []string, i int) (int, bool)

type pass struct {
	rule          cutRule
	needsNumerals bool
}

var strongPasses = []pass{
	{rule: afterSeparator},
	{rule: beforeAndNumeral},
	{rule: beforeConnector},
}

var weakPasses = []pass{
	{rule: beforeActionVerb, needsNumerals: true},
	{rule: beforeLocation, needsNumerals: true},
	{rule: beforeTemporal, needsNumerals: true},
}

// Segment splits text into transaction clauses, judging the weaker
// separators by the cues found in text itself.
func Segment(text string) []string {
	return Split(text, signals.Analyze(text))
}

// Split splits text into transaction clauses. sig describes the whole text;
// the weaker separators only apply when its confidence is high. Clauses
// without a numeral are dropped. When nothing survives but the text itself
// carries a numeral, the whole text comes back as a single clause.
func Split(text string, sig common.ContextSignals) []string {
	s := normalizer.Canonical(text)
	if s == "" {
		return nil
	}

	fragments := []string{padSeparators(s)}

	passes := strongPasses
	if sig.Confidence > weakTierConfidence {
		passes = append(append([]pass{}, strongPasses...), weakPasses...)
	}
	for _, p := range passes {
		var next []string
		for _, f := range fragments {
			next = append(next, split(f, p)...)
		}
		fragments = next
	}

	var clauses []string
	for _, f := range fragments {
		c := clean(f)
		if utf8.RuneCountInString(c) > minClauseRunes && numeral.HasNumeral(c) {
			clauses = append(clauses, c)
		}
	}

	if len(clauses) == 0 {
		if whole := clean(s); numeral.HasNumeral(whole) {
			return []string{whole}
		}
	}
	return clauses
}

// split applies one rule to a fragment. Cuts are taken left to right; a cut is
// kept only if the piece it closes and the piece it opens are both long
// enough, so a rejected cut merges back into its neighbour.
func split(fragment string, p pass) []string {
	tokens := strings.Fields(fragment)

	var cuts []int
	for i := 1; i < len(tokens); i++ {
		cut, ok := p.rule(tokens, i)
		if !ok || cut <= 0 {
			continue
		}
		if len(cuts) > 0 && cut <= cuts[len(cuts)-1] {
			continue
		}
		cuts = append(cuts, cut)
	}
	if len(cuts) == 0 {
		return []string{strings.Join(tokens, " ")}
	}

	var pieces []string
	start := 0
	for k, cut := range cuts {
		end := len(tokens)
		if k+1 < len(cuts) {
			end = cuts[k+1]
		}
		left := strings.Join(tokens[start:cut], " ")
		right := strings.Join(tokens[cut:end], " ")
		if substantial(left, p.needsNumerals) && substantial(right, p.needsNumerals) {
			pieces = append(pieces, left)
			start = cut
		}
	}
	return append(pieces, strings.Join(tokens[start:], " "))
}

func substantial(piece string, needsNumeral bool) bool {
	if utf8.RuneCountInString(clean(piece)) <= minSplitRunes {
		return false
	}
	return !needsNumeral || numeral.HasNumeral(piece)
}

// padSeparators makes sure every list separator ends its token. Separators
// between two digits ("12.5") are part of a number. A dot only separates when
// a space or the end of text follows it ("ج.م" stays whole).
func padSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var prev rune
	for i, r := range s {
		b.WriteRune(r)
		if r == ',' || r == ';' || r == '.' {
			next, _ := utf8.DecodeRuneInString(s[i+utf8.RuneLen(r):])
			betweenDigits := unicode.IsDigit(prev) && unicode.IsDigit(next)
			if !betweenDigits && (r != '.' || next == utf8.RuneError || unicode.IsSpace(next)) {
				b.WriteRune(' ')
			}
		}
		prev = r
	}
	return b.String()
}

// clean trims separators and drops a dangling leading "و".
func clean(fragment string) string {
	c := strings.Trim(fragment, " ,;.")
	if rest, ok := strings.CutPrefix(c, and+" "); ok {
		c = strings.TrimSpace(rest)
	}
	if c == and {
		return ""
	}
	return c
}

func afterSeparator(tokens []string, i int) (int, bool) {
	prev := tokens[i-1]
	return i, strings.HasSuffix(prev, ",") || strings.HasSuffix(prev, ";") || strings.HasSuffix(prev, ".")
}

// beforeAndNumeral cuts before "و" when a fresh amount follows it. Two number
// words joined by "و" are one compound number ("ميه و خمسين").
func beforeAndNumeral(tokens []string, i int) (int, bool) {
	tok := tokens[i]
	prevIsWord := numeral.IsNumberWord(tokens[i-1])

	if tok == and {
		if i+1 >= len(tokens) || !numeral.HasNumeral(tokens[i+1]) {
			return 0, false
		}
		return i, !(prevIsWord && numeral.IsNumberWord(tokens[i+1]))
	}

	rest, ok := strings.CutPrefix(tok, and)
	if !ok || rest == "" || !numeral.HasNumeral(rest) {
		return 0, false
	}
	return i, !(prevIsWord && numeral.IsNumberWord(rest))
}

func beforeConnector(tokens []string, i int) (int, bool) {
	if _, ok := connectors[tokens[i]]; !ok {
		return 0, false
	}
	end := min(i+1+connectorReach, len(tokens))
	if !numeral.HasNumeral(strings.Join(tokens[i+1:end], " ")) {
		return 0, false
	}
	if tokens[i-1] == and {
		return i - 1, true
	}
	return i, true
}

func beforeActionVerb(tokens []string, i int) (int, bool) {
	tok := tokens[i]
	if _, ok := actionVerbs[tok]; ok {
		return i, true
	}
	if rest, ok := strings.CutPrefix(tok, and); ok {
		_, ok = actionVerbs[rest]
		return i, ok
	}
	return 0, false
}

func beforeLocation(tokens []string, i int) (int, bool) {
	if i+1 >= len(tokens) {
		return 0, false
	}
	if _, ok := locationPrepositions[tokens[i]]; !ok {
		return 0, false
	}
	_, ok := locationWords[tokens[i+1]]
	return i, ok
}

func beforeTemporal(tokens []string, i int) (int, bool) {
	tok := tokens[i]
	if _, ok := temporalConnectors[tok]; ok {
		return i, true
	}
	// "بعد كده"
	if (tok == "بعد" || tok == "وبعد") && i+1 < len(tokens) && tokens[i+1] == "كده" {
		return i, true
	}
	return 0, false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
