package numeral

import (
	"math"
	"strings"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
)

type wordKind int

const (
	kindValue    wordKind = iota // adds into the running sub-total
	kindTens                     // adds into the running sub-total
	kindHundred                  // multiplies the running sub-total
	kindThousand                 // multiplies, then flushes into the grand total
	kindFraction                 // adds fraction × the last multiplier seen
)

type numeralWord struct {
	value float64
	kind  wordKind
}

// maxPhraseWords is the widest window tried against the lexicon.
const maxPhraseWords = 3

var lexiconEntries = []struct {
	word  string
	value float64
	kind  wordKind
}{
	// units
	{"واحد", 1, kindValue}, {"واحدة", 1, kindValue},
	{"اتنين", 2, kindValue}, {"اثنين", 2, kindValue}, {"اتنان", 2, kindValue},
	{"تلاتة", 3, kindValue}, {"ثلاثة", 3, kindValue}, {"تلات", 3, kindValue}, {"ثلاث", 3, kindValue},
	{"اربعة", 4, kindValue}, {"أربعة", 4, kindValue}, {"اربع", 4, kindValue},
	{"خمسة", 5, kindValue}, {"خمس", 5, kindValue},
	{"ستة", 6, kindValue},
	{"سبعة", 7, kindValue}, {"سبع", 7, kindValue},
	{"تمانية", 8, kindValue}, {"ثمانية", 8, kindValue}, {"تمان", 8, kindValue},
	{"تسعة", 9, kindValue}, {"تسع", 9, kindValue},
	{"عشرة", 10, kindValue}, {"عشر", 10, kindValue},
	{"حداشر", 11, kindValue}, {"احداشر", 11, kindValue}, {"احدعشر", 11, kindValue},
	{"اتناشر", 12, kindValue}, {"اثناشر", 12, kindValue},
	{"تلتاشر", 13, kindValue},
	{"اربعتاشر", 14, kindValue}, {"اربعطاشر", 14, kindValue},
	{"خمستاشر", 15, kindValue}, {"خمسطاشر", 15, kindValue},
	{"ستاشر", 16, kindValue}, {"سطاشر", 16, kindValue},
	{"سبعتاشر", 17, kindValue}, {"سبعطاشر", 17, kindValue},
	{"تمنتاشر", 18, kindValue}, {"تمنطاشر", 18, kindValue},
	{"تسعتاشر", 19, kindValue}, {"تسعطاشر", 19, kindValue},

	// tens
	{"عشرين", 20, kindTens}, {"عشرون", 20, kindTens},
	{"تلاتين", 30, kindTens}, {"ثلاثين", 30, kindTens},
	{"اربعين", 40, kindTens},
	{"خمسين", 50, kindTens},
	{"ستين", 60, kindTens},
	{"سبعين", 70, kindTens},
	{"تمانين", 80, kindTens}, {"ثمانين", 80, kindTens},
	{"تسعين", 90, kindTens},

	// whole hundreds spoken as one word
	{"ميتين", 200, kindValue}, {"مائتين", 200, kindValue}, {"متين", 200, kindValue},
	{"تلتمية", 300, kindValue}, {"تلاتمية", 300, kindValue}, {"ثلاثمائة", 300, kindValue},
	{"ربعمية", 400, kindValue}, {"اربعمية", 400, kindValue}, {"اربعمائة", 400, kindValue},
	{"خمسمية", 500, kindValue}, {"خمسمائة", 500, kindValue},
	{"ستمية", 600, kindValue}, {"ستمائة", 600, kindValue},
	{"سبعمية", 700, kindValue}, {"سبعمائة", 700, kindValue},
	{"تمنمية", 800, kindValue}, {"ثمانمائة", 800, kindValue},
	{"تسعمية", 900, kindValue}, {"تسعمائة", 900, kindValue},
	{"الفين", 2000, kindValue}, {"ألفين", 2000, kindValue},
	{"مليونين", 2_000_000, kindValue},

	// multipliers
	{"مية", 100, kindHundred}, {"مائة", 100, kindHundred}, {"مئة", 100, kindHundred}, {"ميت", 100, kindHundred},
	{"ألف", 1000, kindThousand}, {"آلاف", 1000, kindThousand}, {"الاف", 1000, kindThousand}, {"تلاف", 1000, kindThousand},
	{"مليون", 1_000_000, kindThousand}, {"ملايين", 1_000_000, kindThousand},

	// fractions
	{"نص", 0.5, kindFraction}, {"نصف", 0.5, kindFraction},
	{"ربع", 0.25, kindFraction},
	{"تلت", 1.0 / 3, kindFraction}, {"ثلث", 1.0 / 3, kindFraction},

	// spoken phrases that read better as one unit
	{"نص مية", 50, kindValue},
	{"ربع مية", 25, kindValue},
	{"نص ألف", 500, kindValue},
	{"ربع مليون", 250_000, kindValue},
	{"نص مليون", 500_000, kindValue},
	{"تلت مية", 300, kindValue}, {"تلات مية", 300, kindValue},
	{"اربع مية", 400, kindValue},
	{"خمس مية", 500, kindValue},
	{"ست مية", 600, kindValue},
	{"سبع مية", 700, kindValue},
	{"تمن مية", 800, kindValue},
	{"تسع مية", 900, kindValue},
	{"ألف و نص", 1500, kindValue},
	{"مية و نص", 150, kindValue},
}

// clitics glued to the front of a number word: "و" (and), "ب" (for).
var numeralPrefixes = normalizer.CanonicalAll([]string{"وب", "و", "ب"})

// measureUnits after a number mark it as a quantity rather than a price.
var measureUnits = toSet(normalizer.CanonicalAll([]string{
	"كيلو", "كيلوجرام", "كيلوجرامات", "كيلوهات", "جرام", "جرامات",
	"لتر", "لترات", "علبة", "علب", "كرتونة", "كراتين", "حبة", "حبات",
	"قطعة", "قطع", "دستة", "باكو", "باكوهات", "ساعة", "ساعات", "دقيقة", "دقايق",
}))

var lexicon = buildLexicon()

func buildLexicon() map[string]numeralWord {
	m := make(map[string]numeralWord, len(lexiconEntries))
	for _, e := range lexiconEntries {
		key := normalizer.Canonical(e.word)
		if key == "" {
			continue
		}
		m[key] = numeralWord{value: e.value, kind: e.kind}
	}
	return m
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenCandidates returns the token itself followed by its clitic-free forms.
func tokenCandidates(token string) []string {
	out := []string{token}
	for _, p := range numeralPrefixes {
		if rest, ok := strings.CutPrefix(token, p); ok && len([]rune(rest)) >= 2 {
			out = append(out, rest)
		}
	}
	return out
}

// lookupAt tries the widest phrase starting at tokens[i] first. It returns
// the matched word and how many tokens it spans.
func lookupAt(tokens []string, i int) (numeralWord, int, bool) {
	for n := maxPhraseWords; n >= 1; n-- {
		if i+n > len(tokens) {
			continue
		}
		tail := ""
		if n > 1 {
			tail = " " + strings.Join(tokens[i+1:i+n], " ")
		}
		for _, head := range tokenCandidates(tokens[i]) {
			if w, ok := lexicon[head+tail]; ok {
				return w, n, true
			}
		}
	}
	return numeralWord{}, 0, false
}

// isNumberWord reports whether a single token is a number word.
func isNumberWord(token string) bool {
	for _, c := range tokenCandidates(token) {
		if _, ok := lexicon[c]; ok {
			return true
		}
	}
	return false
}

// magnitude returns the place value of a whole amount (200 -> 100, 2000 -> 1000).
func magnitude(v float64) float64 {
	if v < 100 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(v)))
}
