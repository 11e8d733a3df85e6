// Package speech rewrites known speech-to-text mistakes and dialect spellings
// into the forms the rest of the extractor understands.
package speech

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
)

// Rule rewrites one mis-transcribed phrase.
type Rule struct {
	Error      string
	Correction string
}

// defaultRules is consulted in declaration order. Entries are written in
// natural spelling and canonicalized on load.
var defaultRules = []Rule{
	// multi-word phrases first so they win over their parts
	{"اخدت المرتب", "قبضت المرتب"},
	{"خدت المرتب", "قبضت المرتب"},
	{"نزلي المرتب", "نزل المرتب"},
	{"فودافون كاس", "فودافون كاش"},
	{"انستا باي", "انستاباي"},
	{"سوبرماركت", "سوبر ماركت"},
	{"السوبرماركت", "السوبر ماركت"},

	// emphatic / plain taa confusions at the end of past-tense verbs
	{"اشتريط", "اشتريت"},
	{"اشتريد", "اشتريت"},
	{"شتريت", "اشتريت"},
	{"دفعط", "دفعت"},
	{"دفأت", "دفعت"},
	{"صرفط", "صرفت"},
	{"قبضط", "قبضت"},

	// qaf heard as hamza, the way it is pronounced in Cairo
	{"أبضت", "قبضت"},
	{"أبضنا", "قبضنا"},

	// tense confusions: future/continuous prefix glued to a past form
	{"بشتريت", "اشتريت"},
	{"هشتريت", "اشتريت"},
	{"بدفعت", "دفعت"},
	{"هدفعت", "دفعت"},
	{"بصرفت", "صرفت"},
	{"بقبضت", "قبضت"},

	// common nouns the engine keeps mangling
	{"المرطب", "المرتب"},
	{"مرطب", "مرتب"},
	{"مرطبي", "مرتبي"},
	{"الموصلات", "المواصلات"},
	{"موصلات", "مواصلات"},
	{"مواصلاط", "مواصلات"},
	{"البنزيم", "البنزين"},
	{"بنزيم", "بنزين"},
	{"الصيدلة", "الصيدليه"},
	{"صيدلة", "صيدليه"},
	{"كهربا", "كهرباء"},
	{"الكهربا", "الكهرباء"},
	{"اوبير", "اوبر"},
	{"تكسي", "تاكسي"},

	// currency spellings
	{"جنيهات", "جنيه"},
	{"جنيهًا", "جنيه"},
	{"جنية", "جنيه"},
	{"جنيهاً", "جنيه"},
}

// Corrector applies an ordered rule table with word-boundary matching.
type Corrector struct {
	rules []Rule
}

var defaultCorrector = NewCorrector(defaultRules)

// NewCorrector canonicalizes the rules once. Rules that collapse to a no-op
// after canonicalization are dropped.
func NewCorrector(rules []Rule) *Corrector {
	c := &Corrector{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		errPhrase := normalizer.Canonical(r.Error)
		correction := normalizer.Canonical(r.Correction)
		if errPhrase == "" || errPhrase == correction {
			continue
		}
		c.rules = append(c.rules, Rule{Error: errPhrase, Correction: correction})
	}
	return c
}

// DefaultRules returns a copy of the built-in correction table in the order
// it is applied.
func DefaultRules() []Rule {
	return slices.Clone(defaultRules)
}

// Correct runs the default table over text.
func Correct(text string) string {
	return defaultCorrector.Correct(text)
}

// Correct canonicalizes text and rewrites every known error phrase. The scan
// is a single left-to-right pass: at each word start the first rule that
// matches a whole-word span wins, and the replaced span is not revisited.
func (c *Corrector) Correct(text string) string {
	s := normalizer.Canonical(text)
	if s == "" || len(c.rules) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	prevWord := false
	for i := 0; i < len(s); {
		if !prevWord {
			if rule, ok := c.match(s, i); ok {
				b.WriteString(rule.Correction)
				i += len(rule.Error)
				prevWord = true
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		prevWord = normalizer.IsWordRune(r)
		i += size
	}

	return b.String()
}

// match returns the first rule whose error phrase starts at i and ends on a
// word boundary.
func (c *Corrector) match(s string, i int) (Rule, bool) {
	rest := s[i:]
	for _, rule := range c.rules {
		if !strings.HasPrefix(rest, rule.Error) {
			continue
		}
		end := len(rule.Error)
		if end == len(rest) {
			return rule, true
		}
		next, _ := utf8.DecodeRuneInString(rest[end:])
		if !normalizer.IsWordRune(next) {
			return rule, true
		}
	}
	return Rule{}, false
}
