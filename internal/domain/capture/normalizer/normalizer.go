// Package normalizer canonicalizes Arabic transcripts before any matching.
// Digits, letter shapes, diacritics, punctuation and whitespace are folded so
// that keyword tables only need to list one spelling per word.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// 1,000 and 1,000,000 style digit grouping
	groupedDigits = regexp.MustCompile(`(\d),(\d{3})\b`)
	separatorRun  = regexp.MustCompile(`\s*([,;!?])[\s,;!?]*`)
	ellipsis      = regexp.MustCompile(`\.{2,}`)
)

// foldRune maps a single rune to its canonical form.
func foldRune(r rune) rune {
	switch {
	case r >= '\u0660' && r <= '\u0669':
		return '0' + (r - '\u0660')
	case r >= '\u06F0' && r <= '\u06F9':
		return '0' + (r - '\u06F0')
	}

	switch r {
	case 'أ', 'إ', 'آ', 'ٱ':
		return 'ا'
	case 'ى':
		return 'ي'
	case 'ة':
		return 'ه'
	case '،':
		return ','
	case '؛':
		return ';'
	case '؟':
		return '?'
	case '٫':
		return '.'
	case '٬':
		return ','
	case '–', '—', '−':
		return '-'
	case '"', '“', '”', '«', '»', '(', ')', '[', ']', '\u200c', '\u200d', '\u200e', '\u200f':
		return ' '
	}

	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// isDiacritic reports harakat, tanween, superscript alef, tatweel and
// Quranic annotation marks.
func isDiacritic(r rune) bool {
	switch {
	case r >= '\u064B' && r <= '\u065F':
		return true
	case r == '\u0670', r == '\u0640':
		return true
	case r >= '\u06D6' && r <= '\u06ED':
		return true
	}
	return false
}

// newFolder builds the rune pipeline. A transform chain keeps internal
// buffers, so every call gets its own.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Map(foldRune),
		runes.Remove(runes.Predicate(isDiacritic)),
	)
}

// Normalize returns the canonical spelling of text. It never fails and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded, _, err := transform.String(newFolder(), text)
	if err != nil {
		folded = strings.Map(foldRune, text)
	}

	for groupedDigits.MatchString(folded) {
		folded = groupedDigits.ReplaceAllString(folded, "$1$2")
	}

	folded = ellipsis.ReplaceAllString(folded, ".")
	folded = separatorRun.ReplaceAllString(folded, "$1 ")

	return strings.Join(strings.Fields(folded), " ")
}

// Canonical is Normalize plus lower-casing, the form every matcher works on.
func Canonical(text string) string {
	return cases.Lower(language.Und).String(Normalize(text))
}

// CanonicalAll canonicalizes a word list, dropping entries that become empty.
func CanonicalAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if c := Canonical(w); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// IsWordRune reports whether r belongs to a word: letters and combining marks.
// Arabic letters carry no case and no ASCII word class, so boundaries are
// decided on this instead of \b.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}

// leftBoundary reports whether the rune before byte offset i is not part of a word.
func leftBoundary(s string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !IsWordRune(r)
}

// rightBoundary reports whether the rune at byte offset i is not part of a word.
func rightBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !IsWordRune(r)
}

// IndexWord finds the first occurrence of word in s at or after offset that is
// not glued to surrounding letters. It returns -1 when there is none.
func IndexWord(s, word string, offset int) int {
	if word == "" {
		return -1
	}
	for offset <= len(s) {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(word)
		if leftBoundary(s, start) && rightBoundary(s, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return -1
}

// ContainsWord reports whether word appears in s as a whole word.
func ContainsWord(s, word string) bool {
	return IndexWord(s, word, 0) >= 0
}

// ReplaceWord replaces every whole-word occurrence of word in s.
func ReplaceWord(s, word, replacement string) string {
	if word == "" {
		return s
	}
	var b strings.Builder
	offset := 0
	for {
		idx := IndexWord(s, word, offset)
		if idx < 0 {
			break
		}
		b.WriteString(s[offset:idx])
		b.WriteString(replacement)
		offset = idx + len(word)
	}
	if offset == 0 {
		return s
	}
	b.WriteString(s[offset:])
	return b.String()
}
