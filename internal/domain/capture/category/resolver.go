// Package category maps a clause to one of the caller's categories.
//
// Matching runs as a cascade and stops at the first hit: whole keywords, then
// truncated keyword prefixes, then location and quantity cues, then the
// direction's fallback category.
package category

import (
	"strings"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	minFuzzyRunes = 3
	article       = "ال"
)

// names a caller may use for its own catch-all category
var fallbackNames = []string{"other", "uncategorized", "other_income", "uncategorized_income"}

// catalog indexes the caller's categories of one direction by lower-cased
// canonical name and id.
type catalog map[string]string

func newCatalog(cats []common.Category, dir common.Direction) catalog {
	c := make(catalog, len(cats)*2)
	for _, cat := range cats {
		if cat.Direction != dir || cat.ID == "" {
			continue
		}
		for _, key := range []string{cat.CanonicalName, cat.ID} {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if _, taken := c[key]; !taken {
				c[key] = cat.ID
			}
		}
	}
	return c
}

func (c catalog) lookup(name string) (string, bool) {
	id, ok := c[name]
	return id, ok
}

// Resolve returns the id of the category text belongs to. The result is
// always a category of direction dir from cats, or the direction's reserved
// fallback id.
func Resolve(text string, cats []common.Category, dir common.Direction, sig common.ContextSignals) string {
	s := normalizer.Canonical(text)
	available := newCatalog(cats, dir)

	if s != "" {
		if id, ok := exactMatch(s, available); ok {
			return id
		}
		if id, ok := fuzzyMatch(s, available); ok {
			return id
		}
		if id, ok := contextMatch(s, available, sig); ok {
			return id
		}
	}
	return fallback(available, dir)
}

func exactMatch(s string, available catalog) (string, bool) {
	for _, e := range table {
		id, ok := available.lookup(e.name)
		if !ok {
			continue
		}
		for _, k := range e.keywords {
			if strings.Contains(s, k) {
				return id, true
			}
		}
	}
	return "", false
}

// fuzzyMatch looks for keywords with their last letter dropped, which catches
// plurals, attached pronouns and clipped transcriptions ("المواصلا").
func fuzzyMatch(s string, available catalog) (string, bool) {
	for _, e := range table {
		id, ok := available.lookup(e.name)
		if !ok {
			continue
		}
		for _, k := range e.keywords {
			stem, ok := fuzzyStem(k)
			if ok && strings.Contains(s, stem) {
				return id, true
			}
		}
	}
	return "", false
}

// fuzzyStem drops the last letter of a keyword, keeping at least three. The
// article is not counted, so "الرز" never shrinks to a bare "الر".
func fuzzyStem(keyword string) (string, bool) {
	stem := []rune(strings.TrimPrefix(keyword, article))
	if len(stem) < minFuzzyRunes {
		return "", false
	}
	return string(stem[:max(len(stem)-1, minFuzzyRunes)]), true
}

func contextMatch(s string, available catalog, sig common.ContextSignals) (string, bool) {
	if sig.HasLocationReference {
		switch {
		case containsAny(s, diningPlaces):
			if id, ok := available.lookup(Food); ok {
				return id, true
			}
		case containsAny(s, medicalPlaces):
			if id, ok := available.lookup(Health); ok {
				return id, true
			}
		case containsAny(s, shoppingPlaces):
			if id, ok := available.lookup(Shopping); ok {
				return id, true
			}
		}
	}

	if sig.HasQuantityIndicator {
		if containsAny(s, weightUnits) {
			if id, ok := available.lookup(Food); ok {
				return id, true
			}
		}
		if containsAny(s, volumeUnits) && containsAny(s, fuelWords) {
			if id, ok := available.lookup(Transport); ok {
				return id, true
			}
		}
	}
	return "", false
}

// fallback prefers the caller's own catch-all for the direction.
func fallback(available catalog, dir common.Direction) string {
	for _, name := range fallbackNames {
		if id, ok := available.lookup(name); ok {
			return id
		}
	}
	return dir.FallbackCategoryID()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
