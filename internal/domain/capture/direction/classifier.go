// Package direction decides whether a clause records money spent or money
// received.
package direction

import (
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	// keywords longer than this are less ambiguous and weigh double
	longKeywordRunes = 4
	// share of the keyword score income needs to win
	incomeConfidence = 0.6
)

var expenseKeywords = normalizer.CanonicalAll([]string{
	// perfect
	"اشتريت", "اشترينا", "شريت", "جبت", "جبنا", "دفعت", "دفعنا", "صرفت", "صرفنا",
	"حاسبت", "سددت", "سددنا", "ركبت", "اتغديت", "اتعشيت", "فطرت", "خسرت", "اديت",
	// future and continuous
	"هشتري", "هدفع", "هصرف", "بشتري", "بدفع", "بصرف", "هسدد", "بسدد",
	// stems and nouns
	"اشتري", "دفع", "صرف", "فاتوره", "حساب", "مصاريف", "مصروف", "قسط", "ايجار",
	"اشتراك", "شحن", "تمن",
	// money left
	"خرج مني", "راحت مني", "طلع مني", "اتخصم",
	"paid", "bought", "spent",
})

var incomeKeywords = normalizer.CanonicalAll([]string{
	// perfect
	"قبضت", "قبضنا", "استلمت", "كسبت", "ربحت", "حصلت", "جالي", "جاتلي",
	"وصلني", "وصلتني", "نزلي", "نزللي",
	// future and continuous
	"هقبض", "بقبض", "هستلم", "بستلم",
	// stems and nouns
	"قبض", "المرتب", "مرتب", "راتب", "الراتب", "مكافاه", "حافز", "عموله", "ارباح",
	"ربح", "عيديه", "بونص", "فلوس الشغل",
	// money arrived
	"دخلي فلوس", "جت فلوس", "اتحولي", "اتحول لي",
	"salary", "received", "earned",
})

// expenseLocations force Expense and are checked before incomePayments.
var expenseLocations = normalizer.CanonicalAll([]string{
	"مطعم", "مول", "سوق", "سوبر ماركت", "صيدليه", "محطه", "بنزينه", "كافيه",
	"هايبر", "كارفور",
})

// incomePayments force Income.
var incomePayments = normalizer.CanonicalAll([]string{
	"تحويل", "حواله", "شيك",
})

// attached forms allowed in front of a forcing word
var forcingPrefixes = []string{"", "ال", "بال", "فال", "لل", "ب", "ف", "و"}

// Breakdown explains a classification.
type Breakdown struct {
	Income     int
	Expense    int
	Confidence float64
	Forced     bool
	Direction  common.Direction
}

// Classify returns Income or Expense for text. Anything that is not
// confidently income is an expense.
func Classify(text string) common.Direction {
	return Score(text).Direction
}

// Score classifies text and reports the keyword scores behind the decision.
// Confidence is income's share of the total keyword score.
func Score(text string) Breakdown {
	s := normalizer.Canonical(text)

	b := Breakdown{
		Income:    score(s, incomeKeywords),
		Expense:   score(s, expenseKeywords),
		Direction: common.DirectionExpense,
	}
	if total := b.Income + b.Expense; total > 0 {
		b.Confidence = float64(b.Income) / float64(total)
	}

	switch {
	case containsForm(s, expenseLocations):
		b.Forced = true
	case containsForm(s, incomePayments):
		b.Forced = true
		b.Direction = common.DirectionIncome
	case b.Income > b.Expense && b.Confidence > incomeConfidence:
		b.Direction = common.DirectionIncome
	}
	return b
}

func score(s string, keywords []string) int {
	if s == "" {
		return 0
	}
	total := 0
	for _, k := range keywords {
		n := strings.Count(s, k)
		if n == 0 {
			continue
		}
		weight := 1
		if utf8.RuneCountInString(k) > longKeywordRunes {
			weight = 2
		}
		total += n * weight
	}
	return total
}

// containsForm matches whole words, optionally carrying an attached article
// or preposition ("بالشيك", "فالمول").
func containsForm(s string, words []string) bool {
	if s == "" {
		return false
	}
	for _, w := range words {
		for _, p := range forcingPrefixes {
			if normalizer.ContainsWord(s, p+w) {
				return true
			}
		}
	}
	return false
}
