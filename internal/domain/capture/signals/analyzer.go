// Package signals detects time, location, payment and quantity cues in a
// transcript and turns them into a confidence score.
package signals

import (
	"math"
	"strings"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	baseConfidence     = 0.5
	timeWeight         = 0.1
	locationWeight     = 0.2
	paymentWeight      = 0.1
	quantityWeight     = 0.1
	maxConfidenceScore = 1.0
)

var timeReferences = normalizer.CanonicalAll([]string{
	"النهارده", "النهاردة", "انهارده", "امبارح", "إمبارح", "اول امبارح", "بكره", "بكرة",
	"الصبح", "الصباح", "بالليل", "الضهر", "الظهر", "العصر", "المغرب", "بليل",
	"من شويه", "من شوية", "الاسبوع", "الأسبوع", "الشهر ده", "الشهر اللي فات",
	"اول الشهر", "آخر الشهر", "يوم", "الساعه", "الساعة", "السنه دي",
	"today", "yesterday", "tonight",
})

var locationReferences = normalizer.CanonicalAll([]string{
	"مطعم", "المطعم", "كافيه", "الكافيه", "كافيتريا", "قهوه", "القهوة",
	"المول", "مول", "سوبر ماركت", "السوبر ماركت", "هايبر", "السوق", "سوق",
	"صيدليه", "صيدلية", "الصيدلية", "مستشفى", "المستشفى", "عياده", "عيادة",
	"محطه", "محطة", "البنزينه", "البنزينة", "الجمعيه", "الجمعية", "البقال",
	"الكشك", "المحل", "محل", "البنك", "الجامعه", "المدرسه", "النادي", "الجيم",
	"كارفور", "هايبر وان", "سعودي ماركت", "خير زمان",
})

var paymentMethods = normalizer.CanonicalAll([]string{
	"كاش", "نقدي", "نقدا", "فيزا", "الفيزا", "كريديت", "كارت", "الكارت", "بطاقه",
	"فودافون كاش", "انستاباي", "instapay", "تحويل", "حواله", "حوالة", "شيك",
	"محفظه", "محفظة", "ميزه", "ميزة", "فوري", "اتصالات كاش", "اورانج كاش",
	"visa", "cash",
})

var quantityIndicators = normalizer.CanonicalAll([]string{
	"كيلو", "الكيلو", "كيلوجرام", "جرام", "جرامات", "لتر", "اللتر", "لترات",
	"علبه", "علبة", "علب", "كرتونه", "كرتونة", "حبه", "حباية", "حبات",
	"قطعه", "قطعة", "دسته", "دستة", "باكو", "باكت",
	"نص كيلو", "ربع كيلو", "الواحده", "الواحد", "كل واحد",
})

// Analyze scans text for the four cue families. It is total and
// deterministic; an empty text yields the base confidence with no cues.
func Analyze(text string) common.ContextSignals {
	s := normalizer.Canonical(text)

	sig := common.ContextSignals{
		HasTimeReference:     containsAny(s, timeReferences),
		HasLocationReference: containsAny(s, locationReferences),
		HasPaymentMethod:     containsAny(s, paymentMethods),
		HasQuantityIndicator: containsAny(s, quantityIndicators),
	}

	confidence := baseConfidence
	if sig.HasTimeReference {
		confidence += timeWeight
	}
	if sig.HasLocationReference {
		confidence += locationWeight
	}
	if sig.HasPaymentMethod {
		confidence += paymentWeight
	}
	if sig.HasQuantityIndicator {
		confidence += quantityWeight
	}
	sig.Confidence = math.Min(confidence, maxConfidenceScore)

	return sig
}

func containsAny(s string, phrases []string) bool {
	if s == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
