package category

import "github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"

// Canonical category names the keyword table is keyed by.
const (
	Food          = "food"
	Transport     = "transport"
	Shopping      = "shopping"
	Bills         = "bills"
	Housing       = "housing"
	Health        = "health"
	Education     = "education"
	Entertainment = "entertainment"
	Gifts         = "gifts"
	Charity       = "charity"
	Salary        = "salary"
	Freelance     = "freelance"
	Business      = "business"
	Investment    = "investment"
	Rental        = "rental"
	Refund        = "refund"
)

type entry struct {
	name     string
	keywords []string
}

// table is consulted in order; an earlier category wins a keyword both share.
// Keywords are kept at three letters or more, and words that start with "ال"
// are listed only when the bare word is too short to stand alone.
var table = buildTable([]entry{
	{Food, []string{
		"اكل", "أكل", "طعام", "غدا", "غداء", "عشا", "عشاء", "فطار", "فطور", "سحور",
		"مطعم", "كافيه", "كافيتريا", "قهوة", "شاي", "عيش", "خبز", "فول", "طعمية",
		"كشري", "فراخ", "لحمة", "لحم", "سمك", "خضار", "خضروات", "فاكهة", "فواكه",
		"طماطم", "بطاطس", "الرز", "مكرونة", "جبنة", "لبن", "البيض", "تونة",
		"بقالة", "البقال", "سوبر ماركت", "حلويات", "ساندوتش", "سندوتش", "شاورما",
		"بيتزا", "برجر", "كنتاكي", "ماكدونالدز", "طلبات", "عصير", "مشروب",
		"ميه معدنية", "kfc", "pizza", "food",
	}},
	{Transport, []string{
		"مواصلات", "تاكسي", "اوبر", "أوبر", "uber", "careem", "اندرايف", "سواق",
		"ميكروباص", "مكروباص", "ميكرو", "توكتوك", "توك توك", "اتوبيس", "أتوبيس",
		"باص", "مترو", "القطر", "قطار", "بنزين", "سولار", "عربية", "جراج", "ركنة",
		"كارتة", "سكوتر", "ركبت", "تذكرة القطر",
	}},
	{Shopping, []string{
		"هدوم", "لبس", "ملابس", "قميص", "بنطلون", "جزمة", "شنطة", "فستان", "جاكت",
		"تيشيرت", "كوتشي", "لابتوب", "سماعة", "شاحن", "نضارة", "برفان", "عطر",
		"مكياج", "ميكب", "المول", "امازون", "أمازون", "جوميا", "noon", "amazon",
		"شوبنج",
	}},
	{Bills, []string{
		"فاتورة", "فواتير", "كهرباء", "الكهرباء", "المياه", "مياه", "الغاز", "غاز",
		"النت", "انترنت", "إنترنت", "واي فاي", "رصيد", "كارت شحن", "شحنت",
		"فودافون", "اتصالات", "اورانج", "الأرضي", "التليفون", "الموبايل",
	}},
	{Housing, []string{
		"ايجار", "إيجار", "الشقة", "شقة", "السكن", "صيانة", "سباك", "كهربائي",
		"نقاش", "عفش", "اثاث", "أثاث", "موبيليا", "نجار", "مفروشات", "تصليح",
		"بواب", "العمارة",
	}},
	{Health, []string{
		"دكتور", "دكتورة", "الدوا", "دواء", "أدوية", "ادوية", "علاج", "صيدلية",
		"مستشفى", "عيادة", "كشف", "تحاليل", "تحليل", "أشعة", "اشعة", "اسنان",
		"أسنان", "مسكن", "بنادول", "قطرة", "فيتامين", "الجيم", "جيم",
	}},
	{Education, []string{
		"مدرسة", "المدرسة", "جامعة", "الجامعة", "كلية", "كورس", "دروس", "درس",
		"مدرس", "الكتب", "كتاب", "كراسات", "ادوات مدرسية", "سنتر", "تعليم",
		"امتحان", "يونيفورم", "مصاريف الدراسة",
	}},
	{Entertainment, []string{
		"سينما", "فيلم", "ماتش", "النادي", "نادي", "خروجة", "فسحة", "رحلة",
		"مصيف", "ملاهي", "بلايستيشن", "بلاي ستيشن", "نتفليكس", "نتفلكس",
		"سبوتيفاي", "شاهد", "كافيه العاب", "netflix",
	}},
	{Gifts, []string{
		"هدية", "هدايا", "عيدية", "عيد ميلاد", "نقطة الفرح",
	}},
	{Charity, []string{
		"صدقة", "زكاة", "زكاه", "تبرع", "تبرعت", "جمعية خيرية", "مسجد", "الجامع",
		"كنيسة",
	}},
	{Salary, []string{
		"مرتب", "المرتب", "راتب", "الراتب", "حافز", "حوافز", "مكافأة", "بونص",
		"salary",
	}},
	{Freelance, []string{
		"فريلانس", "فري لانس", "شغل حر", "الشغل الحر", "مشروع", "عميل", "زبون",
		"بروجكت", "تصميم", "upwork", "fiverr", "freelance",
	}},
	{Business, []string{
		"البيزنس", "بيزنس", "المحل", "مبيعات", "تجارة", "بضاعة", "ارباح", "أرباح",
		"شغلانة",
	}},
	{Investment, []string{
		"استثمار", "أسهم", "اسهم", "البورصة", "فوايد", "فوائد", "الفايدة", "شهادة",
		"شهادات", "وديعة", "الدهب", "دهب", "ذهب", "عائد", "بيتكوين", "كريبتو",
	}},
	{Rental, []string{
		"ايجار", "إيجار", "المستأجر", "مستأجر", "الساكن", "ايجار الشقة",
	}},
	{Refund, []string{
		"استرجاع", "استرداد", "مرتجع", "رجعولي", "رجعلي", "فلوس راجعة",
		"كاش باك", "كاشباك", "تعويض", "refund", "cashback",
	}},
})

// context cues for the last-resort heuristics
var (
	diningPlaces   = normalizer.CanonicalAll([]string{"مطعم", "كافيه", "كافيتريا", "قهوة", "كشك"})
	medicalPlaces  = normalizer.CanonicalAll([]string{"صيدلية", "مستشفى", "عيادة", "معمل"})
	shoppingPlaces = normalizer.CanonicalAll([]string{"مول", "سوق", "سوبر ماركت", "هايبر", "كارفور", "محل"})
	weightUnits    = normalizer.CanonicalAll([]string{"كيلو", "جرام", "نص كيلو", "ربع كيلو"})
	volumeUnits    = normalizer.CanonicalAll([]string{"لتر", "لترات"})
	fuelWords      = normalizer.CanonicalAll([]string{"بنزين", "سولار", "جاز", "زيت موتور"})
)

func buildTable(entries []entry) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{name: e.name, keywords: dedupe(normalizer.CanonicalAll(e.keywords))})
	}
	return out
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
