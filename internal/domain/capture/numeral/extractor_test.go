package numeral

import (
	"math"
	"testing"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

func equalAmounts(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestExtractAmounts(t *testing.T) {
	plain := common.ContextSignals{Confidence: 0.5}
	quantity := common.ContextSignals{HasQuantityIndicator: true, Confidence: 0.6}
	confident := common.ContextSignals{HasLocationReference: true, Confidence: 0.7}

	tests := []struct {
		name     string
		input    string
		sig      common.ContextSignals
		expected []float64
	}{
		{"empty", "", plain, nil},
		{"digits", "دفعت 25 جنيه", plain, []float64{25}},
		{"arabic-indic digits", "دفعت ٢٥ جنيه", plain, []float64{25}},
		{"decimal", "قهوه ب ١٢٫٥", plain, []float64{12.5}},
		{"glued clitic", "اشتريت اكل ب20 جنيه", plain, []float64{20}},
		{"words", "صرفت خمسه وعشرين جنيه على المواصلات", plain, []float64{25}},
		{"glued word", "اشتريت اكل بعشرين جنيه", plain, []float64{20}},
		{"hundreds", "دفعت ميه وخمسه وعشرين", plain, []float64{125}},
		{"thousand", "قبضت المرتب الف جنيه", plain, []float64{1000}},
		{"two digit amounts", "دفعت 20 و كمان 10 مواصلات", plain, []float64{20, 10}},
		{"duplicate", "20 و 20", plain, []float64{20}},
		{"zero", "دفعت 0 جنيه", plain, nil},
		{"below a piaster", "دفعت 0.001 جنيه", plain, nil},
		{"one piaster", "دفعت 0.01 جنيه", plain, []float64{0.01}},
		{"half after units", "دفعت الف وخمسه ونص", plain, []float64{1005.5}},
		{"quantity is not a price", "جبت 2 كيلو طماطم", quantity, nil},
		{"word quantity is not a price", "جبت تلاته كيلو طماطم", quantity, nil},
		{"unit price", "جبت 2 كيلو طماطم الكيلو ب 15", quantity, []float64{15}},
		{"large amount needs context", "اشتريت عربيه ب 50000", plain, nil},
		{"large amount with context", "اشتريت من المحل ب 50000", confident, []float64{50000}},
		{"above ceiling", "2000000", confident, nil},
		{"at ceiling", "1000000", confident, []float64{1000000}},
		{"grouped digits", "1,500 جنيه", plain, []float64{1500}},
	}

	for _, tc := range tests {
		got := ExtractAmounts(tc.input, tc.sig)
		if !equalAmounts(got, tc.expected) {
			t.Errorf("%s: ExtractAmounts(%q) = %v, want %v", tc.name, tc.input, got, tc.expected)
		}
	}
}

func TestExtractAmounts_NoDuplicates(t *testing.T) {
	got := ExtractAmounts("الكيلو ب 30 و 30 و 30.001", common.ContextSignals{HasQuantityIndicator: true, Confidence: 0.6})
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if math.Abs(got[i]-got[j]) < amountEpsilon {
				t.Errorf("amounts %v and %v are duplicates in %v", got[i], got[j], got)
			}
		}
	}
}

func TestExtractComplexNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"", 0, false},
		{"اهلا بيك", 0, false},
		{"خمسه", 5, true},
		{"خمسه وعشرين", 25, true},
		{"ميه وخمسه وعشرين", 125, true},
		{"ميتين وخمسين", 250, true},
		{"خمسمية", 500, true},
		{"خمس مية", 500, true},
		{"الف ونص", 1500, true},
		{"ألف و نص", 1500, true},
		{"مية ونص", 150, true},
		{"ألف وخمسمية", 1500, true},
		{"تلات تلاف", 3000, true},
		{"عشرين الف", 20000, true},
		{"الفين وتلتمية", 2300, true},
		{"نص مية", 50, true},
		{"ربع مية", 25, true},
		{"مليون", 1_000_000, true},
		{"ربع", 0.25, true},
		{"الف وخمسه ونص", 1005.5, true},
		{"ميه وخمسه ونص", 105.5, true},
		{"ميتين وخمسين ونص", 250.5, true},
	}

	for _, tc := range tests {
		got, ok := ExtractComplexNumber(tc.input)
		if ok != tc.ok || math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("ExtractComplexNumber(%q) = (%v, %v), want (%v, %v)", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

func TestHasNumeral(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"اشتريت اكل", false},
		{"اشتريت اكل ب20", true},
		{"دفعت ٥٠", true},
		{"بعشرين", true},
		{"وخمسين", true},
		{"كمان دفعت", false},
	}

	for _, tc := range tests {
		if got := HasNumeral(tc.input); got != tc.expected {
			t.Errorf("HasNumeral(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestMagnitude(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{5, 1},
		{99, 1},
		{200, 100},
		{900, 100},
		{2000, 1000},
		{2_000_000, 1_000_000},
	}
	for _, tc := range tests {
		if got := magnitude(tc.input); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("magnitude(%v) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}
