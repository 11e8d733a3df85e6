package segmenter

import (
	"reflect"
	"testing"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/numeral"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"no numeral", "اشتريت اكل", nil},
		{"single clause", "اشتريت اكل بعشرين جنيه", []string{"اشتريت اكل بعشرين جنيه"}},
		{
			"connector after and",
			"اشتريت اكل ب20 جنيه و كمان دفعت 10 جنيه مواصلات",
			[]string{"اشتريت اكل ب20 جنيه", "كمان دفعت 10 جنيه مواصلات"},
		},
		{
			"glued connector",
			"دفعت 50 كهرباء وكمان 30 نت",
			[]string{"دفعت 50 كهرباء", "وكمان 30 نت"},
		},
		{
			"list comma",
			"عيش 20، مواصلات 10",
			[]string{"عيش 20", "مواصلات 10"},
		},
		{
			"and before a digit amount",
			"دفعت 20 جنيه اكل و 30 جنيه مواصلات",
			[]string{"دفعت 20 جنيه اكل", "30 جنيه مواصلات"},
		},
		{
			"and glued to a word amount",
			"دفعت عشرين جنيه اكل وتلاتين جنيه مواصلات",
			[]string{"دفعت عشرين جنيه اكل", "وتلاتين جنيه مواصلات"},
		},
		{
			"compound number stays whole",
			"صرفت خمسه وعشرين جنيه على المواصلات",
			[]string{"صرفت خمسه وعشرين جنيه علي المواصلات"},
		},
		{
			"spaced compound number stays whole",
			"دفعت ميه و خمسين جنيه",
			[]string{"دفعت ميه و خمسين جنيه"},
		},
		{
			"short pieces are not split",
			"20, 30",
			[]string{"20, 30"},
		},
		{
			"short piece merges into the one before it",
			"عيش 20، 5، مواصلات 10",
			[]string{"عيش 20, 5", "مواصلات 10"},
		},
		{
			"decimal point is not a separator",
			"قهوه ب 12.5 جنيه",
			[]string{"قهوه ب 12.5 جنيه"},
		},
		{
			"numeral-free piece is dropped",
			"اشتريت عيش ب 15, شكرا جزيلا ليك",
			[]string{"اشتريت عيش ب 15"},
		},
		{
			"action verb split needs confident text",
			"دفعت 100 اكل اشتريت عيش ب 20",
			[]string{"دفعت 100 اكل اشتريت عيش ب 20"},
		},
		{
			"action verb split on confident text",
			"النهارده في المطعم دفعت 100 كاش اشتريت عيش ب 20",
			[]string{"النهارده في المطعم دفعت 100 كاش", "اشتريت عيش ب 20"},
		},
		{
			"temporal connector on confident text",
			"امبارح في المول صرفت 300 كاش وبعدين 50 تاكسي",
			[]string{"امبارح في المول صرفت 300 كاش", "وبعدين 50 تاكسي"},
		},
		{
			"bare amount survives",
			"20",
			[]string{"20"},
		},
	}

	for _, tc := range tests {
		got := Segment(tc.input)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: Segment(%q) = %q, want %q", tc.name, tc.input, got, tc.expected)
		}
	}
}

func TestSegment_KeepsANumeral(t *testing.T) {
	inputs := []string{
		"20",
		"ب 5",
		"اكل ب20، مواصلات",
		"دفعت خمسين و كمان",
		"كمان 10",
		"و 10",
	}

	for _, in := range inputs {
		clauses := Segment(in)
		found := false
		for _, c := range clauses {
			if numeral.HasNumeral(c) {
				found = true
			}
		}
		if !found {
			t.Errorf("Segment(%q) = %q lost every numeral", in, clauses)
		}
	}
}

func TestSegment_ClausesAreLongEnough(t *testing.T) {
	got := Segment("اكل 20, مواصلات 10, عيش 15, بنزين 300")
	for _, c := range got {
		if len([]rune(c)) <= minClauseRunes {
			t.Errorf("clause %q is too short", c)
		}
	}
	if len(got) != 4 {
		t.Errorf("expected 4 clauses, got %q", got)
	}
}

func TestSplit_ConfidenceGatesWeakSeparators(t *testing.T) {
	text := "دفعت 100 اكل اشتريت عيش ب 20"

	if got := Split(text, common.ContextSignals{Confidence: 0.7}); len(got) != 1 {
		t.Errorf("at 0.7 expected one clause, got %q", got)
	}

	want := []string{"دفعت 100 اكل", "اشتريت عيش ب 20"}
	if got := Split(text, common.ContextSignals{Confidence: 0.8}); !reflect.DeepEqual(got, want) {
		t.Errorf("at 0.8 got %q, want %q", got, want)
	}
}
