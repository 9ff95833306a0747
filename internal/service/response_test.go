package service

import (
	"strings"
	"testing"
)

func TestGenerateIntroDeterministic(t *testing.T) {
	first := GenerateIntro("I love atmospheric horror movies")
	second := GenerateIntro("I love atmospheric horror movies")
	if first != second {
		t.Errorf("same input produced different intros: %q vs %q", first, second)
	}
}

func TestGenerateIntroUsesFirstKeyword(t *testing.T) {
	intro := GenerateIntro("I love atmospheric horror movies")
	if !strings.Contains(intro, "atmospheric") {
		t.Errorf("intro %q should contain the first meaningful keyword", intro)
	}
}

func TestGenerateIntroFallback(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only stopwords", input: "I love the and"},
		{name: "only short words", input: "a big sad dog ran"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GenerateIntro(tc.input); got != defaultIntro {
				t.Errorf("GenerateIntro(%q) = %q, want fallback", tc.input, got)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("I want MOODY melancholic atmospheric harmonies", 3)
	want := []string{"moody", "melancholic", "atmospheric"}
	if len(got) != len(want) {
		t.Fatalf("extracted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d = %q, want %q", i, got[i], want[i])
		}
	}
}
