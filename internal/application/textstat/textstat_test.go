package textstat

import (
	"math"
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences(`He said "stop." Then he left! Was it 3.5 miles? Maybe...  no`)
	want := []string{`He said "stop."`, "Then he left!", "Was it 3.5 miles?", "Maybe...", "no"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sentences:\n got %q\nwant %q", got, want)
	}
	if len(SplitSentences("   ")) != 0 {
		t.Fatalf("expected no sentences for blank input")
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("one\ntwo\n\n  \nthree\n\n\n")
	if len(got) != 2 || got[0] != "one\ntwo" || got[1] != "three" {
		t.Fatalf("unexpected paragraphs: %q", got)
	}
}

func TestSyllables(t *testing.T) {
	cases := map[string]int{"cat": 1, "table": 2, "make": 1, "beautiful": 3, "rhythm": 1, "": 0}
	for word, want := range cases {
		if got := Syllables(word); got != want {
			t.Fatalf("Syllables(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestMeanStd(t *testing.T) {
	mean, sd := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 || math.Abs(sd-2) > 1e-9 {
		t.Fatalf("unexpected mean/sd: %v %v", mean, sd)
	}
}

func TestMatchCase(t *testing.T) {
	if got := MatchCase("Big", "large"); got != "Large" {
		t.Fatalf("expected title case, got %q", got)
	}
	if got := MatchCase("BIG", "large"); got != "LARGE" {
		t.Fatalf("expected upper case, got %q", got)
	}
	if got := MatchCase("big", "large"); got != "large" {
		t.Fatalf("expected lower case, got %q", got)
	}
}

func TestLowerFirst(t *testing.T) {
	if got := LowerFirst("The cat"); got != "the cat" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := LowerFirst("I think so"); got != "I think so" {
		t.Fatalf("pronoun I must stay upper case, got %q", got)
	}
	if got := LowerFirst("NASA launched"); got != "NASA launched" {
		t.Fatalf("acronym must stay upper case, got %q", got)
	}
}

func TestLexicalDiversityAndJaccard(t *testing.T) {
	if got := LexicalDiversity([]string{"a", "A", "b", "c"}); got != 0.75 {
		t.Fatalf("unexpected diversity: %v", got)
	}
	if got := Jaccard([]string{"a", "b"}, []string{"b", "c"}); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Fatalf("unexpected jaccard: %v", got)
	}
}

func TestCount(t *testing.T) {
	stats := Count("One two. Three four five!\n\nSix.")
	if stats.Words != 6 || stats.Sentences != 3 || stats.Paragraphs != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
