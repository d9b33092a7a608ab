package normalize

import (
	"reflect"
	"testing"
)

func TestSentencesBasic(t *testing.T) {
	text := "The quick brown fox. It jumps (over) the dog; twice: again."
	got := Sentences(text)

	want := []Sentence{
		{"the", "quick", "brown", "fox"},
		{"it", "jumps"},
		{"over"},
		{"the", "dog"},
		{"twice"},
		{"again"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sentences mismatch:\n got  %q\n want %q", got, want)
	}
}

func TestSentencesLineBreaks(t *testing.T) {
	got := Sentences("based on\nNVIDIA\ngpus")
	want := []Sentence{{"based", "on", "nvidia", "gpus"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("line breaks should join words: got %q", got)
	}
}

func TestSentencesDropsBlankSegments(t *testing.T) {
	got := Sentences("..  . ;; one two.   ")
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %q", len(got), got)
	}
	if !reflect.DeepEqual(got[0], Sentence{"one", "two"}) {
		t.Errorf("unexpected sentence %q", got[0])
	}
}

func TestSentencesSpaceOnlySegmentIsNotASentence(t *testing.T) {
	got := Sentences("a b. . c d")
	want := []Sentence{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sentences = %q, want %q", got, want)
	}
}

func TestSentencesEmptyInput(t *testing.T) {
	if got := Sentences(""); len(got) != 0 {
		t.Errorf("empty text should yield no sentences, got %q", got)
	}
}

func TestASCIILowercaseOnly(t *testing.T) {
	got := Words("ÄPFEL GPU Übung")
	want := Sentence{"Äpfel", "gpu", "Übung"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("only ASCII letters should be lowercased: got %q", got)
	}
}

func TestWordsKeepsDelimitersAndMasks(t *testing.T) {
	got := Words("Based on NVIDIA % is %. to_do")
	want := Sentence{"based", "on", "nvidia", "%", "is", "%.", "to_do"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words mismatch: got %q want %q", got, want)
	}
}

func TestWordsWhitespaceKinds(t *testing.T) {
	got := Words(" a\tb\r\nc\fd  ")
	want := Sentence{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words mismatch: got %q want %q", got, want)
	}
}
