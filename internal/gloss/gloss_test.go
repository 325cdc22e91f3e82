package gloss

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtract_FiltersAndUppercases(t *testing.T) {
	e := NewExtractor([]string{"the", "on"})

	got := e.Extract("The Cat Sat on THE Mat 123")
	want := []string{"CAT", "SAT", "MAT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtract_EmptyTranscript(t *testing.T) {
	e := NewExtractor(DefaultStopwords)

	got := e.Extract("")
	if got == nil {
		t.Fatal("expected empty list, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}

	got = e.Extract("   ")
	if len(got) != 0 {
		t.Fatalf("expected no tokens for whitespace input, got %v", got)
	}
}

func TestExtract_KeepsDuplicatesInOrder(t *testing.T) {
	e := NewExtractor([]string{"the"})

	got := e.Extract("dog chases the dog")
	want := []string{"DOG", "CHASES", "DOG"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtract_DropsNonAlphabeticTokens(t *testing.T) {
	e := NewExtractor(nil)

	got := e.Extract("room 42, meeting at 9am — ok?")
	want := []string{"ROOM", "MEETING", "AT", "OK"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtract_DefaultStopwords(t *testing.T) {
	e := NewExtractor(DefaultStopwords)

	got := e.Extract("I want to drink water now")
	want := []string{"WANT", "DRINK", "WATER"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNewExtractorFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	content := "# comment line\nthe\n on \n\nof\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write stopwords file: %v", err)
	}

	e, err := NewExtractorFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := e.Extract("the cat on top of mat")
	want := []string{"CAT", "TOP", "MAT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNewExtractorFromFile_Missing(t *testing.T) {
	if _, err := NewExtractorFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
