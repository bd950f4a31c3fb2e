package source

import (
	"os"
	"path/filepath"
	"testing"
)

const textDeck = `1. What is the capital of France?
a) Paris
b) Berlin
c) London
d) Madrid
Answer: a) Paris

2. Which planet is red?
a) Venus
b) Mars
c) Jupiter
d) Saturn
b
`

const yamlDeck = `questions:
  - question: What is the capital of France?
    options: [a) Paris, b) Berlin, c) London, d) Madrid]
    answer: a) Paris
  - number: 7
    question: Which planet is red?
    options: [Venus, Mars, Jupiter, Saturn]
    answer: b
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	tests := []struct {
		file    string
		content string
		numbers []int
	}{
		{"deck.txt", textDeck, []int{1, 2}},
		{"deck.yaml", yamlDeck, []int{1, 7}},
		{"deck.YML", yamlDeck, []int{1, 7}},
	}
	for _, tt := range tests {
		src, err := Open(write(t, tt.file, tt.content))
		if err != nil {
			t.Fatalf("%s: Open failed: %v", tt.file, err)
		}
		if src.Name() != "deck" {
			t.Errorf("%s: Name = %q", tt.file, src.Name())
		}
		qs := src.Questions()
		if len(qs) != len(tt.numbers) {
			t.Fatalf("%s: got %d questions, want %d", tt.file, len(qs), len(tt.numbers))
		}
		for i, q := range qs {
			if q.Number != tt.numbers[i] {
				t.Errorf("%s: question %d has number %d, want %d", tt.file, i, q.Number, tt.numbers[i])
			}
		}
		if i, ok := qs[1].AnswerIndex(); !ok || i != 1 {
			t.Errorf("%s: second answer resolved to %d,%v", tt.file, i, ok)
		}
		if qs[0].Options[3] != "d) Madrid" {
			t.Errorf("%s: option D = %q", tt.file, qs[0].Options[3])
		}
		if err := src.Close(); err != nil {
			t.Errorf("%s: Close: %v", tt.file, err)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(write(t, "deck.docx", "x")); err == nil {
		t.Error("expected an error for an unknown extension")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Open(write(t, "bad.yaml", "questions: [:")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
	if _, err := Open(write(t, "bad.pdf", "not a pdf")); err == nil {
		t.Error("expected an error for a broken PDF")
	}
}
