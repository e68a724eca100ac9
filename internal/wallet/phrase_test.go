package wallet

import "testing"

func TestNewPhrase(t *testing.T) {
	pool := make(map[string]bool, len(wordPool))
	for _, w := range wordPool {
		pool[w] = true
	}

	phrase, err := NewPhrase()
	if err != nil {
		t.Fatalf("NewPhrase failed: %v", err)
	}
	if len(phrase) != PhraseLength {
		t.Fatalf("Expected %d words, got %d", PhraseLength, len(phrase))
	}
	for i, w := range phrase {
		if !pool[w] {
			t.Errorf("Word %d (%q) not in the pool", i, w)
		}
	}
}

func TestNewPhrase_Varies(t *testing.T) {
	first, err := NewPhrase()
	if err != nil {
		t.Fatalf("NewPhrase failed: %v", err)
	}

	// With 64^12 possible phrases, ten draws repeating the first one
	// means the randomness source is broken.
	for i := 0; i < 10; i++ {
		next, err := NewPhrase()
		if err != nil {
			t.Fatalf("NewPhrase failed: %v", err)
		}
		if !equal(first, next) {
			return
		}
	}
	t.Error("Ten consecutive phrases were identical")
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
