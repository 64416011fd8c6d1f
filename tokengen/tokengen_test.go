package main

import (
	"testing"
)

func TestDigestDeterministic(t *testing.T) {
	a := digest("horns&hoofs" + "h&f" + "Otus")
	b := digest("horns&hoofs" + "h&f" + "Otus")

	if a != b {
		t.Error("Expected identical input to produce identical tokens")
	}
	if len(a) != 128 {
		t.Errorf("Expected a 128 character hex token, got %d", len(a))
	}
}

func TestDigestDistinctInputs(t *testing.T) {
	a := digest("horns&hoofs" + "h&f" + "Otus")
	b := digest("horns&hoofs" + "h&f" + "OtherSalt")

	if a == b {
		t.Error("Expected different salts to produce different tokens")
	}
}
