package office

import "testing"

func TestNormalize(t *testing.T) {
	n := NewNormalizer("")

	tests := []struct {
		in   string
		want ID
	}{
		{"b1", "B-1"},
		{"B-1", "B-1"},
		{" b-1 ", "B-1"},
		{"b-A", "B-1"},
		{"b-B", "B-2"},
		{"c2", "C-2"},
		{"C-12", "C-12"},
		{"a3", "A-c"},
		{"a1", "A-a"},
		{"a9", "A-i"},
		{"A-c", "A-c"},
		{"A-C", "A-c"},
		{"VIRTUAL", "VIRTUAL"},
		{"virtual", "VIRTUAL"},

		// Fallback cases
		{"", DefaultID},
		{"   ", DefaultID},
		{"z9", DefaultID},
		{"D-1", DefaultID},
		{"b", DefaultID},
		{"B-0", DefaultID},
		{"A-10", DefaultID},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer("")
	inputs := []string{
		"b1", "B-1", "a3", "A-c", "c-Z", "C-99", "", "junk", "b-A", "VIRTUAL", "  a-1 ",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(string(once))
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeTotalForASCII(t *testing.T) {
	n := NewNormalizer("")
	// Single-byte ASCII inputs must always produce a well-formed id.
	for b := byte(0); b < 128; b++ {
		got := n.Normalize(string([]byte{b}))
		if got == "" {
			t.Fatalf("Normalize(%q) returned empty id", string([]byte{b}))
		}
	}
}

func TestNormalizeConfigurableFallback(t *testing.T) {
	n := NewNormalizer("A-a")
	if got := n.Normalize(""); got != "A-a" {
		t.Errorf("expected configured fallback A-a, got %q", got)
	}
	if got := n.Normalize("b2"); got != "B-2" {
		t.Errorf("fallback must not affect valid input, got %q", got)
	}
}

func TestIDFloor(t *testing.T) {
	if got := ID("B-12").Floor(); got != "B" {
		t.Errorf("Floor() = %q, want B", got)
	}
	if got := Virtual.Floor(); got != "" {
		t.Errorf("expected empty floor for virtual office, got %q", got)
	}
}
