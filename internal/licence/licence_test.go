package licence

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		op   Operation
		want [3]bool // candidate below, equal to, above the reference
	}{
		{Equal, [3]bool{false, true, false}},
		{NotEqual, [3]bool{true, false, true}},
		{Greater, [3]bool{false, false, true}},
		{GreaterOrEqual, [3]bool{false, true, true}},
		{Less, [3]bool{true, false, false}},
		{LessOrEqual, [3]bool{true, true, false}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			for i, candidate := range []int{1, 2, 3} {
				got, err := Compare(candidate, tt.op, 2)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want[i] {
					t.Errorf("Compare(%d, %s, 2) = %v, want %v", candidate, tt.op, got, tt.want[i])
				}
			}
		})
	}
}

func TestCompareUnsupported(t *testing.T) {
	for _, token := range []string{"gt", "", "EQ", "lt", "=="} {
		if _, err := Compare(1, Operation(token), 1); !errors.Is(err, ErrUnsupportedOperation) {
			t.Errorf("Compare with %q: expected ErrUnsupportedOperation, got %v", token, err)
		}
		if _, err := ParseOperation(token); !errors.Is(err, ErrUnsupportedOperation) {
			t.Errorf("ParseOperation(%q): expected ErrUnsupportedOperation, got %v", token, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"0", 0},
		{"3", 3},
		{" 7 ", MaxLevel},
		{"I", 1},
		{"ii", 2},
		{"III", 3},
		{"IV", 4},
		{"V", 5},
		{"VI", 6},
		{"VI+", MaxLevel},
		{"vi+", MaxLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Fatalf("ParseLevel(%q): unexpected error %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"", "-1", "8", "abc", "VII", "VII+", "IX", "X", "XX", "IIII", "1.5"} {
		if _, err := ParseLevel(bad); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseLevel(%q): expected ErrInvalidLevel, got %v", bad, err)
		}
	}
}

func TestIsKnown(t *testing.T) {
	if !IsKnown("psionica (p)") {
		t.Fatalf("expected case-insensitive match")
	}
	if IsKnown("Psionica") {
		t.Fatalf("expected partial name to be unknown")
	}
	if len(Names) != 8 {
		t.Fatalf("expected eight licences, got %d", len(Names))
	}
}
