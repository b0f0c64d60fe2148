package model

import "testing"

func TestComparisonZeroValueIsUnknown(t *testing.T) {
	var c Comparison
	if c == Correct || c == TooLow || c == TooHigh {
		t.Fatalf("zero comparison matches a verdict: %d", c)
	}
	if c.String() != "unknown" {
		t.Fatalf("expected unknown, got %q", c.String())
	}
	if Correct.String() != "correct" || TooLow.String() != "too low" || TooHigh.String() != "too high" {
		t.Fatalf("unexpected labels: %s, %s, %s", Correct, TooLow, TooHigh)
	}
}
