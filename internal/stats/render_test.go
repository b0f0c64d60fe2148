package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiguess/internal/model"
)

func TestRenderGuesses(t *testing.T) {
	outcomes := []model.SessionOutcome{
		{PlayerName: "bob", Difficulty: "Easy", Attempts: 1},
		{PlayerName: "ada", Difficulty: "Medium", Won: true, Attempts: 2, Guesses: []model.GuessResult{
			{Attempt: 1, Value: 10, Comparison: model.TooLow},
			{Attempt: 2, Value: 42, Comparison: model.Correct},
		}},
	}
	var buf bytes.Buffer
	if err := RenderGuesses(&buf, outcomes); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ada, Medium, won in 2", "  1. 10 too low", "  2. 42 correct"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "bob") {
		t.Fatalf("outcome without a log should be skipped:\n%s", out)
	}

	buf.Reset()
	if err := RenderGuesses(&buf, outcomes[:1]); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No guess logs archived.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}
