package doctor

import (
	"strings"
	"testing"
)

func TestDetectCodes_SplitsBySeverity(t *testing.T) {
	t.Parallel()

	log := `
❌ [CUE_VALIDATE_TAG_PARSE_ERROR] minLenght is not a rule
⚠️ [GO_NULL_ABSENT_CONFLATED] dueDate
some unrelated SHOUTING_TOKEN and text
CUE_VALIDATE_TAG_PARSE_ERROR repeated
`
	errs, warns := DetectCodes(log)
	if len(errs) != 1 || errs[0] != "CUE_VALIDATE_TAG_PARSE_ERROR" {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(warns) != 1 || warns[0] != "GO_NULL_ABSENT_CONFLATED" {
		t.Fatalf("unexpected warnings: %v", warns)
	}
}

func TestDetectCodes_IgnoresUnknownTokens(t *testing.T) {
	t.Parallel()

	errs, warns := DetectCodes("TOTALLY_MADE_UP_ERROR and HTTP_404")
	if len(errs) != 0 || len(warns) != 0 {
		t.Fatalf("expected nothing, got %v / %v", errs, warns)
	}
}

func TestAnalyze_IterationAdvancesOnChange(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(t.TempDir())

	first := a.Analyze("CUE_CONTRACT_MISSING_ERROR")
	if first.Iteration != 1 || first.ErrorsRemaining != 1 {
		t.Fatalf("unexpected first report: %+v", first)
	}

	// Same code set: iteration holds.
	second := a.Analyze("CUE_CONTRACT_MISSING_ERROR again")
	if second.Iteration != 1 {
		t.Fatalf("iteration advanced on identical code set: %+v", second)
	}

	// Code fixed: iteration advances and the fix is counted.
	third := a.Analyze("clean build")
	if third.Iteration != 2 {
		t.Fatalf("iteration did not advance: %+v", third)
	}
	if third.ErrorsFixed != 1 || third.ErrorsRemaining != 0 {
		t.Fatalf("fix not counted: %+v", third)
	}
}

func TestAnalyze_AdviceCoversEveryDetectedCode(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(t.TempDir())
	rep := a.Analyze("CAP_TYPE_UNSUPPORTED then TS_ANONYMOUS_OBJECT")

	if len(rep.Advice) != 2 {
		t.Fatalf("expected 2 advice entries, got %+v", rep.Advice)
	}
	for _, adv := range rep.Advice {
		if adv.Fix == "" {
			t.Fatalf("empty fix for %s", adv.Code)
		}
	}
	if rep.Advice[0].Severity != "error" || rep.Advice[1].Severity != "warning" {
		t.Fatalf("unexpected severities: %+v", rep.Advice)
	}
}

func TestFormat_CleanLog(t *testing.T) {
	t.Parallel()

	rep := NewAnalyzer(t.TempDir()).Analyze("all good")
	out := Format(rep)
	if !strings.Contains(out, "✅") {
		t.Fatalf("expected clean marker, got %q", out)
	}
}
