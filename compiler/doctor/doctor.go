// Package doctor analyzes build logs for stable pipeline codes and turns
// them into actionable advice. It keeps a small iteration state on disk so
// repeated runs can report which problems were actually fixed between
// attempts.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/mwesox/xrpc-sub000/compiler"
)

// Advice pairs one detected code with a concrete next step.
type Advice struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Fix      string `json:"fix"`
}

// State persists across doctor runs in one contract workspace.
type State struct {
	Iteration int      `json:"iteration"`
	OpenCodes []string `json:"open_codes"`
}

// Report is the result of one Analyze call.
type Report struct {
	Status           string   `json:"status"`
	Iteration        int      `json:"iteration"`
	ErrorsFixed      int      `json:"errors_fixed"`
	ErrorsRemaining  int      `json:"errors_remaining"`
	DetectedErrors   []string `json:"detected_errors"`
	DetectedWarnings []string `json:"detected_warnings"`
	Advice           []Advice `json:"advice"`
	KnownCodesTotal  int      `json:"known_codes_total"`
}

// WarningCodes lists every degradation code a backend can attach to a
// successful run. Unlike StableErrorCodes these never abort generation.
var WarningCodes = []string{
	"CAP_TYPE_FALLBACK",
	"CAP_VALIDATION_UNSUPPORTED",
	"GO_ANONYMOUS_ENUM",
	"GO_ANONYMOUS_OBJECT",
	"GO_NULL_ABSENT_CONFLATED",
	"GO_REQUIRED_NULLABLE_PRESENT_ONLY",
	"GO_TUPLE_OPAQUE",
	"GO_UNION_OPAQUE",
	"TS_ANONYMOUS_OBJECT",
	"VALIDATION_NOT_GENERATED",
}

// CAP_TYPE_UNSUPPORTED is the one capability code that gates generation.
const capTypeUnsupported = "CAP_TYPE_UNSUPPORTED"

type Analyzer struct {
	statePath string
}

// NewAnalyzer roots the doctor state under <workspace>/.xrpcgen/.
func NewAnalyzer(workspace string) *Analyzer {
	root := strings.TrimSpace(workspace)
	if root == "" {
		root = "."
	}
	return &Analyzer{
		statePath: filepath.Join(root, ".xrpcgen", "doctor_state.json"),
	}
}

var codeToken = regexp.MustCompile(`\b[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+\b`)

// DetectCodes scans a log for known pipeline codes, split by severity.
// Unknown uppercase tokens are ignored; the doctor never guesses.
func DetectCodes(log string) (errs, warns []string) {
	errSet := toSet(errorCodes())
	warnSet := toSet(WarningCodes)

	seen := map[string]bool{}
	for _, tok := range codeToken.FindAllString(log, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if _, ok := errSet[tok]; ok {
			errs = append(errs, tok)
		} else if _, ok := warnSet[tok]; ok {
			warns = append(warns, tok)
		}
	}
	sort.Strings(errs)
	sort.Strings(warns)
	return errs, warns
}

// Analyze detects codes in the log, advances the iteration state, and
// returns a report with per-code advice.
func (a *Analyzer) Analyze(log string) Report {
	errs, warns := DetectCodes(log)

	prev := a.loadState()
	next := computeIteration(prev, errs)
	fixed := countFixed(prev.OpenCodes, errs)
	a.saveState(next)

	advice := make([]Advice, 0, len(errs)+len(warns))
	for _, code := range errs {
		advice = append(advice, Advice{Code: code, Severity: "error", Fix: fixFor(code)})
	}
	for _, code := range warns {
		advice = append(advice, Advice{Code: code, Severity: "warning", Fix: fixFor(code)})
	}

	return Report{
		Status:           "analyzed",
		Iteration:        next.Iteration,
		ErrorsFixed:      fixed,
		ErrorsRemaining:  len(errs),
		DetectedErrors:   errs,
		DetectedWarnings: warns,
		Advice:           advice,
		KnownCodesTotal:  len(errorCodes()) + len(WarningCodes),
	}
}

func errorCodes() []string {
	out := append([]string(nil), compiler.StableErrorCodes...)
	out = append(out, capTypeUnsupported)
	return out
}

func fixFor(code string) string {
	switch code {
	case compiler.ErrCodeCUEContractLoad:
		return "Run `cue vet` on the contract directory and fix the reported syntax or conflict."
	case compiler.ErrCodeCUEContractMissing:
		return "Declare endpoint groups under a top-level `contract:` struct."
	case compiler.ErrCodeCUEEndpointExtract:
		return "Give every endpoint a kind (query|mutation) and object input/output schemas."
	case compiler.ErrCodeCUETypeExtract:
		return "Simplify the failing top-level type; the location in the log names the path."
	case compiler.ErrCodeCUEValidateTagParse:
		return "Fix the @validate() attribute named in the log; run `xrpcgen explain CUE_VALIDATE_TAG_PARSE_ERROR` for the rule grammar."
	case compiler.ErrCodeCUERulePartition:
		return "Move the validation rule to a field of the matching base type, e.g. minLength belongs on strings."
	case compiler.ErrCodeCollectNaming:
		return "Rename the colliding declared type so collector suffixes have room."
	case compiler.ErrCodeCapabilityResolve:
		return "Use a known target name; run `xrpcgen generate` with no -targets to see the builtins."
	case capTypeUnsupported:
		return "Remove the unsupported type shape from the contract or pick a target that declares it."
	case compiler.ErrCodeEmitterIncomplete, compiler.ErrCodeEmitterStep, compiler.ErrCodeEmitterFormat:
		return "This is a generator-side failure; re-run with -json and report the event log with the contract."
	case "GO_NULL_ABSENT_CONFLATED", "GO_REQUIRED_NULLABLE_PRESENT_ONLY":
		return "Go pointers conflate null and absent; split the field into two if your protocol distinguishes them."
	case "VALIDATION_NOT_GENERATED", "CAP_VALIDATION_UNSUPPORTED":
		return "The named rule is skipped for this target; enforce it server-side or drop the rule."
	default:
		return "Generation proceeded degraded; run `xrpcgen validate` for the full diagnostic list."
	}
}

func (a *Analyzer) loadState() State {
	data, err := os.ReadFile(a.statePath)
	if err != nil {
		return State{}
	}
	var st State
	if err := gojson.Unmarshal(data, &st); err != nil {
		return State{}
	}
	if st.Iteration < 0 {
		st.Iteration = 0
	}
	sort.Strings(st.OpenCodes)
	return st
}

func (a *Analyzer) saveState(st State) {
	b, err := gojson.MarshalIndent(st, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(a.statePath), 0o755)
	_ = os.WriteFile(a.statePath, b, 0o644)
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, c := range in {
		out[c] = struct{}{}
	}
	return out
}

func countFixed(prev, current []string) int {
	cur := toSet(current)
	n := 0
	for _, p := range prev {
		if _, ok := cur[p]; !ok {
			n++
		}
	}
	return n
}

func computeIteration(prev State, current []string) State {
	prevSig := strings.Join(prev.OpenCodes, ",")
	curSig := strings.Join(current, ",")

	next := prev
	if prev.Iteration == 0 && len(current) > 0 {
		next.Iteration = 1
	} else if curSig != prevSig {
		next.Iteration++
	}
	next.OpenCodes = current
	return next
}

// Format renders a report for terminal output.
func Format(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Doctor iteration %d: %d open error(s), %d fixed since last run\n",
		r.Iteration, r.ErrorsRemaining, r.ErrorsFixed)
	for _, a := range r.Advice {
		icon := "⚠️"
		if a.Severity == "error" {
			icon = "❌"
		}
		fmt.Fprintf(&b, "%s [%s]\n   💡 %s\n", icon, a.Code, a.Fix)
	}
	if len(r.Advice) == 0 {
		b.WriteString("✅ No known pipeline codes found in the log.\n")
	}
	return b.String()
}
