package normalizer

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

func compileContract(t *testing.T, src string) cue.Value {
	t.Helper()
	val := cuecontext.New().CompileString(src)
	if err := val.Err(); err != nil {
		t.Fatalf("compile cue: %v", err)
	}
	return val
}

func TestExtractContract_EndpointShape(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: task: create: {
			kind: "mutation"
			input: {
				title: string
			}
			output: {
				id: string
			}
		}
	`)

	n := New()
	contract, err := n.ExtractContract(val)
	if err != nil {
		t.Fatalf("extract contract: %v", err)
	}
	if len(contract.Endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(contract.Endpoints))
	}
	ep := contract.Endpoints[0]
	if ep.FullName != "task.create" {
		t.Fatalf("unexpected full name %q", ep.FullName)
	}
	if ep.Kind != ir.EndpointMutation {
		t.Fatalf("unexpected kind %q", ep.Kind)
	}
	if ep.Input.Name != "TaskCreateInput" || ep.Output.Name != "TaskCreateOutput" {
		t.Fatalf("unexpected synthesized names %q / %q", ep.Input.Name, ep.Output.Name)
	}
	if len(contract.Types) != 2 {
		t.Fatalf("expected 2 synthesized top-level types, got %d", len(contract.Types))
	}
}

func TestExtractContract_MissingContract(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `types: Foo: {a: string}`)
	if _, err := New().ExtractContract(val); err != ErrContractMissing {
		t.Fatalf("expected ErrContractMissing, got %v", err)
	}
}

func TestExtractContract_MissingKindFatal(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: task: list: {
			input: {}
			output: {}
		}
	`)
	if _, err := New().ExtractContract(val); err == nil {
		t.Fatal("expected error for endpoint without kind")
	}
}

func TestExtractContract_NonObjectInputFatal(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: task: get: {
			kind: "query"
			input: string
			output: {id: string}
		}
	`)
	if _, err := New().ExtractContract(val); err == nil {
		t.Fatal("expected error for non-object input")
	}
}

func TestExtractContract_EndpointOrderingDeterministic(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: {
			zeta: ping: {kind: "query", input: {}, output: {}}
			alpha: ping: {kind: "query", input: {}, output: {}}
		}
	`)
	contract, err := New().ExtractContract(val)
	if err != nil {
		t.Fatalf("extract contract: %v", err)
	}
	if len(contract.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(contract.Endpoints))
	}
	if contract.Endpoints[0].FullName != "alpha.ping" || contract.Endpoints[1].FullName != "zeta.ping" {
		t.Fatalf("endpoints not sorted by full name: %q, %q",
			contract.Endpoints[0].FullName, contract.Endpoints[1].FullName)
	}
}

func classifyOne(t *testing.T, src string) *ir.TypeReference {
	t.Helper()
	val := compileContract(t, "x: "+src).LookupPath(cue.ParsePath("x"))
	ref, err := New().classify(val, "x")
	if err != nil {
		t.Fatalf("classify %q: %v", src, err)
	}
	return ref
}

func TestClassify_Primitives(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		base ir.BaseType
	}{
		{"string", ir.BaseString},
		{"int", ir.BaseInteger},
		{"number", ir.BaseNumber},
		{"bool", ir.BaseBoolean},
		{"_", ir.BaseAny},
	}
	for _, tc := range cases {
		ref := classifyOne(t, tc.src)
		if ref.Kind != ir.KindPrimitive {
			t.Fatalf("%s: expected primitive, got %s", tc.src, ref.Kind)
		}
		if ref.Base != tc.base {
			t.Fatalf("%s: expected base %s, got %s", tc.src, tc.base, ref.Base)
		}
	}
}

func TestClassify_NullDisjunctionIsNullable(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "string | null")
	if ref.Kind != ir.KindNullable {
		t.Fatalf("expected nullable, got %s", ref.Kind)
	}
	if ref.Element.Kind != ir.KindPrimitive || ref.Element.Base != ir.BaseString {
		t.Fatalf("unexpected element %+v", ref.Element)
	}
}

func TestClassify_ConcreteScalarDisjunctionIsEnum(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, `"low" | "medium" | "high"`)
	if ref.Kind != ir.KindEnum {
		t.Fatalf("expected enum, got %s", ref.Kind)
	}
	if len(ref.EnumValues) != 3 {
		t.Fatalf("expected 3 values, got %d", len(ref.EnumValues))
	}
	if ref.EnumValues[0] != "low" {
		t.Fatalf("unexpected first value %v", ref.EnumValues[0])
	}
}

func TestClassify_MixedDisjunctionIsUnion(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "string | int")
	if ref.Kind != ir.KindUnion {
		t.Fatalf("expected union, got %s", ref.Kind)
	}
	if len(ref.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(ref.Variants))
	}
}

func TestClassify_OpenListIsArray(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "[...string]")
	if ref.Kind != ir.KindArray {
		t.Fatalf("expected array, got %s", ref.Kind)
	}
	if ref.Element.Base != ir.BaseString {
		t.Fatalf("unexpected element base %s", ref.Element.Base)
	}
}

func TestClassify_ClosedListIsTuple(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "[string, int]")
	if ref.Kind != ir.KindTuple {
		t.Fatalf("expected tuple, got %s", ref.Kind)
	}
	if len(ref.Variants) != 2 {
		t.Fatalf("expected 2 members, got %d", len(ref.Variants))
	}
}

func TestClassify_PatternStructIsRecord(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "{[string]: int}")
	if ref.Kind != ir.KindRecord {
		t.Fatalf("expected record, got %s", ref.Kind)
	}
	if ref.Element.Base != ir.BaseInteger {
		t.Fatalf("unexpected value base %s", ref.Element.Base)
	}
}

func TestClassify_LiteralValue(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, `"fixed"`)
	if ref.Kind != ir.KindLiteral {
		t.Fatalf("expected literal, got %s", ref.Kind)
	}
	if ref.LiteralValue != "fixed" {
		t.Fatalf("unexpected literal value %v", ref.LiteralValue)
	}
}

func TestClassify_OptionalFieldWrapsType(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, "{note?: string}")
	if ref.Kind != ir.KindObject {
		t.Fatalf("expected object, got %s", ref.Kind)
	}
	if len(ref.Properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(ref.Properties))
	}
	prop := ref.Properties[0]
	if prop.Required {
		t.Fatal("optional field must not be required")
	}
	if prop.Type.Kind != ir.KindOptional {
		t.Fatalf("expected optional wrapper, got %s", prop.Type.Kind)
	}
	if prop.Type.Element.Base != ir.BaseString {
		t.Fatalf("unexpected wrapped base %s", prop.Type.Element.Base)
	}
}

func TestClassify_DateFormatAttribute(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, `string @format("date-time")`)
	if ref.Kind != ir.KindDate {
		t.Fatalf("expected date, got %s", ref.Kind)
	}
}

func TestClassify_NullableDateFormatAttribute(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, `string | null @format("date-time")`)
	if ref.Kind != ir.KindNullable {
		t.Fatalf("expected nullable, got %s", ref.Kind)
	}
	if ref.Element.Kind != ir.KindDate {
		t.Fatalf("expected nullable date element, got %s", ref.Element.Kind)
	}
}

func TestClassify_UUIDFormatAttribute(t *testing.T) {
	t.Parallel()

	ref := classifyOne(t, `string @format("uuid")`)
	if ref.Kind != ir.KindPrimitive || ref.Base != ir.BaseUUID {
		t.Fatalf("expected uuid primitive, got %s/%s", ref.Kind, ref.Base)
	}
}
