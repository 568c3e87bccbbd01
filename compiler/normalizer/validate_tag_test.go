package normalizer

import (
	"testing"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

func TestParseValidateTag_KeyValueRules(t *testing.T) {
	t.Parallel()

	rules, err := parseValidateTag("minLength=3, maxLength=80, regex=^[a-z]+$")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rules.MinLength == nil || *rules.MinLength != 3 {
		t.Fatalf("unexpected minLength %v", rules.MinLength)
	}
	if rules.MaxLength == nil || *rules.MaxLength != 80 {
		t.Fatalf("unexpected maxLength %v", rules.MaxLength)
	}
	if rules.Regex != "^[a-z]+$" {
		t.Fatalf("unexpected regex %q", rules.Regex)
	}
}

func TestParseValidateTag_BareTokens(t *testing.T) {
	t.Parallel()

	rules, err := parseValidateTag("email")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !rules.Email {
		t.Fatal("expected email rule")
	}

	rules, err = parseValidateTag("int, positive")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !rules.Int || !rules.Positive {
		t.Fatalf("unexpected rules %+v", rules)
	}
}

func TestParseValidateTag_RequiredTokenIsNoop(t *testing.T) {
	t.Parallel()

	rules, err := parseValidateTag("required, minLength=1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rules.MinLength == nil || *rules.MinLength != 1 {
		t.Fatalf("unexpected rules %+v", rules)
	}
}

func TestParseValidateTag_UnknownRuleFails(t *testing.T) {
	t.Parallel()

	if _, err := parseValidateTag("minLenght=3"); err == nil {
		t.Fatal("expected error for misspelled rule")
	}
	if _, err := parseValidateTag("sparkles"); err == nil {
		t.Fatal("expected error for unknown bare token")
	}
	if _, err := parseValidateTag("minLength=abc"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestCheckRulePartition_Misplacement(t *testing.T) {
	t.Parallel()

	n := 3
	numberField := &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseNumber}
	if err := checkRulePartition(&ir.ValidationRules{MinLength: &n}, numberField, "x"); err == nil {
		t.Fatal("expected partition error for minLength on number")
	}

	stringField := &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString}
	if err := checkRulePartition(&ir.ValidationRules{Positive: true}, stringField, "x"); err == nil {
		t.Fatal("expected partition error for positive on string")
	}

	boolField := &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseBoolean}
	if err := checkRulePartition(&ir.ValidationRules{Min: floatPtr(1)}, boolField, "x"); err == nil {
		t.Fatal("expected error for rules on a boolean field")
	}
}

func TestCheckRulePartition_UnwrapsWrappers(t *testing.T) {
	t.Parallel()

	wrapped := &ir.TypeReference{
		Kind: ir.KindOptional,
		Element: &ir.TypeReference{
			Kind:    ir.KindNullable,
			Element: &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString},
		},
	}
	n := 2
	if err := checkRulePartition(&ir.ValidationRules{MinLength: &n}, wrapped, "x"); err != nil {
		t.Fatalf("expected wrapped string to accept string rules: %v", err)
	}
}

func TestExtractContract_ValidationViaAttribute(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: task: create: {
			kind: "mutation"
			input: {
				title: string @validate("minLength=3, maxLength=80")
				tags: [...string] @validate("maxItems=10")
			}
			output: {id: string}
		}
	`)
	contract, err := New().ExtractContract(val)
	if err != nil {
		t.Fatalf("extract contract: %v", err)
	}
	in := contract.Endpoints[0].Input
	if in.Properties[0].Validation == nil || *in.Properties[0].Validation.MinLength != 3 {
		t.Fatalf("title rules not extracted: %+v", in.Properties[0].Validation)
	}
	if in.Properties[1].Validation == nil || *in.Properties[1].Validation.MaxItems != 10 {
		t.Fatalf("tags rules not extracted: %+v", in.Properties[1].Validation)
	}
}

func TestExtractContract_MisplacedRuleFatal(t *testing.T) {
	t.Parallel()

	val := compileContract(t, `
		contract: task: create: {
			kind: "mutation"
			input: {
				count: int @validate("minLength=3")
			}
			output: {}
		}
	`)
	if _, err := New().ExtractContract(val); err == nil {
		t.Fatal("expected fatal error for string rule on int field")
	}
}

func floatPtr(f float64) *float64 { return &f }
