package collector

import (
	"reflect"
	"testing"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

func strType() *ir.TypeReference {
	return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString}
}

func taskContract() *ir.ContractDefinition {
	input := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "title", Type: strType(), Required: true},
			{Name: "assignee", Type: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "id", Type: strType(), Required: true},
				},
			}, Required: true},
			{Name: "labels", Type: &ir.TypeReference{
				Kind: ir.KindArray,
				Element: &ir.TypeReference{
					Kind: ir.KindObject,
					Properties: []ir.Property{
						{Name: "name", Type: strType(), Required: true},
					},
				},
			}, Required: true},
		},
	}
	output := &ir.TypeReference{Kind: ir.KindObject}
	return &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "TaskCreateInput", Ref: input, Source: "task.create.input"},
			{Name: "TaskCreateOutput", Ref: output, Source: "task.create.output"},
		},
		Endpoints: []ir.Endpoint{{
			Name: "create", Group: "task", FullName: "task.create",
			Kind: ir.EndpointMutation, Input: input, Output: output,
		}},
	}
}

func TestCollect_PathBasedSuggestions(t *testing.T) {
	t.Parallel()

	contract := taskContract()
	collected := New().Collect(contract)

	got := make(map[string]string)
	for _, ct := range collected {
		got[ct.Source] = ct.Name
	}
	if got["types.TaskCreateInput.assignee"] != "TaskCreateInputAssignee" {
		t.Fatalf("unexpected nested object name %q", got["types.TaskCreateInput.assignee"])
	}
	if got["types.TaskCreateInput.labels[]"] != "TaskCreateInputLabelsItem" {
		t.Fatalf("unexpected array element name %q", got["types.TaskCreateInput.labels[]"])
	}
}

func TestCollect_Deterministic(t *testing.T) {
	t.Parallel()

	first := New().Collect(taskContract())
	second := New().Collect(taskContract())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs over identical contracts diverged:\n%+v\n%+v", first, second)
	}
}

func TestCollect_CollisionSuffix(t *testing.T) {
	t.Parallel()

	// A declared top-level type already owns the name the nested object
	// would receive; the collector must step to the numeric suffix.
	nested := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	input := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "meta", Type: nested, Required: true},
		},
	}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "TaskCreateInputMeta", Ref: &ir.TypeReference{Kind: ir.KindObject}, Source: "types.TaskCreateInputMeta"},
			{Name: "TaskCreateInput", Ref: input, Source: "task.create.input"},
		},
	}

	New().Collect(contract)
	if nested.Name != "TaskCreateInputMeta1" {
		t.Fatalf("expected suffixed name, got %q", nested.Name)
	}
}

func TestCollect_CaseInsensitiveCollision(t *testing.T) {
	t.Parallel()

	nested := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "PAYLOADMETA", Ref: &ir.TypeReference{Kind: ir.KindObject}, Source: "types.PAYLOADMETA"},
			{Name: "Payload", Ref: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "meta", Type: nested, Required: true},
				},
			}, Source: "types.Payload"},
		},
	}

	New().Collect(contract)
	// "PayloadMeta" collides with "PAYLOADMETA" under case folding.
	if nested.Name != "PayloadMeta1" {
		t.Fatalf("expected case-folded collision suffix, got %q", nested.Name)
	}
}

func TestCollect_WrappersTransparent(t *testing.T) {
	t.Parallel()

	inner := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "Wrapper", Ref: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "inner", Type: &ir.TypeReference{
						Kind: ir.KindOptional,
						Element: &ir.TypeReference{
							Kind:    ir.KindNullable,
							Element: inner,
						},
					}, Required: false},
				},
			}, Source: "types.Wrapper"},
		},
	}

	New().Collect(contract)
	if inner.Name != "WrapperInner" {
		t.Fatalf("wrappers must not alter the suggestion, got %q", inner.Name)
	}
}

func TestCollect_RecordValueSuffix(t *testing.T) {
	t.Parallel()

	value := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "Index", Ref: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "entries", Type: &ir.TypeReference{
						Kind:    ir.KindRecord,
						Element: value,
					}, Required: true},
				},
			}, Source: "types.Index"},
		},
	}

	New().Collect(contract)
	if value.Name != "IndexEntriesValue" {
		t.Fatalf("unexpected record value name %q", value.Name)
	}
}

func TestCollect_UnionVariantsAndEnums(t *testing.T) {
	t.Parallel()

	variantObj := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	union := &ir.TypeReference{
		Kind:     ir.KindUnion,
		Variants: []*ir.TypeReference{strType(), variantObj},
	}
	enum := &ir.TypeReference{Kind: ir.KindEnum, EnumValues: []any{"a", "b"}}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "Holder", Ref: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "value", Type: union, Required: true},
					{Name: "state", Type: enum, Required: true},
				},
			}, Source: "types.Holder"},
		},
	}

	New().Collect(contract)
	if union.Name != "HolderValue" {
		t.Fatalf("unexpected union name %q", union.Name)
	}
	if variantObj.Name != "HolderValueV1" {
		t.Fatalf("unexpected variant name %q", variantObj.Name)
	}
	if enum.Name != "HolderState" {
		t.Fatalf("unexpected enum name %q", enum.Name)
	}
}

func TestCollect_SharedReferenceNamedOnce(t *testing.T) {
	t.Parallel()

	shared := &ir.TypeReference{
		Kind: ir.KindObject,
		Properties: []ir.Property{
			{Name: "x", Type: strType(), Required: true},
		},
	}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "A", Ref: &ir.TypeReference{
				Kind: ir.KindObject,
				Properties: []ir.Property{
					{Name: "first", Type: shared, Required: true},
					{Name: "second", Type: shared, Required: true},
				},
			}, Source: "types.A"},
		},
	}

	collected := New().Collect(contract)
	if len(collected) != 1 {
		t.Fatalf("shared reference must be collected once, got %d entries", len(collected))
	}
	if shared.Name != "AFirst" {
		t.Fatalf("unexpected name %q", shared.Name)
	}
}
