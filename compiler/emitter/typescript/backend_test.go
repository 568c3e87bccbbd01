package typescript

import (
	"strings"
	"testing"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

func intPtr(n int) *int { return &n }

func sampleContract() *ir.ContractDefinition {
	input := &ir.TypeReference{
		Kind: ir.KindObject,
		Name: "TaskCreateInput",
		Properties: []ir.Property{
			{
				Name:       "title",
				Type:       &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString},
				Required:   true,
				Validation: &ir.ValidationRules{MinLength: intPtr(3)},
			},
			{
				Name: "note",
				Type: &ir.TypeReference{
					Kind:    ir.KindOptional,
					Element: &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString},
				},
				Required: false,
			},
			{
				Name: "dueDate",
				Type: &ir.TypeReference{
					Kind:    ir.KindNullable,
					Element: &ir.TypeReference{Kind: ir.KindDate},
				},
				Required: true,
			},
			{
				Name:     "priority",
				Type:     &ir.TypeReference{Kind: ir.KindEnum, EnumValues: []any{"low", "high"}},
				Required: true,
			},
		},
	}
	output := &ir.TypeReference{
		Kind: ir.KindObject,
		Name: "TaskCreateOutput",
		Properties: []ir.Property{
			{Name: "id", Type: &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseUUID}, Required: true},
		},
	}
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

func generate(t *testing.T) map[string]string {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Fatalf("construct backend: %v", err)
	}
	res := b.Generate(sampleContract(), t.TempDir(), nil)
	if ir.HasErrors(res.Diagnostics) {
		t.Fatalf("unexpected errors: %+v", res.Diagnostics)
	}
	files := make(map[string]string)
	for _, f := range res.Files {
		files[f.Path] = f.Content
	}
	return files
}

func TestGenerate_Interfaces(t *testing.T) {
	t.Parallel()

	types := generate(t)["types.ts"]
	if !strings.Contains(types, "export interface TaskCreateInput {") {
		t.Fatalf("missing interface:\n%s", types)
	}
	if !strings.Contains(types, "title: string;") {
		t.Fatalf("missing required field:\n%s", types)
	}
	if !strings.Contains(types, "note?: string;") {
		t.Fatalf("optional field must use ?:\n%s", types)
	}
	if !strings.Contains(types, "dueDate: string | null;") {
		t.Fatalf("nullable date must union with null:\n%s", types)
	}
	if !strings.Contains(types, "export type TaskCreateInputPriority = \"low\" | \"high\";") {
		t.Fatalf("enum must be a literal union alias:\n%s", types)
	}
}

func TestGenerate_Client(t *testing.T) {
	t.Parallel()

	client := generate(t)["client.ts"]
	if !strings.Contains(client, "export class Client {") {
		t.Fatalf("missing client class:\n%s", client)
	}
	if !strings.Contains(client, "create: (input: TaskCreateInput): Promise<TaskCreateOutput> => this.call(\"task.create\", input),") {
		t.Fatalf("missing endpoint method:\n%s", client)
	}
	if !strings.Contains(client, "import type { TaskCreateInput, TaskCreateOutput } from \"./types\";") {
		t.Fatalf("missing type imports:\n%s", client)
	}
}
