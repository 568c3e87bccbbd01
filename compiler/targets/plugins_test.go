package targets

import (
	"testing"

	"github.com/mwesox/xrpc-sub000/compiler/generator"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

func TestBuiltinPlugins_Order(t *testing.T) {
	t.Parallel()

	plugins := BuiltinPlugins()
	if len(plugins) != 3 {
		t.Fatalf("expected 3 builtin plugins, got %d", len(plugins))
	}
	names := []string{plugins[0].Name(), plugins[1].Name(), plugins[2].Name()}
	if names[0] != "go" || names[1] != "typescript" || names[2] != "shared" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestResolvePlugins_UnknownTarget(t *testing.T) {
	t.Parallel()

	if _, err := ResolvePlugins([]string{"cobol"}); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestResolvePlugins_SharedAlwaysIncluded(t *testing.T) {
	t.Parallel()

	plugins, err := ResolvePlugins([]string{"go"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	found := false
	for _, p := range plugins {
		if p.Name() == "shared" {
			found = true
		}
	}
	if !found {
		t.Fatal("shared plugin must run in every generation")
	}
}

func TestRegisterSteps_ProduceFiles(t *testing.T) {
	t.Parallel()

	input := &ir.TypeReference{
		Kind: ir.KindObject,
		Name: "PingEchoInput",
		Properties: []ir.Property{
			{Name: "message", Type: &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString}, Required: true},
		},
	}
	output := &ir.TypeReference{Kind: ir.KindObject, Name: "PingEchoOutput"}
	contract := &ir.ContractDefinition{
		Types: []ir.TypeDefinition{
			{Name: "PingEchoInput", Ref: input, Source: "ping.echo.input"},
			{Name: "PingEchoOutput", Ref: output, Source: "ping.echo.output"},
		},
		Endpoints: []ir.Endpoint{{
			Name: "echo", Group: "ping", FullName: "ping.echo",
			Kind: ir.EndpointQuery, Input: input, Output: output,
		}},
	}

	registry := generator.NewStepRegistry()
	ctx := BuildContext{Contract: contract, OutputDir: t.TempDir(), Options: map[string]string{}}
	for _, p := range BuiltinPlugins() {
		if err := p.RegisterSteps(registry, ctx); err != nil {
			t.Fatalf("register %s: %v", p.Name(), err)
		}
	}

	out, err := generator.Execute(registry, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(out.Results["go"].Files) != 3 {
		t.Fatalf("go target should emit 3 files, got %d", len(out.Results["go"].Files))
	}
	if got := out.Results["go"].Files[0].Path; got != "go/routes.go" {
		t.Fatalf("go files must be nested under go/, got %q", got)
	}
	if len(out.Results["typescript"].Files) != 2 {
		t.Fatalf("typescript target should emit 2 files, got %d", len(out.Results["typescript"].Files))
	}
	if len(out.Results["shared"].Files) != 2 {
		t.Fatalf("shared target should emit manifest and summary, got %d", len(out.Results["shared"].Files))
	}
}
