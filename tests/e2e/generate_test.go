package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/generator"
	"github.com/mwesox/xrpc-sub000/compiler/targets"
)

const taskContractCUE = `
contract: task: create: {
	kind: "mutation"
	input: {
		title: string @validate("minLength=3,maxLength=80")
		note?: string @validate("maxLength=500")
		dueDate: string | null @format("date-time")
		priority: "low" | "medium" | "high"
		tags: [...string] @validate("maxItems=10")
	}
	output: {
		id: string @format("uuid")
		createdAt: string @format("date-time")
	}
}

contract: task: list: {
	kind: "query"
	input: {
		limit?: int @validate("min=1,max=100")
	}
	output: {
		items: [...{id: string, title: string}]
	}
}
`

func writeContract(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "contract.cue"), []byte(src), 0o644)
	require.NoError(t, err)
	return dir
}

func generateAll(t *testing.T, src string) map[string]emitter.Result {
	t.Helper()

	contract, _, err := compiler.RunPipeline(writeContract(t, src))
	require.NoError(t, err)

	plugins, err := targets.ResolvePlugins(nil)
	require.NoError(t, err)

	registry := generator.NewStepRegistry()
	ctx := targets.BuildContext{Contract: contract, Options: map[string]string{"package": "api"}}
	for _, p := range plugins {
		require.NoError(t, p.RegisterSteps(registry, ctx))
	}

	out, err := generator.Execute(registry, nil)
	require.NoError(t, err)
	return out.Results
}

func fileContent(t *testing.T, res emitter.Result, path string) string {
	t.Helper()
	for _, f := range res.Files {
		if f.Path == path {
			return f.Content
		}
	}
	t.Fatalf("file %s not generated; got %v", path, paths(res))
	return ""
}

func paths(res emitter.Result) []string {
	var out []string
	for _, f := range res.Files {
		out = append(out, f.Path)
	}
	return out
}

func TestGenerate_FullRun(t *testing.T) {
	t.Parallel()

	results := generateAll(t, taskContractCUE)

	goRes := results["go"]
	require.Empty(t, errorCodes(goRes), "go target must succeed")
	assert.Equal(t, []string{"go/routes.go", "go/types.go", "go/validate.go"}, paths(goRes))

	tsRes := results["typescript"]
	require.Empty(t, errorCodes(tsRes))
	assert.Equal(t, []string{"typescript/client.ts", "typescript/types.ts"}, paths(tsRes))

	sharedRes := results["shared"]
	require.Empty(t, errorCodes(sharedRes))
	assert.Equal(t, []string{"contract.manifest.json", "contract.summary.yaml"}, paths(sharedRes))
}

func TestGenerate_GoValidationSemantics(t *testing.T) {
	t.Parallel()

	results := generateAll(t, taskContractCUE)
	validate := fileContent(t, results["go"], "go/validate.go")

	// A missing required string reports exactly the required error and
	// never cascades into length rules.
	requiredIdx := strings.Index(validate, `"title is required"`)
	minLenIdx := strings.Index(validate, "utf8.RuneCountInString(val) < 3")
	require.GreaterOrEqual(t, requiredIdx, 0, "required check missing:\n%s", validate)
	require.GreaterOrEqual(t, minLenIdx, 0, "minLength check missing:\n%s", validate)
	assert.Less(t, requiredIdx, minLenIdx, "required must short-circuit ahead of minLength")

	// Optional fields validate only when present.
	assert.Contains(t, validate, "if v.Note != nil {")
	assert.Contains(t, validate, "utf8.RuneCountInString(val) > 500")

	// Array cardinality.
	assert.Contains(t, validate, "len(val) > 10")

	types := fileContent(t, results["go"], "go/types.go")
	assert.Contains(t, types, "type TaskCreateInput struct {")
	assert.Contains(t, types, "type TaskCreateInputPriority string")
	assert.Contains(t, types, "func (e TaskCreateInputPriority) IsValid() bool")
	assert.Contains(t, types, "Note *string")
	assert.Contains(t, types, "DueDate *time.Time")

	routes := fileContent(t, results["go"], "go/routes.go")
	assert.Contains(t, routes, `mux.HandleFunc("POST /rpc/task.create"`)
	assert.Contains(t, routes, "Create(ctx context.Context, in *TaskCreateInput) (*TaskCreateOutput, error)")
}

func TestGenerate_TypeScriptClient(t *testing.T) {
	t.Parallel()

	results := generateAll(t, taskContractCUE)

	types := fileContent(t, results["typescript"], "typescript/types.ts")
	assert.Contains(t, types, "export interface TaskCreateInput {")
	assert.Contains(t, types, "note?: string;")
	assert.Contains(t, types, "dueDate: string | null;")
	assert.Contains(t, types, `export type TaskCreateInputPriority = "low" | "medium" | "high";`)

	client := fileContent(t, results["typescript"], "typescript/client.ts")
	assert.Contains(t, client, "export class Client {")
	assert.Contains(t, client, `this.call("task.create", input)`)
	assert.Contains(t, client, `this.call("task.list", input)`)
}

func TestGenerate_ManifestListsEveryEndpoint(t *testing.T) {
	t.Parallel()

	results := generateAll(t, taskContractCUE)
	raw := fileContent(t, results["shared"], "contract.manifest.json")

	var manifest emitter.ContractManifest
	require.NoError(t, gojson.Unmarshal([]byte(raw), &manifest))

	methods := make([]string, 0, len(manifest.Endpoints))
	for _, ep := range manifest.Endpoints {
		methods = append(methods, ep.Method)
	}
	assert.Equal(t, []string{"task.create", "task.list"}, methods)

	names := make(map[string]bool, len(manifest.Types))
	for _, tp := range manifest.Types {
		names[tp.Name] = true
	}
	for _, want := range []string{"TaskCreateInput", "TaskCreateOutput", "TaskListInput", "TaskListOutput"} {
		assert.True(t, names[want], "manifest missing type %s", want)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	first := generateAll(t, taskContractCUE)
	second := generateAll(t, taskContractCUE)

	for target, res := range first {
		require.Equal(t, paths(res), paths(second[target]), "target %s file set drifted", target)
		for i, f := range res.Files {
			assert.Equal(t, f.Content, second[target].Files[i].Content,
				"target %s file %s drifted between runs", target, f.Path)
		}
	}
}

func TestGenerate_ContractHashStable(t *testing.T) {
	t.Parallel()

	dir := writeContract(t, taskContractCUE)
	h1, err := compiler.ComputeContractHash(dir)
	require.NoError(t, err)
	h2, err := compiler.ComputeContractHash(dir)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	other := writeContract(t, taskContractCUE+"\n// trailing comment\n")
	h3, err := compiler.ComputeContractHash(other)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func errorCodes(res emitter.Result) []string {
	var out []string
	for _, d := range res.Diagnostics {
		if d.Severity == "error" {
			out = append(out, d.Code)
		}
	}
	return out
}
