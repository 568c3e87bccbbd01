// Package targets wires concrete backends into the step registry. Adding
// a language means adding a plugin here; the rest of the pipeline never
// names a backend directly.
package targets

import (
	"fmt"

	"github.com/mwesox/xrpc-sub000/compiler/generator"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// BuildContext carries everything plugins need to register steps.
type BuildContext struct {
	Contract  *ir.ContractDefinition
	OutputDir string
	Options   map[string]string
}

// TargetPlugin is the extension point for language emitters.
type TargetPlugin interface {
	Name() string
	RegisterSteps(registry *generator.StepRegistry, ctx BuildContext) error
}

// BuiltinPlugins returns the in-process plugins in deterministic order.
// Shared runs last so the manifest reflects a contract the language
// backends accepted.
func BuiltinPlugins() []TargetPlugin {
	return []TargetPlugin{
		GoPlugin{},
		TypeScriptPlugin{},
		SharedPlugin{},
	}
}

// ResolvePlugins filters builtins down to the requested target names.
// An empty request selects every builtin.
func ResolvePlugins(requested []string) ([]TargetPlugin, error) {
	all := BuiltinPlugins()
	if len(requested) == 0 {
		return all, nil
	}
	byName := make(map[string]TargetPlugin, len(all))
	for _, p := range all {
		byName[p.Name()] = p
	}
	var out []TargetPlugin
	for _, name := range requested {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		out = append(out, p)
	}
	// The manifest is target-independent; keep it in every run.
	if _, ok := byName[SharedPlugin{}.Name()]; ok {
		found := false
		for _, p := range out {
			if p.Name() == (SharedPlugin{}).Name() {
				found = true
			}
		}
		if !found {
			out = append(out, SharedPlugin{})
		}
	}
	return out, nil
}
