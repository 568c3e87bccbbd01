package targets

import (
	"github.com/mwesox/xrpc-sub000/compiler/collector"
	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/generator"
)

// SharedPlugin emits target-independent artifacts: the JSON contract
// manifest and the YAML summary.
type SharedPlugin struct{}

func (SharedPlugin) Name() string { return "shared" }

func (SharedPlugin) RegisterSteps(registry *generator.StepRegistry, ctx BuildContext) error {
	registry.Add(generator.Step{
		Target: "shared",
		Name:   "manifest",
		Run: func() (emitter.Result, error) {
			work := ctx.Contract.Clone()
			collected := collector.New().Collect(work)
			files, err := emitter.EmitManifest(work, collected)
			if err != nil {
				return emitter.Result{}, err
			}
			return emitter.Result{Files: files}, nil
		},
	})
	return nil
}
