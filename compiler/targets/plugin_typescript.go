package targets

import (
	"path/filepath"

	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/emitter/typescript"
	"github.com/mwesox/xrpc-sub000/compiler/generator"
)

type TypeScriptPlugin struct{}

func (TypeScriptPlugin) Name() string { return "typescript" }

func (TypeScriptPlugin) RegisterSteps(registry *generator.StepRegistry, ctx BuildContext) error {
	backend, err := typescript.New()
	if err != nil {
		return err
	}
	registry.Add(generator.Step{
		Target: backend.Name(),
		Name:   "generate",
		Run: func() (emitter.Result, error) {
			res := backend.Generate(ctx.Contract, ctx.OutputDir, ctx.Options)
			for i := range res.Files {
				res.Files[i].Path = filepath.Join("typescript", res.Files[i].Path)
			}
			return res, nil
		},
	})
	return nil
}
