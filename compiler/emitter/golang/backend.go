// Package golang is the Go server backend: structs, Validate methods and
// net/http route registration for every contract operation.
package golang

import (
	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/collector"
	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
)

type Backend struct {
	types       *mapping.TypeMapper
	validations *mapping.ValidationMapper
	collector   *collector.Collector
}

// New wires the mapper tables. The completeness checks run here, so an IR
// kind without a Go handler fails at construction, not mid-generation.
func New() (*Backend, error) {
	tm, err := mapping.NewTypeMapper("go", typeHandlers())
	if err != nil {
		return nil, err
	}
	vm, err := mapping.NewValidationMapper("go", validationHandlers())
	if err != nil {
		return nil, err
	}
	return &Backend{types: tm, validations: vm, collector: collector.New()}, nil
}

func (b *Backend) Name() string { return "go" }

func (b *Backend) Capabilities() compiler.TargetCapabilities {
	return compiler.FullCapabilities("go")
}

// Generate lowers the contract into api package source files. The input
// contract is cloned first; collector name assignment must not leak into
// other targets' runs.
func (b *Backend) Generate(contract *ir.ContractDefinition, outputDir string, options map[string]string) emitter.Result {
	b.types.Reset()
	b.validations.Reset()
	b.collector.Reset()

	work := contract.Clone()
	collected := b.collector.Collect(work)

	var res emitter.Result
	res.Diagnostics = append(res.Diagnostics, compiler.ValidateCapabilities(work, b.Capabilities())...)
	if ir.HasErrors(res.Diagnostics) {
		res.Gate()
		return res
	}

	pkg := options["package"]
	if pkg == "" {
		pkg = "api"
	}

	validateSrc, valDiags, err := b.emitValidators(work, pkg)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{
			Severity: ir.SeverityError,
			Code:     "EMITTER_STEP_ERROR",
			Message:  err.Error(),
		})
		res.Gate()
		return res
	}
	res.Diagnostics = append(res.Diagnostics, valDiags...)

	// Types after validators: validation helpers must not end up split
	// across files, and the type mapper owns enum/union/tuple utilities.
	typesSrc, err := b.emitTypes(work, collected, pkg)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{
			Severity: ir.SeverityError,
			Code:     "EMITTER_STEP_ERROR",
			Message:  err.Error(),
		})
		res.Gate()
		return res
	}

	routesSrc, err := b.emitRoutes(work, pkg)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{
			Severity: ir.SeverityError,
			Code:     "EMITTER_STEP_ERROR",
			Message:  err.Error(),
		})
		res.Gate()
		return res
	}

	res.Diagnostics = append(res.Diagnostics, b.types.Diagnostics()...)
	res.Diagnostics = append(res.Diagnostics, b.validations.Diagnostics()...)

	for _, f := range []emitter.File{
		{Path: "types.go", Content: typesSrc},
		{Path: "validate.go", Content: validateSrc},
		{Path: "routes.go", Content: routesSrc},
	} {
		formatted, err := formatGoStrict([]byte(f.Content), f.Path)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{
				Severity: ir.SeverityError,
				Code:     "EMITTER_FORMAT_ERROR",
				Message:  err.Error(),
				Path:     f.Path,
			})
			continue
		}
		f.Content = string(formatted)
		res.Files = append(res.Files, f)
	}

	res.Gate()
	return res
}
