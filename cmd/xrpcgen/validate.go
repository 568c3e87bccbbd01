package main

import (
	"fmt"
	"os"

	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/collector"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/targets"
)

// runValidate loads the contract and reports every diagnostic the
// pipeline and each target's capability check would raise, without
// generating anything.
func runValidate(args []string) {
	fs := newFlagSet("validate", args)
	contractDir := fs.String("contract", ".", "directory holding the CUE contract")
	parseFlags(fs, args)

	contract, warnings, err := compiler.RunPipeline(*contractDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	diags := warnings
	for _, plugin := range targets.BuiltinPlugins() {
		caps, ok := namedCapabilities(plugin.Name())
		if !ok {
			continue
		}
		work := contract.Clone()
		collector.New().Collect(work)
		diags = append(diags, compiler.ValidateCapabilities(work, caps)...)
	}

	for _, d := range diags {
		marker := "⚠️"
		if d.Severity == ir.SeverityError {
			marker = "❌"
		}
		fmt.Printf("%s [%s] %s", marker, d.Code, d.Message)
		if d.Path != "" {
			fmt.Printf(" at %s", d.Path)
		}
		if d.Hint != "" {
			fmt.Printf("\n   💡 %s", d.Hint)
		}
		fmt.Println()
	}

	if ir.HasErrors(diags) {
		os.Exit(1)
	}
	fmt.Printf("✅ Contract OK: %d types, %d endpoints, %d warnings\n",
		len(contract.Types), len(contract.Endpoints), ir.CountWarnings(diags))
}

// namedCapabilities maps a plugin name to the declared capability set of
// its language backend. The shared plugin has no representation gaps.
func namedCapabilities(name string) (compiler.TargetCapabilities, bool) {
	switch name {
	case "go", "typescript":
		return compiler.FullCapabilities(name), true
	}
	return compiler.TargetCapabilities{}, false
}
