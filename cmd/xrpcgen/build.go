package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/generator"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/targets"
)

func runGenerate(args []string) {
	fs := newFlagSet("generate", args)
	contractDir := fs.String("contract", ".", "directory holding the CUE contract")
	outDir := fs.String("out", "gen", "output directory for generated sources")
	targetList := fs.String("targets", "", "comma-separated targets (default: all)")
	pkgName := fs.String("package", "api", "package name for generated Go sources")
	jsonLog := fs.Bool("json", false, "emit build events as JSON lines")
	parseFlags(fs, args)

	log := &buildLogger{runID: uuid.NewString(), json: *jsonLog}

	hash, err := compiler.ComputeContractHash(*contractDir)
	if err == nil {
		log.emit(buildEvent{Stage: "CUE", Status: "ok", Message: "contract hash " + hash})
	}

	contract, warnings, err := compiler.RunPipeline(*contractDir)
	if err != nil {
		log.emit(buildEvent{Stage: "CUE", Status: "error", Error: err.Error()})
		os.Exit(1)
	}
	for _, w := range warnings {
		log.emit(buildEvent{Stage: "IR", Status: "warning", Message: w.Code + ": " + w.Message})
	}

	var requested []string
	if *targetList != "" {
		requested = strings.Split(*targetList, ",")
	}
	plugins, err := targets.ResolvePlugins(requested)
	if err != nil {
		log.emit(buildEvent{Stage: "EMITTERS", Status: "error", Error: err.Error()})
		os.Exit(1)
	}

	registry := generator.NewStepRegistry()
	ctx := targets.BuildContext{
		Contract:  contract,
		OutputDir: *outDir,
		Options:   map[string]string{"package": *pkgName},
	}
	for _, plugin := range plugins {
		if err := plugin.RegisterSteps(registry, ctx); err != nil {
			log.emit(buildEvent{Stage: "EMITTERS", Status: "error", Target: plugin.Name(), Error: err.Error()})
			os.Exit(1)
		}
	}

	out, err := generator.Execute(registry, log.stepSink)
	if err != nil {
		log.emit(buildEvent{Stage: "EMITTERS", Status: "error", Error: err.Error()})
		os.Exit(1)
	}

	written, failed := 0, false
	for target, res := range out.Results {
		for _, d := range res.Diagnostics {
			status := "warning"
			if d.Severity == ir.SeverityError {
				status = "error"
				failed = true
			}
			log.emit(buildEvent{Stage: "EMITTERS", Target: target, Status: status, Message: d.Code + ": " + d.Message + locSuffix(d.Path)})
		}
		for _, f := range res.Files {
			changed, err := writeIfChanged(filepath.Join(*outDir, f.Path), []byte(f.Content))
			if err != nil {
				log.emit(buildEvent{Stage: "EMITTERS", Target: target, Status: "error", Error: err.Error()})
				os.Exit(1)
			}
			if changed {
				written++
			}
		}
	}

	if failed {
		log.emit(buildEvent{Stage: "EMITTERS", Status: "error", Error: "generation failed; no files written for failing targets"})
		os.Exit(1)
	}
	log.emit(buildEvent{Stage: "EMITTERS", Status: "ok", FilesGenerated: written})
}

func locSuffix(path string) string {
	if path == "" {
		return ""
	}
	return " at " + path
}

// writeIfChanged skips the write when content is identical, keeping file
// mtimes stable so downstream build tools do not rebuild on no-ops.
func writeIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
