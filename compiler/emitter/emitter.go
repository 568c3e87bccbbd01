// Package emitter defines the output contract every backend fulfils: a
// generation run turns a collected contract into an in-memory file list
// plus diagnostics. Writing files to disk is the caller's job, not the
// core's.
package emitter

import (
	"sort"

	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// File is one generated output file, path relative to the output dir.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Result is what a generation call returns. If any diagnostic carries
// error severity the file list is empty: a target either generates
// faithfully (possibly degraded with warnings) or not at all.
type Result struct {
	Files       []File          `json:"files"`
	Diagnostics []ir.Diagnostic `json:"diagnostics,omitempty"`
}

// Gate enforces the zero-files-on-error rule and sorts files by path for
// reproducible output.
func (r *Result) Gate() {
	if ir.HasErrors(r.Diagnostics) {
		r.Files = nil
		return
	}
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].Path < r.Files[j].Path })
}

// Backend lowers a contract into one target language's source files.
// Implementations own resettable mappers and collectors; a single Backend
// instance must not serve concurrent generation runs.
type Backend interface {
	Name() string
	Capabilities() compiler.TargetCapabilities
	Generate(contract *ir.ContractDefinition, outputDir string, options map[string]string) Result
}
