// Package generator sequences backend steps for a build run and reports
// per-step events to a caller-provided sink.
package generator

import (
	"fmt"

	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// Step is one independent unit of generation work for a single target.
type Step struct {
	Target string
	Name   string
	Run    func() (emitter.Result, error)
}

// StepEvent is emitted once per step as structured build telemetry.
type StepEvent struct {
	Target   string `json:"target"`
	Step     string `json:"step"`
	Status   string `json:"status"` // ok, error, skipped
	Files    int    `json:"files"`
	Warnings int    `json:"warnings"`
	Error    string `json:"error,omitempty"`
}

// StepRegistry accumulates steps in registration order.
type StepRegistry struct {
	steps []Step
}

func NewStepRegistry() *StepRegistry {
	return &StepRegistry{}
}

func (r *StepRegistry) Add(s Step) {
	r.steps = append(r.steps, s)
}

func (r *StepRegistry) Steps() []Step {
	return r.steps
}

// Output is the merged result of one Execute run, keyed by target.
type Output struct {
	Results map[string]emitter.Result
}

// Execute runs every registered step. A step returning a result with
// error-severity diagnostics poisons its target: later steps for the same
// target are skipped, and the target's file list stays empty. Other
// targets continue unaffected.
func Execute(registry *StepRegistry, sink func(StepEvent)) (Output, error) {
	out := Output{Results: make(map[string]emitter.Result)}
	failed := make(map[string]bool)

	emit := func(ev StepEvent) {
		if sink != nil {
			sink(ev)
		}
	}

	for _, step := range registry.Steps() {
		if failed[step.Target] {
			emit(StepEvent{Target: step.Target, Step: step.Name, Status: "skipped"})
			continue
		}

		res, err := step.Run()
		if err != nil {
			return out, fmt.Errorf("target=%s step=%s: %w", step.Target, step.Name, err)
		}

		merged := out.Results[step.Target]
		merged.Files = append(merged.Files, res.Files...)
		merged.Diagnostics = append(merged.Diagnostics, res.Diagnostics...)
		merged.Gate()
		out.Results[step.Target] = merged

		ev := StepEvent{
			Target:   step.Target,
			Step:     step.Name,
			Status:   "ok",
			Files:    len(res.Files),
			Warnings: ir.CountWarnings(res.Diagnostics),
		}
		if ir.HasErrors(res.Diagnostics) {
			failed[step.Target] = true
			ev.Status = "error"
			ev.Files = 0
			ev.Error = firstError(res.Diagnostics)
		}
		emit(ev)
	}

	return out, nil
}

func firstError(diags []ir.Diagnostic) string {
	for _, d := range diags {
		if d.Severity == ir.SeverityError {
			return d.Code + ": " + d.Message
		}
	}
	return ""
}
