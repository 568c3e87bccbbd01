package main

import (
	"fmt"
	"os"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/mwesox/xrpc-sub000/compiler/generator"
)

// buildEvent is one line of machine-readable build telemetry, emitted as
// JSON on stdout when --json is set.
type buildEvent struct {
	Timestamp      string `json:"ts"`
	RunID          string `json:"run_id"`
	Stage          string `json:"stage"`
	Target         string `json:"target,omitempty"`
	Step           string `json:"step,omitempty"`
	Status         string `json:"status"`
	FilesGenerated int    `json:"files_generated,omitempty"`
	Warnings       int    `json:"warnings,omitempty"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message,omitempty"`
}

type buildLogger struct {
	runID string
	json  bool
}

func (l *buildLogger) emit(ev buildEvent) {
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	ev.RunID = l.runID
	if l.json {
		b, _ := gojson.Marshal(ev)
		fmt.Fprintln(os.Stdout, string(b))
		return
	}
	line := fmt.Sprintf("[%s] %s", ev.Stage, ev.Status)
	if ev.Target != "" {
		line = fmt.Sprintf("[%s] %s/%s %s", ev.Stage, ev.Target, ev.Step, ev.Status)
	}
	if ev.FilesGenerated > 0 {
		line += fmt.Sprintf(" files=%d", ev.FilesGenerated)
	}
	if ev.Warnings > 0 {
		line += fmt.Sprintf(" warnings=%d", ev.Warnings)
	}
	if ev.Error != "" {
		line += " error=" + ev.Error
	}
	if ev.Message != "" {
		line += " " + ev.Message
	}
	fmt.Fprintln(os.Stdout, line)
}

func (l *buildLogger) stepSink(ev generator.StepEvent) {
	l.emit(buildEvent{
		Stage:          "EMITTERS",
		Target:         ev.Target,
		Step:           ev.Step,
		Status:         ev.Status,
		FilesGenerated: ev.Files,
		Warnings:       ev.Warnings,
		Error:          ev.Error,
	})
}
