package main

import (
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"

	"github.com/mwesox/xrpc-sub000/compiler/doctor"
)

// runDoctor reads a build log (file or stdin) and reports detected
// pipeline codes with fixes. State lives under <root>/.xrpcgen/ so
// successive runs track fix progress.
func runDoctor(args []string) {
	fs := newFlagSet("doctor", args)
	logPath := fs.String("log", "", "build log file to analyze (default: stdin)")
	root := fs.String("root", ".", "workspace root for doctor state")
	asJSON := fs.Bool("json", false, "emit the report as JSON")
	parseFlags(fs, args)

	var data []byte
	var err error
	if *logPath == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*logPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "doctor: read log: %v\n", err)
		os.Exit(1)
	}

	report := doctor.NewAnalyzer(*root).Analyze(string(data))

	if *asJSON {
		b, err := gojson.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "doctor: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	} else {
		fmt.Print(doctor.Format(report))
	}

	if report.ErrorsRemaining > 0 {
		os.Exit(1)
	}
}
