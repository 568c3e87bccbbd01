package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mwesox/xrpc-sub000/compiler"
)

var codeExplanations = map[string]string{
	compiler.ErrCodeCUEContractLoad:     "The CUE package could not be loaded or did not validate. Check the file path and run `cue vet` on the contract directory.",
	compiler.ErrCodeCUEContractMissing:  "The loaded CUE package has no top-level `contract` struct. Every contract declares its endpoint groups under `contract:`.",
	compiler.ErrCodeCUEEndpointExtract:  "An endpoint is malformed: missing kind (query|mutation), missing input/output schema, or a non-object input.",
	compiler.ErrCodeCUETypeExtract:      "A top-level type under `types:` could not be classified into the IR vocabulary.",
	compiler.ErrCodeCUEValidateTagParse: "A @validate() attribute contains an unknown rule name or a malformed value, e.g. @validate(minLength=abc).",
	compiler.ErrCodeCUERulePartition:    "A validation rule is attached to a field whose type cannot carry it, e.g. minLength on a number field.",
	compiler.ErrCodeCollectNaming:       "The anonymous-type collector could not assign a stable name, usually after exhausting collision suffixes.",
	compiler.ErrCodeCapabilityResolve:   "A requested target does not declare a capability set; the target name is unknown to the generator.",
	compiler.ErrCodeEmitterIncomplete:   "A backend's handler table does not cover every type or validation kind. This is a generator bug, not a contract problem.",
	compiler.ErrCodeEmitterStep:         "A generation step failed while lowering the contract. The wrapped message names the step and cause.",
	compiler.ErrCodeEmitterFormat:       "A generated Go source file did not parse. The emitted code is invalid; report this with the contract that triggered it.",
}

func runExplain(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: xrpcgen explain <CODE>")
		fmt.Println("\nKnown codes:")
		codes := append([]string(nil), compiler.StableErrorCodes...)
		sort.Strings(codes)
		for _, c := range codes {
			fmt.Printf("  %s\n", c)
		}
		return
	}

	code := args[0]
	text, ok := codeExplanations[code]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown code %q. Run `xrpcgen explain` for the full list.\n", code)
		os.Exit(1)
	}
	fmt.Printf("%s\n\n%s\n", code, text)
}
