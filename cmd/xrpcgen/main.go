package main

import (
	"fmt"
	"os"

	"github.com/mwesox/xrpc-sub000/compiler"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "explain":
		runExplain(os.Args[2:])
	case "doctor":
		runDoctor(os.Args[2:])
	case "hash":
		runHash(os.Args[2:])
	case "version":
		fmt.Printf("xrpcgen v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("xrpcgen — contract-first RPC code generator v%s\n", version)
	fmt.Println("\nUsage:")
	fmt.Println("  xrpcgen generate  Compile the CUE contract into target sources")
	fmt.Println("  xrpcgen validate  Check the contract and report diagnostics")
	fmt.Println("  xrpcgen explain   Explain a pipeline error code")
	fmt.Println("  xrpcgen doctor    Analyze a build log for known pipeline codes")
	fmt.Println("  xrpcgen hash      Show the current contract hash")
	fmt.Println("  xrpcgen version   Show the generator version")
}

func runHash(args []string) {
	fs := newFlagSet("hash", args)
	contractDir := fs.String("contract", ".", "directory holding the CUE contract")
	parseFlags(fs, args)

	hash, err := compiler.ComputeContractHash(*contractDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Contract Hash: %s (%s)\n", hash, *contractDir)
}
