package compiler

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/normalizer"
	"github.com/mwesox/xrpc-sub000/compiler/parser"
)

// ComputeContractHash hashes every .cue file under basePath, in walk
// order, for change detection and build telemetry.
func ComputeContractHash(basePath string) (string, error) {
	h := sha256.New()
	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".cue") {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := io.Copy(h, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// PipelineOptions tunes a single pipeline run.
type PipelineOptions struct {
	WarningSink func(ir.Diagnostic)
}

// RunPipeline loads the CUE contract at basePath and extracts the IR.
// The returned contract has not been through the collector; backends
// clone and collect per target.
func RunPipeline(basePath string) (*ir.ContractDefinition, []ir.Diagnostic, error) {
	var warnings []ir.Diagnostic
	contract, err := RunPipelineWithOptions(basePath, PipelineOptions{
		WarningSink: func(d ir.Diagnostic) {
			warnings = append(warnings, d)
		},
	})
	return contract, warnings, err
}

func RunPipelineWithOptions(basePath string, opts PipelineOptions) (*ir.ContractDefinition, error) {
	p := parser.New()

	val, err := p.LoadContract(basePath)
	if err != nil {
		return nil, WrapContractError(
			StageCUE, ErrCodeCUEContractLoad, "load contract",
			fmt.Errorf("%s", parser.FormatCUELocationError(err)),
		)
	}

	n := normalizer.New()
	n.WarningSink = opts.WarningSink
	contract, err := n.ExtractContract(val)
	if err != nil {
		code := ErrCodeCUEEndpointExtract
		if errors.Is(err, normalizer.ErrContractMissing) {
			code = ErrCodeCUEContractMissing
		}
		return nil, WrapContractError(StageCUE, code, "extract contract", err)
	}
	return contract, nil
}
