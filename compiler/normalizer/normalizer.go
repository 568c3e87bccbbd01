// Package normalizer extracts a language-agnostic ContractDefinition from
// a loaded CUE contract. It is the only component that reads the host
// schema; everything downstream sees pure IR.
package normalizer

import (
	"errors"
	"fmt"
	"sort"

	"cuelang.org/go/cue"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// ErrContractMissing fires when the loaded CUE value has no top-level
// `contract` struct at all, as opposed to a malformed one.
var ErrContractMissing = errors.New("contract export not found: expected a top-level `contract` struct of endpoint groups")

// Normalizer walks a CUE contract value and produces IR.
type Normalizer struct {
	WarningSink func(ir.Diagnostic)
}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) warn(d ir.Diagnostic) {
	if n.WarningSink != nil {
		n.WarningSink(d)
	}
}

// ExtractContract reads the top-level `contract` (endpoint groups) and the
// optional `types` struct, classifies every schema node into exactly one
// IR kind and synthesizes one named top-level type per endpoint input and
// output. Any malformed endpoint is fatal for the whole run; no partial
// contract is usable downstream.
func (n *Normalizer) ExtractContract(val cue.Value) (*ir.ContractDefinition, error) {
	contractVal := val.LookupPath(cue.ParsePath("contract"))
	if !contractVal.Exists() {
		return nil, ErrContractMissing
	}

	out := &ir.ContractDefinition{}
	declared := make(map[string]bool)

	typesVal := val.LookupPath(cue.ParsePath("types"))
	if typesVal.Exists() {
		iter, err := typesVal.Fields(cue.Optional(true))
		if err != nil {
			return nil, fmt.Errorf("iterate types: %w", err)
		}
		for iter.Next() {
			name := selectorName(iter.Selector())
			ref, err := n.classify(iter.Value(), "types."+name)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", name, err)
			}
			ref.Name = name
			out.Types = append(out.Types, ir.TypeDefinition{Name: name, Ref: ref, Source: "types." + name})
			declared[name] = true
		}
	}

	groups, err := contractVal.Fields(cue.Optional(true))
	if err != nil {
		return nil, fmt.Errorf("iterate contract groups: %w", err)
	}
	for groups.Next() {
		group := selectorName(groups.Selector())
		eps, err := groups.Value().Fields(cue.Optional(true))
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", group, err)
		}
		for eps.Next() {
			name := selectorName(eps.Selector())
			ep, err := n.extractEndpoint(group, name, eps.Value())
			if err != nil {
				return nil, err
			}

			inName := names.ExportName(group) + names.ExportName(name) + "Input"
			outName := names.ExportName(group) + names.ExportName(name) + "Output"
			ep.Input.Name = inName
			ep.Output.Name = outName
			if !declared[inName] {
				out.Types = append(out.Types, ir.TypeDefinition{Name: inName, Ref: ep.Input, Source: ep.FullName + ".input"})
				declared[inName] = true
			}
			if !declared[outName] {
				out.Types = append(out.Types, ir.TypeDefinition{Name: outName, Ref: ep.Output, Source: ep.FullName + ".output"})
				declared[outName] = true
			}

			out.Endpoints = append(out.Endpoints, *ep)
		}
	}

	sort.SliceStable(out.Endpoints, func(i, j int) bool {
		return out.Endpoints[i].FullName < out.Endpoints[j].FullName
	})
	return out, nil
}

func (n *Normalizer) extractEndpoint(group, name string, val cue.Value) (*ir.Endpoint, error) {
	fullName := group + "." + name

	kindVal := val.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, fmt.Errorf("endpoint %s: missing kind (query|mutation)", fullName)
	}
	kindStr, err := kindVal.String()
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: kind must be a string: %w", fullName, err)
	}
	var kind ir.EndpointKind
	switch kindStr {
	case "query":
		kind = ir.EndpointQuery
	case "mutation":
		kind = ir.EndpointMutation
	default:
		return nil, fmt.Errorf("endpoint %s: unknown kind %q", fullName, kindStr)
	}

	inputVal := val.LookupPath(cue.ParsePath("input"))
	if !inputVal.Exists() {
		return nil, fmt.Errorf("endpoint %s: missing input schema", fullName)
	}
	outputVal := val.LookupPath(cue.ParsePath("output"))
	if !outputVal.Exists() {
		return nil, fmt.Errorf("endpoint %s: missing output schema", fullName)
	}

	input, err := n.classify(inputVal, fullName+".input")
	if err != nil {
		return nil, fmt.Errorf("endpoint %s input: %w", fullName, err)
	}
	if input.Kind != ir.KindObject {
		return nil, fmt.Errorf("endpoint %s: input must be an object, got %s", fullName, input.Kind)
	}
	output, err := n.classify(outputVal, fullName+".output")
	if err != nil {
		return nil, fmt.Errorf("endpoint %s output: %w", fullName, err)
	}

	return &ir.Endpoint{
		Name:     name,
		Group:    group,
		FullName: fullName,
		Kind:     kind,
		Input:    input,
		Output:   output,
		Source:   fullName,
	}, nil
}

func selectorName(sel cue.Selector) string {
	if sel.Type() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}
