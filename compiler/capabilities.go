package compiler

import (
	"fmt"
	"sort"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// Unsupported describes why a target cannot represent a construct and, if
// one exists, the degraded fallback generation uses instead.
type Unsupported struct {
	Reason   string
	Fallback string
}

// TargetCapabilities is a backend's static claim about which IR kinds and
// validation rules it can represent. It is declared by each backend, never
// derived from runtime input.
type TargetCapabilities struct {
	Name                   string
	SupportedTypes         []ir.TypeKind
	SupportedValidations   []ir.ValidationKind
	UnsupportedTypes       map[ir.TypeKind]Unsupported
	UnsupportedValidations map[ir.ValidationKind]Unsupported
}

// Supports reports whether a type kind is in the supported set.
func (c TargetCapabilities) Supports(k ir.TypeKind) bool {
	for _, s := range c.SupportedTypes {
		if s == k {
			return true
		}
	}
	return false
}

// SupportsValidation reports whether a validation kind is supported.
func (c TargetCapabilities) SupportsValidation(k ir.ValidationKind) bool {
	for _, s := range c.SupportedValidations {
		if s == k {
			return true
		}
	}
	return false
}

// FullCapabilities returns a declaration claiming every kind and rule.
func FullCapabilities(name string) TargetCapabilities {
	return TargetCapabilities{
		Name:                 name,
		SupportedTypes:       append([]ir.TypeKind(nil), ir.AllTypeKinds...),
		SupportedValidations: append([]ir.ValidationKind(nil), ir.AllValidationKinds...),
	}
}

// ValidateCapabilities walks everything reachable from the contract's
// top-level types and endpoint inputs/outputs, collects the set of type
// and validation kinds actually used, and grades each unsupported kind:
// a declared fallback degrades to a warning, no fallback is an error.
// Validation kinds always degrade to warnings; a missing check is a
// functionality gap, never a type-safety violation.
func ValidateCapabilities(contract *ir.ContractDefinition, caps TargetCapabilities) []ir.Diagnostic {
	usage := collectUsage(contract)

	var diags []ir.Diagnostic
	for _, kind := range ir.AllTypeKinds {
		paths, used := usage.types[kind]
		if !used || caps.Supports(kind) {
			continue
		}
		path := firstPath(paths)
		if u, ok := caps.UnsupportedTypes[kind]; ok && u.Fallback != "" {
			diags = append(diags, ir.Diagnostic{
				Severity: ir.SeverityWarning,
				Code:     "CAP_TYPE_FALLBACK",
				Message:  fmt.Sprintf("target %s cannot represent %q types: %s", caps.Name, kind, u.Reason),
				Path:     path,
				Hint:     "fallback: " + u.Fallback,
			})
			continue
		}
		reason := "no fallback declared"
		if u, ok := caps.UnsupportedTypes[kind]; ok && u.Reason != "" {
			reason = u.Reason
		}
		diags = append(diags, ir.Diagnostic{
			Severity: ir.SeverityError,
			Code:     "CAP_TYPE_UNSUPPORTED",
			Message:  fmt.Sprintf("target %s cannot represent %q types: %s", caps.Name, kind, reason),
			Path:     path,
		})
	}

	for _, rule := range ir.AllValidationKinds {
		paths, used := usage.validations[rule]
		if !used || caps.SupportsValidation(rule) {
			continue
		}
		d := ir.Diagnostic{
			Severity: ir.SeverityWarning,
			Code:     "CAP_VALIDATION_UNSUPPORTED",
			Message:  fmt.Sprintf("target %s does not generate %q checks", caps.Name, rule),
			Path:     firstPath(paths),
		}
		if u, ok := caps.UnsupportedValidations[rule]; ok {
			if u.Reason != "" {
				d.Message = fmt.Sprintf("target %s does not generate %q checks: %s", caps.Name, rule, u.Reason)
			}
			if u.Fallback != "" {
				d.Hint = "fallback: " + u.Fallback
			}
		}
		diags = append(diags, d)
	}
	return diags
}

type kindUsage struct {
	types       map[ir.TypeKind][]string
	validations map[ir.ValidationKind][]string
	visited     map[string]bool
}

func collectUsage(contract *ir.ContractDefinition) *kindUsage {
	u := &kindUsage{
		types:       make(map[ir.TypeKind][]string),
		validations: make(map[ir.ValidationKind][]string),
		visited:     make(map[string]bool),
	}
	for _, td := range contract.Types {
		u.walk(td.Ref, td.Name)
	}
	for _, ep := range contract.Endpoints {
		u.walk(ep.Input, ep.FullName+".input")
		u.walk(ep.Output, ep.FullName+".output")
	}
	return u
}

func (u *kindUsage) walk(ref *ir.TypeReference, path string) {
	if ref == nil {
		return
	}
	// Named structural types can be self-referential; one visit each.
	if ref.Named() && (ref.Kind == ir.KindObject || ref.Kind == ir.KindUnion ||
		ref.Kind == ir.KindEnum || ref.Kind == ir.KindTuple) {
		if u.visited[ref.Name] {
			u.mark(ref.Kind, path)
			return
		}
		u.visited[ref.Name] = true
	}

	u.mark(ref.Kind, path)
	u.markRules(ref.Validation, path)

	switch ref.Kind {
	case ir.KindObject:
		for _, p := range ref.Properties {
			u.markRules(p.Validation, path+"."+p.Name)
			u.walk(p.Type, path+"."+p.Name)
		}
	case ir.KindArray, ir.KindOptional, ir.KindNullable, ir.KindRecord:
		u.walk(ref.Element, path)
	case ir.KindUnion, ir.KindTuple:
		for i, v := range ref.Variants {
			u.walk(v, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}

func (u *kindUsage) mark(kind ir.TypeKind, path string) {
	u.types[kind] = append(u.types[kind], path)
}

func (u *kindUsage) markRules(rules *ir.ValidationRules, path string) {
	for _, k := range rules.Kinds() {
		u.validations[k] = append(u.validations[k], path)
	}
}

func firstPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return sorted[0]
}
