// Package mapping is the backend contract of the compiler: exhaustive,
// table-driven dispatch over the 11 type kinds and 13 validation kinds.
// A backend registers one handler per kind; construction fails before any
// contract is processed if a handler is missing. Go has no compiler-proved
// exhaustiveness over our kind set, so the construction-time check over
// ir.AllTypeKinds / ir.AllValidationKinds is mandatory, not cosmetic.
package mapping

import (
	"fmt"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// TypeResult is the outcome of lowering one TypeReference.
type TypeResult struct {
	// Code is the target-language type expression, e.g. "[]string" or
	// "Record<string, number>".
	Code      string
	Imports   []string
	Utilities []GeneratedUtility
}

// ValidationResult is one boolean-condition-plus-message fragment.
type ValidationResult struct {
	// Condition is a target-language boolean expression that is true when
	// the rule is violated; empty means the handler emits nothing.
	Condition string
	// Message is the human-readable violation text.
	Message     string
	Imports     []string
	Utilities   []GeneratedUtility
	Diagnostics []ir.Diagnostic
}

// TypeContext carries positional information into type handlers.
type TypeContext struct {
	// Path is the dotted location of the reference, for diagnostics.
	Path string
	// Mapper lets handlers recurse into nested references and report
	// warnings without a side channel.
	Mapper *TypeMapper
}

// ValidationContext carries everything a validation handler may need.
type ValidationContext struct {
	Rule      ir.ValidationKind
	Value     any
	FieldName string
	FieldPath string
	BaseType  ir.BaseType
	// IsRequired drives the short-circuit rule: checks on optional fields
	// fire only when the field is present; checks on required fields must
	// not duplicate the "is required" error on empty input.
	IsRequired bool
	AllRules   *ir.ValidationRules
}

// TypeHandler lowers references of a single kind.
type TypeHandler func(ref *ir.TypeReference, ctx *TypeContext) (TypeResult, error)

// ValidationHandler lowers a single validation rule.
type ValidationHandler func(ctx *ValidationContext) (ValidationResult, error)

// TypeMapper dispatches over the closed type-kind set for one target.
// It accumulates warning diagnostics and generated utilities during a run
// and must be Reset between runs; it is not safe for concurrent use.
type TypeMapper struct {
	Target    string
	Utilities *UtilityCollector

	handlers map[ir.TypeKind]TypeHandler
	diags    []ir.Diagnostic
}

// NewTypeMapper builds a mapper and verifies the handler table covers
// every kind in ir.AllTypeKinds. An incomplete table is a programmer
// error: it fails here, never as a user-facing diagnostic.
func NewTypeMapper(target string, handlers map[ir.TypeKind]TypeHandler) (*TypeMapper, error) {
	for _, k := range ir.AllTypeKinds {
		if handlers[k] == nil {
			return nil, fmt.Errorf("type mapper %s: no handler for kind %q", target, k)
		}
	}
	return &TypeMapper{
		Target:    target,
		Utilities: NewUtilityCollector(),
		handlers:  handlers,
	}, nil
}

// Map lowers one reference. Handler-produced utilities are folded into
// the mapper's collector; imports stay on the result.
func (m *TypeMapper) Map(ref *ir.TypeReference, ctx *TypeContext) (TypeResult, error) {
	if ref == nil {
		return TypeResult{}, fmt.Errorf("type mapper %s: nil reference at %s", m.Target, ctx.Path)
	}
	h, ok := m.handlers[ref.Kind]
	if !ok {
		// Unreachable after the construction check; kept as a guard for
		// kinds added to the IR without re-running NewTypeMapper.
		return TypeResult{}, fmt.Errorf("type mapper %s: no handler for kind %q", m.Target, ref.Kind)
	}
	if ctx == nil {
		ctx = &TypeContext{}
	}
	ctx.Mapper = m
	res, err := h(ref, ctx)
	if err != nil {
		return TypeResult{}, err
	}
	for _, u := range res.Utilities {
		m.Utilities.Add(u)
	}
	return res, nil
}

// Warn records a warning diagnostic for the current run.
func (m *TypeMapper) Warn(d ir.Diagnostic) {
	if d.Severity == "" {
		d.Severity = ir.SeverityWarning
	}
	m.diags = append(m.diags, d)
}

// Diagnostics returns the warnings accumulated since the last Reset.
func (m *TypeMapper) Diagnostics() []ir.Diagnostic {
	return m.diags
}

// Reset clears per-run state so the mapper can serve another target run.
func (m *TypeMapper) Reset() {
	m.diags = nil
	m.Utilities.Reset()
}

// ValidationMapper dispatches over the closed validation-kind set.
type ValidationMapper struct {
	Target    string
	Utilities *UtilityCollector

	handlers map[ir.ValidationKind]ValidationHandler
	diags    []ir.Diagnostic
}

// NewValidationMapper verifies the handler table covers every kind in
// ir.AllValidationKinds before any contract is processed.
func NewValidationMapper(target string, handlers map[ir.ValidationKind]ValidationHandler) (*ValidationMapper, error) {
	for _, k := range ir.AllValidationKinds {
		if handlers[k] == nil {
			return nil, fmt.Errorf("validation mapper %s: no handler for rule %q", target, k)
		}
	}
	return &ValidationMapper{
		Target:    target,
		Utilities: NewUtilityCollector(),
		handlers:  handlers,
	}, nil
}

// MapRule lowers one rule occurrence.
func (m *ValidationMapper) MapRule(ctx *ValidationContext) (ValidationResult, error) {
	h, ok := m.handlers[ctx.Rule]
	if !ok {
		return ValidationResult{}, fmt.Errorf("validation mapper %s: no handler for rule %q", m.Target, ctx.Rule)
	}
	res, err := h(ctx)
	if err != nil {
		return ValidationResult{}, err
	}
	for _, u := range res.Utilities {
		m.Utilities.Add(u)
	}
	m.diags = append(m.diags, res.Diagnostics...)
	return res, nil
}

// MapRules lowers every rule present on a field, in canonical order.
func (m *ValidationMapper) MapRules(rules *ir.ValidationRules, fieldName, fieldPath string, base ir.BaseType, required bool) ([]ValidationResult, error) {
	var out []ValidationResult
	for _, kind := range rules.Kinds() {
		ctx := &ValidationContext{
			Rule:       kind,
			Value:      RuleValue(rules, kind),
			FieldName:  fieldName,
			FieldPath:  fieldPath,
			BaseType:   base,
			IsRequired: required,
			AllRules:   rules,
		}
		res, err := m.MapRule(ctx)
		if err != nil {
			return nil, err
		}
		if res.Condition != "" {
			out = append(out, res)
		}
	}
	return out, nil
}

// Diagnostics returns the warnings accumulated since the last Reset.
func (m *ValidationMapper) Diagnostics() []ir.Diagnostic {
	return m.diags
}

// Reset clears per-run state.
func (m *ValidationMapper) Reset() {
	m.diags = nil
	m.Utilities.Reset()
}

// RuleValue extracts the payload a rule carries, if any.
func RuleValue(rules *ir.ValidationRules, kind ir.ValidationKind) any {
	switch kind {
	case ir.RuleMinLength:
		return *rules.MinLength
	case ir.RuleMaxLength:
		return *rules.MaxLength
	case ir.RuleRegex:
		return rules.Regex
	case ir.RuleMin:
		return *rules.Min
	case ir.RuleMax:
		return *rules.Max
	case ir.RuleMinItems:
		return *rules.MinItems
	case ir.RuleMaxItems:
		return *rules.MaxItems
	}
	return nil
}
