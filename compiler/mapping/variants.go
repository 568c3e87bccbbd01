package mapping

import (
	"fmt"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// NoopValidationHandlers returns a total handler table that emits nothing.
// Backends that delegate all validation to a runtime library use it; the
// table still covers every rule so the completeness check holds.
func NoopValidationHandlers() map[ir.ValidationKind]ValidationHandler {
	handlers := make(map[ir.ValidationKind]ValidationHandler, len(ir.AllValidationKinds))
	for _, k := range ir.AllValidationKinds {
		handlers[k] = func(ctx *ValidationContext) (ValidationResult, error) {
			return ValidationResult{}, nil
		}
	}
	return handlers
}

// UnsupportedValidationHandlers returns a total handler table that emits a
// harmless default and records a warning diagnostic per occurrence.
func UnsupportedValidationHandlers(target string) map[ir.ValidationKind]ValidationHandler {
	handlers := make(map[ir.ValidationKind]ValidationHandler, len(ir.AllValidationKinds))
	for _, k := range ir.AllValidationKinds {
		kind := k
		handlers[kind] = func(ctx *ValidationContext) (ValidationResult, error) {
			return ValidationResult{
				Diagnostics: []ir.Diagnostic{{
					Severity: ir.SeverityWarning,
					Code:     "VALIDATION_NOT_GENERATED",
					Message:  fmt.Sprintf("target %s does not generate %q checks; field is accepted as-is", target, kind),
					Path:     ctx.FieldPath,
				}},
			}, nil
		}
	}
	return handlers
}
