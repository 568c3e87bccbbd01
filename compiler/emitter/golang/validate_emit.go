package golang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// emitValidators renders one Validate method per endpoint input struct.
//
// The guard structure implements the presence rules: a missing optional
// field skips its checks entirely, and a required field that is absent
// reports exactly "<field> is required" without also firing the rule
// checks on the zero value.
func (b *Backend) emitValidators(contract *ir.ContractDefinition, pkg string) (string, []ir.Diagnostic, error) {
	var funcs strings.Builder
	var imports []string
	var diags []ir.Diagnostic

	for _, ep := range contract.Endpoints {
		fmt.Fprintf(&funcs, "// Validate reports constraint violations for %s input.\n", ep.FullName)
		fmt.Fprintf(&funcs, "func (v *%s) Validate() []string {\n", ep.Input.Name)
		funcs.WriteString("\tvar errs []string\n")
		for _, prop := range ep.Input.Properties {
			fieldDiags, err := b.writeFieldChecks(&funcs, ep, prop, &imports)
			if err != nil {
				return "", nil, err
			}
			diags = append(diags, fieldDiags...)
		}
		funcs.WriteString("\treturn errs\n}\n\n")
	}

	var utils strings.Builder
	for _, u := range b.validations.Utilities.GetAll() {
		utils.WriteString(u.Code)
		utils.WriteString("\n")
	}
	imports = append(imports, b.validations.Utilities.Imports()...)

	return assembleFile(pkg, imports, utils.String()+funcs.String()), diags, nil
}

func (b *Backend) writeFieldChecks(out *strings.Builder, ep ir.Endpoint, prop ir.Property, imports *[]string) ([]ir.Diagnostic, error) {
	core, optional, nullable := unwrap(prop.Type)
	expr := "v." + names.ExportName(prop.Name)
	var diags []ir.Diagnostic

	var checks []fieldCheck
	if prop.Validation != nil && !prop.Validation.Empty() {
		frags, err := b.validations.MapRules(prop.Validation, prop.Name, ep.FullName+".input."+prop.Name, baseOf(core), prop.Required)
		if err != nil {
			return nil, err
		}
		for _, f := range frags {
			checks = append(checks, fieldCheck{cond: f.Condition, msg: f.Message})
			*imports = append(*imports, f.Imports...)
		}
	}
	if core.Kind == ir.KindEnum && core.Named() && allStringValues(core.EnumValues) {
		checks = append(checks, fieldCheck{cond: "!val.IsValid()", msg: prop.Name + " must be one of the allowed values"})
	}

	requiredMsg := prop.Name + " is required"

	if prop.Required && nullable {
		// A required nullable field can legally be null on the wire; its
		// checks run only when a value is present.
		diags = append(diags, ir.Diagnostic{
			Severity: ir.SeverityWarning,
			Code:     "GO_REQUIRED_NULLABLE_PRESENT_ONLY",
			Message:  fmt.Sprintf("field %s is required but nullable; validated only when present", prop.Name),
			Path:     ep.FullName + ".input." + prop.Name,
		})
	}

	switch {
	case optional || nullable:
		if len(checks) == 0 {
			return diags, nil
		}
		if pointerLowered(core) {
			fmt.Fprintf(out, "\tif %s != nil {\n", expr)
			fmt.Fprintf(out, "\t\tval := *%s\n", expr)
		} else {
			// Slices and maps stay nil-able without a pointer wrapper.
			fmt.Fprintf(out, "\tif %s != nil {\n", expr)
			fmt.Fprintf(out, "\t\tval := %s\n", expr)
		}
		writeChecks(out, checks, "\t\t")
		out.WriteString("\t}\n")

	case prop.Required && stringLike(core):
		fmt.Fprintf(out, "\tif %s == \"\" {\n", expr)
		fmt.Fprintf(out, "\t\terrs = append(errs, %s)\n", strconv.Quote(requiredMsg))
		if len(checks) > 0 {
			out.WriteString("\t} else {\n")
			fmt.Fprintf(out, "\t\tval := %s\n", expr)
			writeChecks(out, checks, "\t\t")
		}
		out.WriteString("\t}\n")

	case prop.Required && core.Kind == ir.KindArray:
		fmt.Fprintf(out, "\tif %s == nil {\n", expr)
		fmt.Fprintf(out, "\t\terrs = append(errs, %s)\n", strconv.Quote(requiredMsg))
		if len(checks) > 0 {
			out.WriteString("\t} else {\n")
			fmt.Fprintf(out, "\t\tval := %s\n", expr)
			writeChecks(out, checks, "\t\t")
		}
		out.WriteString("\t}\n")

	case prop.Required && core.Kind == ir.KindDate:
		fmt.Fprintf(out, "\tif %s.IsZero() {\n", expr)
		fmt.Fprintf(out, "\t\terrs = append(errs, %s)\n", strconv.Quote(requiredMsg))
		out.WriteString("\t}\n")

	default:
		// Numbers, booleans and composite kinds have no distinguishable
		// zero value; rule checks run unconditionally.
		if len(checks) == 0 {
			return diags, nil
		}
		out.WriteString("\t{\n")
		fmt.Fprintf(out, "\t\tval := %s\n", expr)
		writeChecks(out, checks, "\t\t")
		out.WriteString("\t}\n")
	}

	return diags, nil
}

type fieldCheck struct {
	cond string
	msg  string
}

func writeChecks(out *strings.Builder, checks []fieldCheck, indent string) {
	for _, c := range checks {
		fmt.Fprintf(out, "%sif %s {\n", indent, c.cond)
		fmt.Fprintf(out, "%s\terrs = append(errs, %s)\n", indent, strconv.Quote(c.msg))
		fmt.Fprintf(out, "%s}\n", indent)
	}
}

// unwrap peels optional and nullable wrappers off a reference.
func unwrap(ref *ir.TypeReference) (core *ir.TypeReference, optional, nullable bool) {
	core = ref
	for core.Kind == ir.KindOptional || core.Kind == ir.KindNullable {
		if core.Kind == ir.KindOptional {
			optional = true
		} else {
			nullable = true
		}
		core = core.Element
	}
	return core, optional, nullable
}

func baseOf(core *ir.TypeReference) ir.BaseType {
	switch core.Kind {
	case ir.KindPrimitive:
		return core.Base
	case ir.KindDate:
		return ir.BaseDate
	}
	return ir.BaseUnknown
}

func stringLike(core *ir.TypeReference) bool {
	if core.Kind == ir.KindEnum {
		return allStringValues(core.EnumValues)
	}
	if core.Kind != ir.KindPrimitive {
		return false
	}
	switch core.Base {
	case ir.BaseString, ir.BaseUUID, ir.BaseEmail:
		return true
	}
	return false
}

func allStringValues(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return len(values) > 0
}

// pointerLowered mirrors the type mapper's pointer decision: wrapped
// kinds that already lower to a nil-able representation get no pointer.
func pointerLowered(core *ir.TypeReference) bool {
	switch core.Kind {
	case ir.KindArray, ir.KindRecord:
		return false
	case ir.KindPrimitive:
		return core.Base != ir.BaseAny && core.Base != ir.BaseUnknown
	case ir.KindLiteral:
		return !core.LiteralNull
	}
	return true
}
