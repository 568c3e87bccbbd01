package golang

import (
	"fmt"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// emitTypes renders one source file holding a struct per named object
// type plus every helper type (enums, union wrappers, tuple codecs) the
// mapping pass collected, in deterministic order.
func (b *Backend) emitTypes(contract *ir.ContractDefinition, collected []ir.CollectedType, pkg string) (string, error) {
	named := namedTypes(contract, collected)

	var body strings.Builder
	var imports []string

	for _, nt := range named {
		if nt.Ref.Kind != ir.KindObject {
			// Non-object named types materialize through the utility
			// collector when mapped.
			if _, err := b.types.Map(nt.Ref, &mapping.TypeContext{Path: nt.Source}); err != nil {
				return "", err
			}
			continue
		}

		fmt.Fprintf(&body, "type %s struct {\n", nt.Name)
		for _, prop := range nt.Ref.Properties {
			mapped, err := b.types.Map(prop.Type, &mapping.TypeContext{Path: nt.Source + "." + prop.Name})
			if err != nil {
				return "", err
			}
			imports = append(imports, mapped.Imports...)
			tag := prop.Name
			if !prop.Required {
				tag += ",omitempty"
			}
			fmt.Fprintf(&body, "\t%s %s `json:%q`\n", names.ExportName(prop.Name), mapped.Code, tag)
		}
		body.WriteString("}\n\n")
	}

	for _, u := range b.types.Utilities.GetAll() {
		body.WriteString(u.Code)
		body.WriteString("\n")
	}
	imports = append(imports, b.types.Utilities.Imports()...)

	return assembleFile(pkg, imports, body.String()), nil
}

// namedTypes merges declared top-level types with collector assignments,
// deduplicated by name, preserving declaration-then-assignment order.
func namedTypes(contract *ir.ContractDefinition, collected []ir.CollectedType) []ir.CollectedType {
	seen := make(map[string]bool)
	var out []ir.CollectedType
	for _, td := range contract.Types {
		if seen[td.Name] {
			continue
		}
		seen[td.Name] = true
		out = append(out, ir.CollectedType{Name: td.Name, Ref: td.Ref, Source: td.Source})
	}
	for _, ct := range collected {
		if seen[ct.Name] {
			continue
		}
		seen[ct.Name] = true
		out = append(out, ct)
	}
	return out
}

// assembleFile joins header, imports and body; goimports later prunes
// anything unused and normalizes grouping.
func assembleFile(pkg string, imports []string, body string) string {
	var f strings.Builder
	f.WriteString("// Code generated by xrpcgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&f, "package %s\n\n", pkg)

	if len(imports) > 0 {
		seen := make(map[string]bool)
		f.WriteString("import (\n")
		for _, imp := range imports {
			if seen[imp] {
				continue
			}
			seen[imp] = true
			fmt.Fprintf(&f, "\t%q\n", imp)
		}
		f.WriteString(")\n\n")
	}

	f.WriteString(body)
	return f.String()
}
