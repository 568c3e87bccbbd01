package golang

import (
	"fmt"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
)

// Utility priorities: higher emits first. Values only order output for
// reproducible diffs; Go compilation does not care.
const (
	prioHelper = 100
	prioEnum   = 60
	prioUnion  = 50
	prioTuple  = 50
)

func enumUtility(ref *ir.TypeReference) mapping.GeneratedUtility {
	var b strings.Builder

	allStrings := true
	for _, v := range ref.EnumValues {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}

	if allStrings {
		fmt.Fprintf(&b, "// %s enumerates the allowed values of this field.\n", ref.Name)
		fmt.Fprintf(&b, "type %s string\n\n", ref.Name)
		b.WriteString("const (\n")
		for _, v := range ref.EnumValues {
			fmt.Fprintf(&b, "\t%s%s %s = %q\n", ref.Name, enumValueName(v), ref.Name, v)
		}
		b.WriteString(")\n\n")
		fmt.Fprintf(&b, "func (v %s) IsValid() bool {\n\tswitch v {\n\tcase ", ref.Name)
		for i, v := range ref.EnumValues {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s%s", ref.Name, enumValueName(v))
		}
		b.WriteString(":\n\t\treturn true\n\t}\n\treturn false\n}\n")
		return mapping.GeneratedUtility{
			ID:          "enum:" + ref.Name,
			Code:        b.String(),
			IncludeOnce: true,
			Priority:    prioEnum,
		}
	}

	// Heterogeneous or numeric member sets cannot be a Go const block of
	// one underlying type; keep the raw value and validate by lookup.
	fmt.Fprintf(&b, "// %s holds one of a fixed literal set.\n", ref.Name)
	fmt.Fprintf(&b, "type %s = any\n\n", ref.Name)
	fmt.Fprintf(&b, "var %sValues = []any{", ref.Name)
	for i, v := range ref.EnumValues {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%#v", v)
	}
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "func IsValid%s(v any) bool {\n\tfor _, allowed := range %sValues {\n\t\tif v == allowed {\n\t\t\treturn true\n\t\t}\n\t}\n\treturn false\n}\n", ref.Name, ref.Name)
	return mapping.GeneratedUtility{
		ID:          "enum:" + ref.Name,
		Code:        b.String(),
		IncludeOnce: true,
		Priority:    prioEnum,
	}
}

func unionUtility(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.GeneratedUtility, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s holds exactly one of its variants in raw form.\n", ref.Name)
	fmt.Fprintf(&b, "type %s struct {\n\tRaw json.RawMessage\n}\n\n", ref.Name)
	fmt.Fprintf(&b, "func (u %s) MarshalJSON() ([]byte, error) {\n\tif u.Raw == nil {\n\t\treturn []byte(\"null\"), nil\n\t}\n\treturn []byte(u.Raw), nil\n}\n\n", ref.Name)
	fmt.Fprintf(&b, "func (u *%s) UnmarshalJSON(b []byte) error {\n\tu.Raw = append(u.Raw[:0], b...)\n\treturn nil\n}\n", ref.Name)

	nonNull, _ := mapping.SplitNullVariants(ref)
	for i, v := range nonNull {
		mapped, err := ctx.Mapper.Map(v, &mapping.TypeContext{Path: fmt.Sprintf("%s[%d]", ctx.Path, i)})
		if err != nil {
			return mapping.GeneratedUtility{}, err
		}
		fmt.Fprintf(&b, "\n// As%d decodes the payload as variant %d (%s).\n", i, i, mapped.Code)
		fmt.Fprintf(&b, "func (u %s) As%d() (%s, error) {\n\tvar out %s\n\terr := json.Unmarshal(u.Raw, &out)\n\treturn out, err\n}\n", ref.Name, i, mapped.Code, mapped.Code)
	}

	return mapping.GeneratedUtility{
		ID:          "union:" + ref.Name,
		Code:        b.String(),
		Imports:     []string{"encoding/json"},
		IncludeOnce: true,
		Priority:    prioUnion,
	}, nil
}

func tupleUtility(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.GeneratedUtility, error) {
	codes := make([]string, len(ref.Variants))
	imports := []string{"encoding/json", "fmt"}
	for i, v := range ref.Variants {
		mapped, err := ctx.Mapper.Map(v, &mapping.TypeContext{Path: fmt.Sprintf("%s[%d]", ctx.Path, i)})
		if err != nil {
			return mapping.GeneratedUtility{}, err
		}
		codes[i] = mapped.Code
		imports = append(imports, mapped.Imports...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s is a fixed-length heterogeneous sequence encoded as a JSON array.\n", ref.Name)
	fmt.Fprintf(&b, "type %s struct {\n", ref.Name)
	for i, code := range codes {
		fmt.Fprintf(&b, "\tV%d %s\n", i, code)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (t %s) MarshalJSON() ([]byte, error) {\n\treturn json.Marshal([]any{", ref.Name)
	for i := range codes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "t.V%d", i)
	}
	b.WriteString("})\n}\n\n")

	fmt.Fprintf(&b, "func (t *%s) UnmarshalJSON(b []byte) error {\n", ref.Name)
	b.WriteString("\tvar raw []json.RawMessage\n\tif err := json.Unmarshal(b, &raw); err != nil {\n\t\treturn err\n\t}\n")
	fmt.Fprintf(&b, "\tif len(raw) != %d {\n\t\treturn fmt.Errorf(\"%s: expected %d elements, got %%d\", len(raw))\n\t}\n", len(codes), ref.Name, len(codes))
	for i := range codes {
		fmt.Fprintf(&b, "\tif err := json.Unmarshal(raw[%d], &t.V%d); err != nil {\n\t\treturn err\n\t}\n", i, i)
	}
	b.WriteString("\treturn nil\n}\n")

	return mapping.GeneratedUtility{
		ID:          "tuple:" + ref.Name,
		Code:        b.String(),
		Imports:     imports,
		IncludeOnce: true,
		Priority:    prioTuple,
	}, nil
}
