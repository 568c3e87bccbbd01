package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
)

// typeHandlers builds the TypeScript lowering table over all 11 IR kinds.
// TypeScript needs no helper runtime: enums become literal unions, tuples
// become tuple types, and optional is a field-level marker the interface
// emitter applies.
func typeHandlers() map[ir.TypeKind]mapping.TypeHandler {
	return map[ir.TypeKind]mapping.TypeHandler{
		ir.KindPrimitive: tsPrimitive,
		ir.KindDate:      tsDate,
		ir.KindObject:    tsObject,
		ir.KindArray:     tsArray,
		ir.KindRecord:    tsRecord,
		ir.KindOptional:  tsOptional,
		ir.KindNullable:  tsNullable,
		ir.KindEnum:      tsEnum,
		ir.KindLiteral:   tsLiteral,
		ir.KindUnion:     tsUnion,
		ir.KindTuple:     tsTuple,
	}
}

func tsPrimitive(ref *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	switch ref.Base {
	case ir.BaseString, ir.BaseUUID, ir.BaseEmail, ir.BaseDate:
		return mapping.TypeResult{Code: "string"}, nil
	case ir.BaseNumber, ir.BaseInteger:
		return mapping.TypeResult{Code: "number"}, nil
	case ir.BaseBoolean:
		return mapping.TypeResult{Code: "boolean"}, nil
	case ir.BaseAny, ir.BaseUnknown:
		return mapping.TypeResult{Code: "unknown"}, nil
	}
	return mapping.TypeResult{}, fmt.Errorf("unknown primitive base %q", ref.Base)
}

// Dates travel as ISO strings over JSON; the client does not revive them.
func tsDate(_ *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	return mapping.TypeResult{Code: "string"}, nil
}

func tsObject(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	if ref.Named() {
		return mapping.TypeResult{Code: ref.Name}, nil
	}
	ctx.Mapper.Warn(ir.Diagnostic{
		Code:    "TS_ANONYMOUS_OBJECT",
		Message: "anonymous object reached the TypeScript backend; lowered to Record<string, unknown>",
		Path:    ctx.Path,
	})
	return mapping.TypeResult{Code: "Record<string, unknown>"}, nil
}

func tsArray(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, &mapping.TypeContext{Path: ctx.Path + "[]"})
	if err != nil {
		return mapping.TypeResult{}, err
	}
	code := elem.Code
	if strings.Contains(code, "|") {
		code = "(" + code + ")"
	}
	return mapping.TypeResult{Code: code + "[]"}, nil
}

func tsRecord(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, &mapping.TypeContext{Path: ctx.Path + ".{}"})
	if err != nil {
		return mapping.TypeResult{}, err
	}
	return mapping.TypeResult{Code: "Record<string, " + elem.Code + ">"}, nil
}

// Optionality is expressed with `?` on the field, not on the type.
func tsOptional(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	return ctx.Mapper.Map(ref.Element, ctx)
}

func tsNullable(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, ctx)
	if err != nil {
		return mapping.TypeResult{}, err
	}
	if strings.HasSuffix(elem.Code, " | null") {
		return elem, nil
	}
	return mapping.TypeResult{Code: elem.Code + " | null"}, nil
}

func tsEnum(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	inline := enumLiteralUnion(ref.EnumValues)
	if !ref.Named() {
		return mapping.TypeResult{Code: inline}, nil
	}
	return mapping.TypeResult{
		Code: ref.Name,
		Utilities: []mapping.GeneratedUtility{{
			ID:       "enum:" + ref.Name,
			Code:     fmt.Sprintf("export type %s = %s;\n", ref.Name, inline),
			Priority: prioAlias,
		}},
	}, nil
}

func tsLiteral(ref *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	if ref.LiteralNull {
		return mapping.TypeResult{Code: "null"}, nil
	}
	return mapping.TypeResult{Code: literalCode(ref.LiteralValue)}, nil
}

func tsUnion(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	var parts []string
	for i, v := range ref.Variants {
		mapped, err := ctx.Mapper.Map(v, &mapping.TypeContext{Path: fmt.Sprintf("%s|%d", ctx.Path, i)})
		if err != nil {
			return mapping.TypeResult{}, err
		}
		parts = append(parts, mapped.Code)
	}
	inline := strings.Join(parts, " | ")
	if !ref.Named() {
		return mapping.TypeResult{Code: inline}, nil
	}
	return mapping.TypeResult{
		Code: ref.Name,
		Utilities: []mapping.GeneratedUtility{{
			ID:       "union:" + ref.Name,
			Code:     fmt.Sprintf("export type %s = %s;\n", ref.Name, inline),
			Priority: prioAlias,
		}},
	}, nil
}

func tsTuple(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	var parts []string
	for i, v := range ref.Variants {
		mapped, err := ctx.Mapper.Map(v, &mapping.TypeContext{Path: fmt.Sprintf("%s[%d]", ctx.Path, i)})
		if err != nil {
			return mapping.TypeResult{}, err
		}
		parts = append(parts, mapped.Code)
	}
	inline := "[" + strings.Join(parts, ", ") + "]"
	if !ref.Named() {
		return mapping.TypeResult{Code: inline}, nil
	}
	return mapping.TypeResult{
		Code: ref.Name,
		Utilities: []mapping.GeneratedUtility{{
			ID:       "tuple:" + ref.Name,
			Code:     fmt.Sprintf("export type %s = %s;\n", ref.Name, inline),
			Priority: prioAlias,
		}},
	}, nil
}

func enumLiteralUnion(values []any) string {
	var parts []string
	for _, v := range values {
		parts = append(parts, literalCode(v))
	}
	return strings.Join(parts, " | ")
}

func literalCode(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "null"
	}
	return "unknown"
}
