package golang

import (
	"fmt"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// typeHandlers builds the Go lowering table over all 11 IR kinds.
//
// Absence model: both optional and nullable lower to a pointer. Go cannot
// distinguish an absent field from an explicit null through one pointer,
// so the nullable handler records that conflation as a warning.
func typeHandlers() map[ir.TypeKind]mapping.TypeHandler {
	return map[ir.TypeKind]mapping.TypeHandler{
		ir.KindPrimitive: mapPrimitive,
		ir.KindDate:      mapDate,
		ir.KindObject:    mapObject,
		ir.KindArray:     mapArray,
		ir.KindRecord:    mapRecord,
		ir.KindOptional:  mapOptional,
		ir.KindNullable:  mapNullable,
		ir.KindEnum:      mapEnum,
		ir.KindLiteral:   mapLiteral,
		ir.KindUnion:     mapUnion,
		ir.KindTuple:     mapTuple,
	}
}

func mapPrimitive(ref *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	switch ref.Base {
	case ir.BaseString, ir.BaseUUID, ir.BaseEmail:
		return mapping.TypeResult{Code: "string"}, nil
	case ir.BaseNumber:
		return mapping.TypeResult{Code: "float64"}, nil
	case ir.BaseInteger:
		return mapping.TypeResult{Code: "int64"}, nil
	case ir.BaseBoolean:
		return mapping.TypeResult{Code: "bool"}, nil
	case ir.BaseDate:
		return mapping.TypeResult{Code: "time.Time", Imports: []string{"time"}}, nil
	case ir.BaseAny, ir.BaseUnknown:
		return mapping.TypeResult{Code: "any"}, nil
	}
	return mapping.TypeResult{}, fmt.Errorf("unknown primitive base %q", ref.Base)
}

func mapDate(_ *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	return mapping.TypeResult{Code: "time.Time", Imports: []string{"time"}}, nil
}

func mapObject(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	if ref.Named() {
		return mapping.TypeResult{Code: ref.Name}, nil
	}
	// Post-collection every object is named; an anonymous one here means
	// the collector did not run over this contract instance.
	ctx.Mapper.Warn(ir.Diagnostic{
		Code:    "GO_ANONYMOUS_OBJECT",
		Message: "anonymous object reached the Go backend; lowered to map[string]any",
		Path:    ctx.Path,
	})
	return mapping.TypeResult{Code: "map[string]any"}, nil
}

func mapArray(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, &mapping.TypeContext{Path: ctx.Path + "[]"})
	if err != nil {
		return mapping.TypeResult{}, err
	}
	return mapping.TypeResult{Code: "[]" + elem.Code, Imports: elem.Imports}, nil
}

func mapRecord(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, &mapping.TypeContext{Path: ctx.Path + ".{}"})
	if err != nil {
		return mapping.TypeResult{}, err
	}
	return mapping.TypeResult{Code: "map[string]" + elem.Code, Imports: elem.Imports}, nil
}

func mapOptional(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	return mapPointerWrapper(ref, ctx)
}

func mapNullable(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	res, err := mapPointerWrapper(ref, ctx)
	if err != nil {
		return mapping.TypeResult{}, err
	}
	ctx.Mapper.Warn(ir.Diagnostic{
		Code:    "GO_NULL_ABSENT_CONFLATED",
		Message: "Go pointer representation cannot distinguish an absent field from an explicit null",
		Path:    ctx.Path,
	})
	return res, nil
}

func mapPointerWrapper(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	elem, err := ctx.Mapper.Map(ref.Element, &mapping.TypeContext{Path: ctx.Path})
	if err != nil {
		return mapping.TypeResult{}, err
	}
	// optional+nullable stacks collapse into a single pointer; **T has no
	// extra meaning on the wire.
	if strings.HasPrefix(elem.Code, "*") || strings.HasPrefix(elem.Code, "[]") || strings.HasPrefix(elem.Code, "map[") || elem.Code == "any" {
		return elem, nil
	}
	return mapping.TypeResult{Code: "*" + elem.Code, Imports: elem.Imports}, nil
}

func mapEnum(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	if !ref.Named() {
		ctx.Mapper.Warn(ir.Diagnostic{
			Code:    "GO_ANONYMOUS_ENUM",
			Message: "anonymous enum reached the Go backend; lowered to string",
			Path:    ctx.Path,
		})
		return mapping.TypeResult{Code: "string"}, nil
	}
	return mapping.TypeResult{
		Code:      ref.Name,
		Utilities: []mapping.GeneratedUtility{enumUtility(ref)},
	}, nil
}

func mapLiteral(ref *ir.TypeReference, _ *mapping.TypeContext) (mapping.TypeResult, error) {
	if ref.LiteralNull {
		return mapping.TypeResult{Code: "any"}, nil
	}
	switch ref.LiteralValue.(type) {
	case string:
		return mapping.TypeResult{Code: "string"}, nil
	case bool:
		return mapping.TypeResult{Code: "bool"}, nil
	case int64:
		return mapping.TypeResult{Code: "int64"}, nil
	case float64:
		return mapping.TypeResult{Code: "float64"}, nil
	}
	return mapping.TypeResult{}, fmt.Errorf("literal value %v has unsupported type %T", ref.LiteralValue, ref.LiteralValue)
}

func mapUnion(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	res, nullable, ok, err := mapping.CollapseUnion(ref, ctx, ctx.Mapper)
	if err != nil {
		return mapping.TypeResult{}, err
	}
	if ok {
		if nullable && !strings.HasPrefix(res.Code, "*") && !strings.HasPrefix(res.Code, "[]") && !strings.HasPrefix(res.Code, "map[") && res.Code != "any" {
			res.Code = "*" + res.Code
		}
		return res, nil
	}

	if !ref.Named() {
		ctx.Mapper.Warn(ir.Diagnostic{
			Code:    "GO_UNION_OPAQUE",
			Message: "union has no named wrapper; lowered to json.RawMessage",
			Path:    ctx.Path,
		})
		return mapping.TypeResult{Code: "json.RawMessage", Imports: []string{"encoding/json"}}, nil
	}

	util, err := unionUtility(ref, ctx)
	if err != nil {
		return mapping.TypeResult{}, err
	}
	return mapping.TypeResult{
		Code:      ref.Name,
		Imports:   []string{"encoding/json"},
		Utilities: []mapping.GeneratedUtility{util},
	}, nil
}

func mapTuple(ref *ir.TypeReference, ctx *mapping.TypeContext) (mapping.TypeResult, error) {
	if !ref.Named() {
		ctx.Mapper.Warn(ir.Diagnostic{
			Code:    "GO_TUPLE_OPAQUE",
			Message: "tuple has no named wrapper; lowered to []any",
			Path:    ctx.Path,
		})
		return mapping.TypeResult{Code: "[]any"}, nil
	}
	util, err := tupleUtility(ref, ctx)
	if err != nil {
		return mapping.TypeResult{}, err
	}
	return mapping.TypeResult{
		Code:      ref.Name,
		Imports:   []string{"encoding/json"},
		Utilities: []mapping.GeneratedUtility{util},
	}, nil
}

// enumValueName turns an enum member into an exported constant suffix.
func enumValueName(v any) string {
	switch x := v.(type) {
	case string:
		return names.ExportName(x)
	case int64:
		return fmt.Sprintf("N%d", x)
	case float64:
		s := strings.ReplaceAll(fmt.Sprintf("%g", x), ".", "_")
		s = strings.ReplaceAll(s, "-", "Neg")
		return "N" + s
	}
	return names.ExportName(fmt.Sprintf("%v", v))
}
