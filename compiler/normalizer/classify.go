package normalizer

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// classify maps one CUE schema node onto exactly one of the 11 IR kinds.
// Precedence: nullable (disjunction with null) -> object -> array ->
// union -> enum -> literal -> record -> tuple -> date -> primitive.
// Optionality is a field-level property and is handled by classifyField.
func (n *Normalizer) classify(v cue.Value, path string) (*ir.TypeReference, error) {
	if op, operands := v.Expr(); op == cue.OrOp && len(operands) > 1 {
		return n.classifyDisjunction(v, operands, path)
	}

	switch {
	case v.IncompleteKind() == cue.NullKind:
		return &ir.TypeReference{Kind: ir.KindLiteral, LiteralNull: true}, nil

	case v.IncompleteKind() == cue.StructKind:
		return n.classifyStruct(v, path)

	case v.IncompleteKind() == cue.ListKind:
		return n.classifyList(v, path)

	case v.IsConcrete() && isScalarKind(v.Kind()):
		lit, err := scalarValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: literal: %w", path, err)
		}
		return &ir.TypeReference{Kind: ir.KindLiteral, LiteralValue: lit}, nil

	default:
		return n.classifyScalarType(v, path)
	}
}

func (n *Normalizer) classifyDisjunction(parent cue.Value, operands []cue.Value, path string) (*ir.TypeReference, error) {
	var nonNull []cue.Value
	hadNull := false
	for _, o := range operands {
		if o.IncompleteKind() == cue.NullKind {
			hadNull = true
			continue
		}
		nonNull = append(nonNull, o)
	}

	var inner *ir.TypeReference
	switch {
	case len(nonNull) == 0:
		inner = &ir.TypeReference{Kind: ir.KindLiteral, LiteralNull: true}

	case len(nonNull) == 1:
		ref, err := n.classify(nonNull[0], path)
		if err != nil {
			return nil, err
		}
		// A field attribute sits on the whole disjunction, not on its
		// operands; re-read @format so `string | null @format("date-time")`
		// still lowers to a nullable date.
		if ref.Kind == ir.KindPrimitive && ref.Base == ir.BaseString {
			if formatted := stringFormatRef(attributeContents(parent, "format")); formatted != nil {
				ref = formatted
			}
		}
		inner = ref

	case allConcreteScalars(nonNull):
		values := make([]any, 0, len(nonNull))
		for _, o := range nonNull {
			val, err := scalarValue(o)
			if err != nil {
				return nil, fmt.Errorf("%s: enum value: %w", path, err)
			}
			values = append(values, val)
		}
		inner = &ir.TypeReference{Kind: ir.KindEnum, EnumValues: values}

	default:
		variants := make([]*ir.TypeReference, 0, len(nonNull))
		for i, o := range nonNull {
			ref, err := n.classify(o, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			variants = append(variants, ref)
		}
		inner = &ir.TypeReference{Kind: ir.KindUnion, Variants: variants}
	}

	if hadNull && inner.Kind != ir.KindLiteral {
		return &ir.TypeReference{Kind: ir.KindNullable, Element: inner}, nil
	}
	return inner, nil
}

func (n *Normalizer) classifyStruct(v cue.Value, path string) (*ir.TypeReference, error) {
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return nil, fmt.Errorf("%s: iterate fields: %w", path, err)
	}

	var props []ir.Property
	for iter.Next() {
		name := selectorName(iter.Selector())
		prop, err := n.classifyField(name, iter.Value(), iter.IsOptional(), path)
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}

	if len(props) == 0 {
		// A struct with no declared fields but an open string pattern is a
		// homogeneous string-keyed map.
		if elem := v.LookupPath(cue.MakePath(cue.AnyString)); elem.Exists() {
			ref, err := n.classify(elem, path+".[string]")
			if err != nil {
				return nil, err
			}
			return &ir.TypeReference{Kind: ir.KindRecord, Element: ref}, nil
		}
	}

	return &ir.TypeReference{Kind: ir.KindObject, Properties: props}, nil
}

func (n *Normalizer) classifyField(name string, v cue.Value, optional bool, parent string) (ir.Property, error) {
	path := parent + "." + name

	ref, err := n.classify(v, path)
	if err != nil {
		return ir.Property{}, err
	}

	rules, err := n.extractValidation(v, ref, path)
	if err != nil {
		return ir.Property{}, err
	}

	// Required is recomputed here: a field is required exactly when it is
	// not wrapped in the optional marker.
	if optional {
		ref = &ir.TypeReference{Kind: ir.KindOptional, Element: ref}
	}

	return ir.Property{
		Name:       name,
		Type:       ref,
		Required:   !optional,
		Validation: rules,
		Source:     path,
	}, nil
}

func (n *Normalizer) classifyList(v cue.Value, path string) (*ir.TypeReference, error) {
	// An open list exposes its element constraint under the AnyIndex
	// pattern; a closed fixed-length list does not and is a tuple.
	if elem := v.LookupPath(cue.MakePath(cue.AnyIndex)); elem.Exists() {
		ref, err := n.classify(elem, path+".[]")
		if err != nil {
			return nil, err
		}
		return &ir.TypeReference{Kind: ir.KindArray, Element: ref}, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, fmt.Errorf("%s: iterate tuple slots: %w", path, err)
	}
	var variants []*ir.TypeReference
	for i := 0; iter.Next(); i++ {
		ref, err := n.classify(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		variants = append(variants, ref)
	}
	return &ir.TypeReference{Kind: ir.KindTuple, Variants: variants}, nil
}

func (n *Normalizer) classifyScalarType(v cue.Value, path string) (*ir.TypeReference, error) {
	format := attributeContents(v, "format")

	switch {
	// TopKind overlaps every kind mask; it must be matched exactly first.
	case v.IncompleteKind() == cue.TopKind:
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseAny}, nil

	case v.IncompleteKind()&cue.StringKind != 0:
		if ref := stringFormatRef(format); ref != nil {
			return ref, nil
		}
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseString}, nil

	case v.IncompleteKind() == cue.IntKind:
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseInteger}, nil

	case v.IncompleteKind()&cue.NumberKind != 0:
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseNumber}, nil

	case v.IncompleteKind() == cue.BoolKind:
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseBoolean}, nil

	default:
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseUnknown}, nil
	}
}

// stringFormatRef lowers a recognized @format value on a string schema to
// its dedicated IR shape, or returns nil for plain strings.
func stringFormatRef(format string) *ir.TypeReference {
	switch format {
	case "date", "date-time":
		return &ir.TypeReference{Kind: ir.KindDate}
	case "uuid":
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseUUID}
	case "email":
		return &ir.TypeReference{Kind: ir.KindPrimitive, Base: ir.BaseEmail}
	}
	return nil
}

func isScalarKind(k cue.Kind) bool {
	switch k {
	case cue.StringKind, cue.IntKind, cue.FloatKind, cue.NumberKind, cue.BoolKind:
		return true
	}
	return false
}

func allConcreteScalars(values []cue.Value) bool {
	for _, v := range values {
		if !v.IsConcrete() || !isScalarKind(v.Kind()) {
			return false
		}
	}
	return true
}

func scalarValue(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	}
	return nil, fmt.Errorf("unsupported scalar kind %v", v.Kind())
}

// attributeContents returns the body of @name(...), unquoting a single
// string literal: @validate("minLength=3") and @validate(minLength=3)
// read the same.
func attributeContents(v cue.Value, name string) string {
	attr := v.Attribute(name)
	if attr.Err() != nil {
		return ""
	}
	contents := attr.Contents()
	if len(contents) >= 2 && contents[0] == '"' && contents[len(contents)-1] == '"' {
		if unquoted, err := strconv.Unquote(contents); err == nil {
			return unquoted
		}
	}
	return contents
}
