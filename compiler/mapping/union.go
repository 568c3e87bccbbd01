package mapping

import "github.com/mwesox/xrpc-sub000/compiler/ir"

// SplitNullVariants partitions a union's variants into non-null variants
// and a flag for a literal-null member. Backends use it for the
// one-variant-plus-null collapse into their nullable representation.
func SplitNullVariants(ref *ir.TypeReference) (nonNull []*ir.TypeReference, hasNull bool) {
	for _, v := range ref.Variants {
		if v != nil && v.Kind == ir.KindLiteral && v.LiteralNull {
			hasNull = true
			continue
		}
		nonNull = append(nonNull, v)
	}
	return nonNull, hasNull
}

// CollapseUnion applies the structural simplifications every backend
// attempts before reaching for a generic container:
//
//  1. a union whose variants all lower to the same mapped type collapses
//     to that type;
//  2. a union of exactly one non-null variant plus a null literal
//     collapses to the single variant, reported with nullable=true so the
//     backend can apply its nullable representation.
//
// ok=false means neither simplification applies.
func CollapseUnion(ref *ir.TypeReference, ctx *TypeContext, m *TypeMapper) (res TypeResult, nullable bool, ok bool, err error) {
	nonNull, hasNull := SplitNullVariants(ref)

	if hasNull && len(nonNull) == 1 {
		res, err = m.Map(nonNull[0], &TypeContext{Path: ctx.Path})
		if err != nil {
			return TypeResult{}, false, false, err
		}
		return res, true, true, nil
	}

	if len(nonNull) > 1 && !hasNull {
		first, err := m.Map(nonNull[0], &TypeContext{Path: ctx.Path})
		if err != nil {
			return TypeResult{}, false, false, err
		}
		same := true
		for _, v := range nonNull[1:] {
			mapped, err := m.Map(v, &TypeContext{Path: ctx.Path})
			if err != nil {
				return TypeResult{}, false, false, err
			}
			if mapped.Code != first.Code {
				same = false
				break
			}
		}
		if same {
			return first, false, true, nil
		}
	}

	return TypeResult{}, false, false, nil
}
