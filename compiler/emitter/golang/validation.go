package golang

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
)

// validationHandlers builds the Go fragment table over all 13 rules.
// Every condition is written against a local `val` holding the field's
// (already dereferenced) value; the validate emitter provides the
// presence guard around the fragment.
func validationHandlers() map[ir.ValidationKind]mapping.ValidationHandler {
	return map[ir.ValidationKind]mapping.ValidationHandler{
		ir.RuleMinLength: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(int)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("utf8.RuneCountInString(val) < %d", n),
				Message:   fmt.Sprintf("%s must be at least %d characters", ctx.FieldName, n),
				Imports:   []string{"unicode/utf8"},
			}, nil
		},
		ir.RuleMaxLength: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(int)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("utf8.RuneCountInString(val) > %d", n),
				Message:   fmt.Sprintf("%s must be at most %d characters", ctx.FieldName, n),
				Imports:   []string{"unicode/utf8"},
			}, nil
		},
		ir.RuleEmail: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			return mapping.ValidationResult{
				Condition: "!emailPattern.MatchString(val)",
				Message:   fmt.Sprintf("%s must be a valid email address", ctx.FieldName),
				Utilities: []mapping.GeneratedUtility{{
					ID:          "helper:email-pattern",
					Code:        "var emailPattern = regexp.MustCompile(`^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$`)\n",
					Imports:     []string{"regexp"},
					IncludeOnce: true,
					Priority:    prioHelper,
				}},
			}, nil
		},
		ir.RuleURL: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			return mapping.ValidationResult{
				Condition: "!isValidURL(val)",
				Message:   fmt.Sprintf("%s must be a valid URL", ctx.FieldName),
				Utilities: []mapping.GeneratedUtility{{
					ID:          "helper:is-valid-url",
					Code:        "func isValidURL(s string) bool {\n\tu, err := url.Parse(s)\n\treturn err == nil && u.Scheme != \"\" && u.Host != \"\"\n}\n",
					Imports:     []string{"net/url"},
					IncludeOnce: true,
					Priority:    prioHelper,
				}},
			}, nil
		},
		ir.RuleUUID: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			return mapping.ValidationResult{
				Condition: "uuid.Validate(val) != nil",
				Message:   fmt.Sprintf("%s must be a valid UUID", ctx.FieldName),
				Imports:   []string{"github.com/google/uuid"},
			}, nil
		},
		ir.RuleRegex: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			pattern := ctx.Value.(string)
			name := patternVarName(pattern)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("!%s.MatchString(val)", name),
				Message:   fmt.Sprintf("%s has an invalid format", ctx.FieldName),
				Utilities: []mapping.GeneratedUtility{{
					ID:          "helper:regex:" + pattern,
					Code:        fmt.Sprintf("var %s = regexp.MustCompile(%s)\n", name, backquote(pattern)),
					Imports:     []string{"regexp"},
					IncludeOnce: true,
					Priority:    prioHelper,
				}},
			}, nil
		},
		ir.RuleMin: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(float64)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("val < %s", formatNumber(n, ctx.BaseType)),
				Message:   fmt.Sprintf("%s must be at least %s", ctx.FieldName, formatNumber(n, ctx.BaseType)),
			}, nil
		},
		ir.RuleMax: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(float64)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("val > %s", formatNumber(n, ctx.BaseType)),
				Message:   fmt.Sprintf("%s must be at most %s", ctx.FieldName, formatNumber(n, ctx.BaseType)),
			}, nil
		},
		ir.RuleInt: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			if ctx.BaseType == ir.BaseInteger {
				// Already lowered to int64; nothing to check at runtime.
				return mapping.ValidationResult{}, nil
			}
			return mapping.ValidationResult{
				Condition: "val != math.Trunc(val)",
				Message:   fmt.Sprintf("%s must be an integer", ctx.FieldName),
				Imports:   []string{"math"},
			}, nil
		},
		ir.RulePositive: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			return mapping.ValidationResult{
				Condition: "val <= 0",
				Message:   fmt.Sprintf("%s must be positive", ctx.FieldName),
			}, nil
		},
		ir.RuleNegative: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			return mapping.ValidationResult{
				Condition: "val >= 0",
				Message:   fmt.Sprintf("%s must be negative", ctx.FieldName),
			}, nil
		},
		ir.RuleMinItems: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(int)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("len(val) < %d", n),
				Message:   fmt.Sprintf("%s must contain at least %d items", ctx.FieldName, n),
			}, nil
		},
		ir.RuleMaxItems: func(ctx *mapping.ValidationContext) (mapping.ValidationResult, error) {
			n := ctx.Value.(int)
			return mapping.ValidationResult{
				Condition: fmt.Sprintf("len(val) > %d", n),
				Message:   fmt.Sprintf("%s must contain at most %d items", ctx.FieldName, n),
			}, nil
		},
	}
}

func formatNumber(n float64, base ir.BaseType) string {
	if base == ir.BaseInteger {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func patternVarName(pattern string) string {
	h := fnv.New32a()
	h.Write([]byte(pattern))
	return fmt.Sprintf("pattern%08x", h.Sum32())
}

// backquote renders a pattern as a Go raw string, falling back to a
// quoted literal when the pattern itself contains a backquote.
func backquote(pattern string) string {
	for _, r := range pattern {
		if r == '`' {
			return strconv.Quote(pattern)
		}
	}
	return "`" + pattern + "`"
}
