package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// extractValidation reads the field's @validate("...") attribute, parses
// it into ValidationRules and rejects any rule outside the partition of
// the field's base type. The partition check is defensive: a number rule
// on a string field is a contract authoring error and fatal.
func (n *Normalizer) extractValidation(v cue.Value, ref *ir.TypeReference, path string) (*ir.ValidationRules, error) {
	tag := attributeContents(v, "validate")
	if tag == "" {
		return nil, nil
	}

	rules, err := parseValidateTag(tag)
	if err != nil {
		return nil, fmt.Errorf("%s: @validate(%q): %w", path, tag, err)
	}
	if rules.Empty() {
		return nil, nil
	}

	if err := checkRulePartition(rules, ref, path); err != nil {
		return nil, err
	}
	return rules, nil
}

func parseValidateTag(tag string) (*ir.ValidationRules, error) {
	rules := &ir.ValidationRules{}
	for _, raw := range strings.Split(tag, ",") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		switch part {
		case "email":
			rules.Email = true
			continue
		case "url":
			rules.URL = true
			continue
		case "uuid":
			rules.UUID = true
			continue
		case "int":
			rules.Int = true
			continue
		case "positive":
			rules.Positive = true
			continue
		case "negative":
			rules.Negative = true
			continue
		case "required":
			// Presence is derived from the optional marker, never from the
			// tag; a stray `required` token is tolerated as a no-op.
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("unknown rule %q", part)
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if val == "" {
			return nil, fmt.Errorf("rule %q has empty value", key)
		}

		switch key {
		case "regex":
			rules.Regex = val
			continue
		case "minLength", "maxLength", "minItems", "maxItems":
			num, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", key, err)
			}
			switch key {
			case "minLength":
				rules.MinLength = &num
			case "maxLength":
				rules.MaxLength = &num
			case "minItems":
				rules.MinItems = &num
			case "maxItems":
				rules.MaxItems = &num
			}
		case "min", "max":
			num, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", key, err)
			}
			if key == "min" {
				rules.Min = &num
			} else {
				rules.Max = &num
			}
		default:
			return nil, fmt.Errorf("unknown rule %q", key)
		}
	}
	return rules, nil
}

func checkRulePartition(rules *ir.ValidationRules, ref *ir.TypeReference, path string) error {
	partition, ok := partitionForType(ref)
	if !ok {
		return fmt.Errorf("%s: validation rules are not applicable to %s fields", path, ref.Kind)
	}
	for _, k := range rules.Kinds() {
		if ir.PartitionOf(k) != partition {
			return fmt.Errorf("%s: rule %q applies to %s fields, not %s", path, k, ir.PartitionOf(k), partition)
		}
	}
	return nil
}

// partitionForType unwraps optional/nullable and maps the base type onto
// the rule partition it accepts.
func partitionForType(ref *ir.TypeReference) (ir.RulePartition, bool) {
	for ref != nil && (ref.Kind == ir.KindOptional || ref.Kind == ir.KindNullable) {
		ref = ref.Element
	}
	if ref == nil {
		return "", false
	}
	switch ref.Kind {
	case ir.KindArray:
		return ir.PartitionArray, true
	case ir.KindPrimitive:
		switch ref.Base {
		case ir.BaseString, ir.BaseUUID, ir.BaseEmail:
			return ir.PartitionString, true
		case ir.BaseNumber, ir.BaseInteger:
			return ir.PartitionNumber, true
		}
	}
	return "", false
}
