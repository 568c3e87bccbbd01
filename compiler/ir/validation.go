package ir

// ValidationKind identifies one of the 13 field validation rules.
type ValidationKind string

const (
	RuleMinLength ValidationKind = "minLength"
	RuleMaxLength ValidationKind = "maxLength"
	RuleEmail     ValidationKind = "email"
	RuleURL       ValidationKind = "url"
	RuleUUID      ValidationKind = "uuid"
	RuleRegex     ValidationKind = "regex"
	RuleMin       ValidationKind = "min"
	RuleMax       ValidationKind = "max"
	RuleInt       ValidationKind = "int"
	RulePositive  ValidationKind = "positive"
	RuleNegative  ValidationKind = "negative"
	RuleMinItems  ValidationKind = "minItems"
	RuleMaxItems  ValidationKind = "maxItems"
)

// AllValidationKinds is the canonical, ordered list of validation rules.
var AllValidationKinds = []ValidationKind{
	RuleMinLength,
	RuleMaxLength,
	RuleEmail,
	RuleURL,
	RuleUUID,
	RuleRegex,
	RuleMin,
	RuleMax,
	RuleInt,
	RulePositive,
	RuleNegative,
	RuleMinItems,
	RuleMaxItems,
}

// ValidationRules is a record of up to 13 optional rules, partitioned by
// the base type they apply to. A rule outside its partition is never
// attached by the normalizer; mapping code treats such input as a
// programmer error, not as data to silently accept.
type ValidationRules struct {
	// String rules.
	MinLength *int
	MaxLength *int
	Email     bool
	URL       bool
	UUID      bool
	Regex     string

	// Number rules.
	Min      *float64
	Max      *float64
	Int      bool
	Positive bool
	Negative bool

	// Array rules.
	MinItems *int
	MaxItems *int
}

// Kinds returns the rules actually present, in canonical order.
func (r *ValidationRules) Kinds() []ValidationKind {
	if r == nil {
		return nil
	}
	var out []ValidationKind
	for _, k := range AllValidationKinds {
		if r.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Has reports whether a specific rule is set.
func (r *ValidationRules) Has(k ValidationKind) bool {
	if r == nil {
		return false
	}
	switch k {
	case RuleMinLength:
		return r.MinLength != nil
	case RuleMaxLength:
		return r.MaxLength != nil
	case RuleEmail:
		return r.Email
	case RuleURL:
		return r.URL
	case RuleUUID:
		return r.UUID
	case RuleRegex:
		return r.Regex != ""
	case RuleMin:
		return r.Min != nil
	case RuleMax:
		return r.Max != nil
	case RuleInt:
		return r.Int
	case RulePositive:
		return r.Positive
	case RuleNegative:
		return r.Negative
	case RuleMinItems:
		return r.MinItems != nil
	case RuleMaxItems:
		return r.MaxItems != nil
	}
	return false
}

// Empty reports whether no rule at all is set.
func (r *ValidationRules) Empty() bool {
	return len(r.Kinds()) == 0
}

// RulePartition names the applicability class of a validation rule.
type RulePartition string

const (
	PartitionString RulePartition = "string"
	PartitionNumber RulePartition = "number"
	PartitionArray  RulePartition = "array"
)

// PartitionOf returns the partition a rule belongs to.
func PartitionOf(k ValidationKind) RulePartition {
	switch k {
	case RuleMin, RuleMax, RuleInt, RulePositive, RuleNegative:
		return PartitionNumber
	case RuleMinItems, RuleMaxItems:
		return PartitionArray
	default:
		return PartitionString
	}
}
