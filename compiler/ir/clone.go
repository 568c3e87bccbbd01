package ir

// Clone returns a deep copy of the contract. Each generation run owns its
// own copy so that the collector's in-place name assignment never leaks
// between concurrent target runs.
func (c *ContractDefinition) Clone() *ContractDefinition {
	if c == nil {
		return nil
	}
	out := &ContractDefinition{
		Types:     make([]TypeDefinition, len(c.Types)),
		Endpoints: make([]Endpoint, len(c.Endpoints)),
	}
	for i, td := range c.Types {
		out.Types[i] = TypeDefinition{Name: td.Name, Ref: td.Ref.Clone(), Source: td.Source}
	}
	for i, ep := range c.Endpoints {
		out.Endpoints[i] = Endpoint{
			Name:     ep.Name,
			Group:    ep.Group,
			FullName: ep.FullName,
			Kind:     ep.Kind,
			Input:    ep.Input.Clone(),
			Output:   ep.Output.Clone(),
			Source:   ep.Source,
		}
	}
	return out
}

// Clone returns a deep copy of a type reference tree.
func (t *TypeReference) Clone() *TypeReference {
	if t == nil {
		return nil
	}
	out := &TypeReference{
		Kind:         t.Kind,
		Name:         t.Name,
		Base:         t.Base,
		Element:      t.Element.Clone(),
		LiteralValue: t.LiteralValue,
		LiteralNull:  t.LiteralNull,
		Validation:   t.Validation.clone(),
	}
	if len(t.Variants) > 0 {
		out.Variants = make([]*TypeReference, len(t.Variants))
		for i, v := range t.Variants {
			out.Variants[i] = v.Clone()
		}
	}
	if len(t.Properties) > 0 {
		out.Properties = make([]Property, len(t.Properties))
		for i, p := range t.Properties {
			out.Properties[i] = Property{
				Name:       p.Name,
				Type:       p.Type.Clone(),
				Required:   p.Required,
				Validation: p.Validation.clone(),
				Source:     p.Source,
			}
		}
	}
	if len(t.EnumValues) > 0 {
		out.EnumValues = append([]any(nil), t.EnumValues...)
	}
	return out
}

func (r *ValidationRules) clone() *ValidationRules {
	if r == nil {
		return nil
	}
	out := *r
	out.MinLength = cloneIntPtr(r.MinLength)
	out.MaxLength = cloneIntPtr(r.MaxLength)
	out.MinItems = cloneIntPtr(r.MinItems)
	out.MaxItems = cloneIntPtr(r.MaxItems)
	out.Min = cloneFloatPtr(r.Min)
	out.Max = cloneFloatPtr(r.Max)
	return &out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
