// Package collector assigns stable generated names to every anonymous
// structural type nested inside a contract. It runs to completion exactly
// once per contract instance before any mapping or emission begins; every
// later stage assumes all structural types are named.
package collector

import (
	"fmt"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

// Collector walks a contract depth-first and names every unnamed object,
// union, enum and tuple it finds, mutating the IR in place. It is
// resettable for reuse across multiple targets in one process; it is not
// safe to share across concurrent runs.
type Collector struct {
	used      map[string]bool
	visited   map[string]bool
	collected []ir.CollectedType
}

func New() *Collector {
	c := &Collector{}
	c.Reset()
	return c
}

// Reset clears all per-run state.
func (c *Collector) Reset() {
	c.used = make(map[string]bool)
	c.visited = make(map[string]bool)
	c.collected = nil
}

// Collect names every anonymous structural type reachable from the
// contract's top-level types and endpoint inputs/outputs, and returns the
// list of assigned names in assignment order. Traversal follows
// declaration order only, so running Collect twice over an unchanged
// contract assigns identical names.
func (c *Collector) Collect(contract *ir.ContractDefinition) []ir.CollectedType {
	c.Reset()

	// Pre-seed with every already-named top-level type so generated names
	// can never collide with declared ones.
	for _, td := range contract.Types {
		c.used[normalizeName(td.Name)] = true
	}

	for _, td := range contract.Types {
		c.walk(td.Ref, td.Name, "types."+td.Name)
	}
	for i := range contract.Endpoints {
		ep := &contract.Endpoints[i]
		seed := names.ExportName(ep.Group) + names.ExportName(ep.Name)
		c.walk(ep.Input, seed+"Input", ep.FullName+".input")
		c.walk(ep.Output, seed+"Output", ep.FullName+".output")
	}
	return c.collected
}

func (c *Collector) walk(ref *ir.TypeReference, suggestion, path string) {
	if ref == nil {
		return
	}

	switch ref.Kind {
	case ir.KindOptional, ir.KindNullable:
		// Wrappers are transparent: the child inherits the suggestion.
		c.walk(ref.Element, suggestion, path)

	case ir.KindArray:
		c.walk(ref.Element, suggestion+"Item", path+"[]")

	case ir.KindRecord:
		c.walk(ref.Element, suggestion+"Value", path+".{}")

	case ir.KindObject:
		name := c.ensureNamed(ref, suggestion, path)
		if c.visited[name] {
			return
		}
		c.visited[name] = true
		for i := range ref.Properties {
			p := &ref.Properties[i]
			c.walk(p.Type, name+names.ExportName(p.Name), path+"."+p.Name)
		}

	case ir.KindUnion, ir.KindTuple:
		name := c.ensureNamed(ref, suggestion, path)
		if c.visited[name] {
			return
		}
		c.visited[name] = true
		for i, v := range ref.Variants {
			c.walk(v, fmt.Sprintf("%sV%d", name, i), fmt.Sprintf("%s[%d]", path, i))
		}

	case ir.KindEnum:
		c.ensureNamed(ref, suggestion, path)
	}
}

// ensureNamed assigns the first unused name derived from the suggestion
// (bare suggestion, then suggestion1, suggestion2, ...) and records the
// assignment. Already-named references keep their name.
func (c *Collector) ensureNamed(ref *ir.TypeReference, suggestion, path string) string {
	if ref.Named() {
		return ref.Name
	}

	name := suggestion
	for i := 1; c.used[normalizeName(name)]; i++ {
		name = fmt.Sprintf("%s%d", suggestion, i)
	}
	c.used[normalizeName(name)] = true

	ref.Name = name
	c.collected = append(c.collected, ir.CollectedType{Name: name, Ref: ref, Source: path})
	return name
}

// normalizeName is the collision key: names differing only in case would
// clash in case-insensitive target conventions, so they count as taken.
func normalizeName(name string) string {
	return strings.ToLower(name)
}
