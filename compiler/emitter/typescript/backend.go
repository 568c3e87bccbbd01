// Package typescript is the client backend: interfaces for every named
// type and a typed fetch client keyed by endpoint full name. It emits no
// runtime validation; the server side owns constraint enforcement.
package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwesox/xrpc-sub000/compiler"
	"github.com/mwesox/xrpc-sub000/compiler/collector"
	"github.com/mwesox/xrpc-sub000/compiler/emitter"
	"github.com/mwesox/xrpc-sub000/compiler/ir"
	"github.com/mwesox/xrpc-sub000/compiler/mapping"
	"github.com/mwesox/xrpc-sub000/compiler/pkg/names"
)

const prioAlias = 50

type Backend struct {
	types       *mapping.TypeMapper
	validations *mapping.ValidationMapper
	collector   *collector.Collector
}

func New() (*Backend, error) {
	tm, err := mapping.NewTypeMapper("typescript", typeHandlers())
	if err != nil {
		return nil, err
	}
	// The noop table keeps the 13-rule contract honest for a target that
	// generates no checks.
	vm, err := mapping.NewValidationMapper("typescript", mapping.NoopValidationHandlers())
	if err != nil {
		return nil, err
	}
	return &Backend{types: tm, validations: vm, collector: collector.New()}, nil
}

func (b *Backend) Name() string { return "typescript" }

func (b *Backend) Capabilities() compiler.TargetCapabilities {
	return compiler.FullCapabilities("typescript")
}

func (b *Backend) Generate(contract *ir.ContractDefinition, outputDir string, options map[string]string) emitter.Result {
	b.types.Reset()
	b.validations.Reset()
	b.collector.Reset()

	work := contract.Clone()
	collected := b.collector.Collect(work)

	var res emitter.Result
	res.Diagnostics = append(res.Diagnostics, compiler.ValidateCapabilities(work, b.Capabilities())...)
	if ir.HasErrors(res.Diagnostics) {
		res.Gate()
		return res
	}

	typesSrc, err := b.emitTypes(work, collected)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{
			Severity: ir.SeverityError,
			Code:     "EMITTER_STEP_ERROR",
			Message:  err.Error(),
		})
		res.Gate()
		return res
	}
	res.Diagnostics = append(res.Diagnostics, b.types.Diagnostics()...)

	res.Files = append(res.Files,
		emitter.File{Path: "types.ts", Content: typesSrc},
		emitter.File{Path: "client.ts", Content: b.emitClient(work)},
	)
	res.Gate()
	return res
}

// emitTypes renders interfaces for object types and alias declarations
// collected while mapping enum, union and tuple kinds.
func (b *Backend) emitTypes(contract *ir.ContractDefinition, collected []ir.CollectedType) (string, error) {
	seen := make(map[string]bool)
	var named []ir.CollectedType
	for _, td := range contract.Types {
		if !seen[td.Name] {
			seen[td.Name] = true
			named = append(named, ir.CollectedType{Name: td.Name, Ref: td.Ref, Source: td.Source})
		}
	}
	for _, ct := range collected {
		if !seen[ct.Name] {
			seen[ct.Name] = true
			named = append(named, ct)
		}
	}

	var body strings.Builder
	body.WriteString("// Code generated by xrpcgen. DO NOT EDIT.\n\n")

	for _, nt := range named {
		if nt.Ref.Kind != ir.KindObject {
			if _, err := b.types.Map(nt.Ref, &mapping.TypeContext{Path: nt.Source}); err != nil {
				return "", err
			}
			continue
		}
		fmt.Fprintf(&body, "export interface %s {\n", nt.Name)
		for _, prop := range nt.Ref.Properties {
			core, optionalField, _ := fieldShape(prop)
			mapped, err := b.types.Map(core, &mapping.TypeContext{Path: nt.Source + "." + prop.Name})
			if err != nil {
				return "", err
			}
			marker := ""
			if optionalField {
				marker = "?"
			}
			fmt.Fprintf(&body, "  %s%s: %s;\n", propertyKey(prop.Name), marker, mapped.Code)
		}
		body.WriteString("}\n\n")

		// Noop run keeps rule bookkeeping uniform across targets.
		for _, prop := range nt.Ref.Properties {
			if prop.Validation == nil || prop.Validation.Empty() {
				continue
			}
			if _, err := b.validations.MapRules(prop.Validation, prop.Name, nt.Source+"."+prop.Name, ir.BaseUnknown, prop.Required); err != nil {
				return "", err
			}
		}
	}

	for _, u := range b.types.Utilities.GetAll() {
		body.WriteString(u.Code)
		body.WriteString("\n")
	}

	return body.String(), nil
}

// fieldShape splits wrapper kinds into the `?` marker (optional) and the
// type expression (which keeps `| null` for nullable).
func fieldShape(prop ir.Property) (core *ir.TypeReference, optionalField, nullable bool) {
	core = prop.Type
	for core.Kind == ir.KindOptional {
		optionalField = true
		core = core.Element
	}
	if core.Kind == ir.KindNullable {
		nullable = true
	}
	if !prop.Required {
		optionalField = true
	}
	return core, optionalField, nullable
}

func propertyKey(name string) string {
	for i, r := range name {
		valid := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !valid {
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}

// emitClient renders a typed fetch wrapper with one method per endpoint,
// grouped the way the contract groups them.
func (b *Backend) emitClient(contract *ir.ContractDefinition) string {
	groups := make(map[string][]ir.Endpoint)
	var order []string
	for _, ep := range contract.Endpoints {
		if _, seen := groups[ep.Group]; !seen {
			order = append(order, ep.Group)
		}
		groups[ep.Group] = append(groups[ep.Group], ep)
	}
	sort.Strings(order)

	var body strings.Builder
	body.WriteString("// Code generated by xrpcgen. DO NOT EDIT.\n\n")

	var importNames []string
	nameSeen := make(map[string]bool)
	for _, group := range order {
		for _, ep := range groups[group] {
			for _, n := range []string{ep.Input.Name, ep.Output.Name} {
				if !nameSeen[n] {
					nameSeen[n] = true
					importNames = append(importNames, n)
				}
			}
		}
	}
	fmt.Fprintf(&body, "import type { %s } from \"./types\";\n\n", strings.Join(importNames, ", "))

	body.WriteString("export class ClientError extends Error {\n")
	body.WriteString("  constructor(public status: number, public errors: string[]) {\n")
	body.WriteString("    super(errors.join(\"; \"));\n")
	body.WriteString("  }\n}\n\n")

	body.WriteString("export class Client {\n")
	body.WriteString("  constructor(private baseURL: string, private fetchImpl: typeof fetch = fetch) {}\n\n")
	body.WriteString("  private async call<TIn, TOut>(method: string, input: TIn): Promise<TOut> {\n")
	body.WriteString("    const res = await this.fetchImpl(`${this.baseURL}/rpc/${method}`, {\n")
	body.WriteString("      method: \"POST\",\n")
	body.WriteString("      headers: { \"Content-Type\": \"application/json\" },\n")
	body.WriteString("      body: JSON.stringify(input),\n")
	body.WriteString("    });\n")
	body.WriteString("    if (!res.ok) {\n")
	body.WriteString("      const payload = await res.json().catch(() => ({ errors: [res.statusText] }));\n")
	body.WriteString("      throw new ClientError(res.status, payload.errors ?? [res.statusText]);\n")
	body.WriteString("    }\n")
	body.WriteString("    return (await res.json()) as TOut;\n")
	body.WriteString("  }\n\n")

	for _, group := range order {
		fmt.Fprintf(&body, "  readonly %s = {\n", names.CamelName(group))
		for _, ep := range groups[group] {
			fmt.Fprintf(&body, "    %s: (input: %s): Promise<%s> => this.call(%q, input),\n",
				names.CamelName(ep.Name), ep.Input.Name, ep.Output.Name, ep.FullName)
		}
		body.WriteString("  };\n")
	}
	body.WriteString("}\n")

	return body.String()
}
