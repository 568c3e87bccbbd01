package emitter

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mwesox/xrpc-sub000/compiler/ir"
)

// ContractManifest is the compact architectural map of a contract: every
// named type and every endpoint with its wire method identifier.
type ContractManifest struct {
	Types     []ManifestType     `json:"types" yaml:"types"`
	Endpoints []ManifestEndpoint `json:"endpoints" yaml:"endpoints"`
}

type ManifestType struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	// Generated marks collector-assigned names, as opposed to declared ones.
	Generated bool   `json:"generated,omitempty" yaml:"generated,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

type ManifestEndpoint struct {
	Method string `json:"method" yaml:"method"`
	Kind   string `json:"kind" yaml:"kind"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// BuildManifest summarizes a collected contract.
func BuildManifest(contract *ir.ContractDefinition, collected []ir.CollectedType) ContractManifest {
	m := ContractManifest{}
	generated := make(map[string]string, len(collected))
	for _, ct := range collected {
		generated[ct.Name] = ct.Source
	}
	for _, td := range contract.Types {
		src, isGen := generated[td.Name]
		m.Types = append(m.Types, ManifestType{
			Name:      td.Name,
			Kind:      string(td.Ref.Kind),
			Generated: isGen,
			Source:    src,
		})
	}
	for _, ct := range collected {
		seen := false
		for _, t := range m.Types {
			if t.Name == ct.Name {
				seen = true
				break
			}
		}
		if !seen {
			m.Types = append(m.Types, ManifestType{
				Name:      ct.Name,
				Kind:      string(ct.Ref.Kind),
				Generated: true,
				Source:    ct.Source,
			})
		}
	}
	for _, ep := range contract.Endpoints {
		m.Endpoints = append(m.Endpoints, ManifestEndpoint{
			Method: ep.FullName,
			Kind:   string(ep.Kind),
			Input:  ep.Input.Name,
			Output: ep.Output.Name,
		})
	}
	return m
}

// EmitManifest renders the manifest twice: a machine-oriented JSON file
// and a reviewer-oriented YAML summary.
func EmitManifest(contract *ir.ContractDefinition, collected []ir.CollectedType) ([]File, error) {
	m := BuildManifest(contract, collected)

	jsonBytes, err := gojson.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest json: %w", err)
	}
	yamlBytes, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest yaml: %w", err)
	}

	return []File{
		{Path: "contract.manifest.json", Content: string(jsonBytes) + "\n"},
		{Path: "contract.summary.yaml", Content: string(yamlBytes)},
	}, nil
}
