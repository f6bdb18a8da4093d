package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/services"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// document is the on-disk catalog shape: a "models" key holding candidate records.
// A bare list of records is accepted too.
type document struct {
	Models []models.Candidate `yaml:"models"`
}

// Parse decodes candidate records from YAML or JSON
func Parse(data []byte) ([]models.Candidate, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, services.NewConfigurationError("failed to parse catalog", err)
	}

	if len(root.Content) == 0 {
		return nil, services.NewConfigurationError("candidate catalog is empty", nil)
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var list []models.Candidate
		if err := node.Decode(&list); err != nil {
			return nil, services.NewConfigurationError("failed to decode catalog records", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, services.NewConfigurationError("failed to decode catalog records", err)
		}
		return doc.Models, nil
	default:
		return nil, services.NewConfigurationError(
			fmt.Sprintf("catalog must be a list or a mapping with a models key, got %s", kindName(node.Kind)), nil)
	}
}

// Load parses data and builds a validated catalog
func Load(data []byte) (*Catalog, error) {
	candidates, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(candidates)
}

// LoadFile reads and validates a catalog file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.NewConfigurationError(fmt.Sprintf("failed to read catalog %s", path), err)
	}
	return Load(data)
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Load(defaultCatalogYAML)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
