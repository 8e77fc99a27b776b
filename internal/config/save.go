package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SetPath adds or updates a single entry under the paths section of the
// config file. This preserves comments and formatting in other sections by
// using yaml.Node instead of a full unmarshal/marshal round trip.
func SetPath(configPath, key, value string) error {
	if key == "" {
		return fmt.Errorf("paths: empty key")
	}
	if value == "" {
		return fmt.Errorf("paths: key %q has an empty value", key)
	}

	// Read existing file content
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "paths"},
						{Kind: yaml.MappingNode, Content: []*yaml.Node{keyNode, valueNode}},
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return fmt.Errorf("config root is not a mapping")
		}

		pathsNode := findMappingValue(root, "paths")
		if pathsNode == nil {
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "paths"},
				&yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{keyNode, valueNode}},
			)
		} else {
			if pathsNode.Kind != yaml.MappingNode {
				// paths: was present but empty/null - replace with a mapping
				pathsNode.Kind = yaml.MappingNode
				pathsNode.Tag = ""
				pathsNode.Value = ""
				pathsNode.Content = nil
			}
			if existing := findMappingValue(pathsNode, key); existing != nil {
				existing.Value = value
				existing.Tag = ""
				existing.Style = 0
			} else {
				pathsNode.Content = append(pathsNode.Content, keyNode, valueNode)
			}
		}
	} else {
		return fmt.Errorf("unexpected config document structure")
	}

	// Marshal back preserving the node tree
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// findMappingValue returns the value node for a key in a mapping node,
// or nil when the key is absent.
func findMappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
