package config

import (
	"gopkg.in/yaml.v3"
)

const redacted = "********"

// ExportYAML renders the configuration as YAML with sections in a fixed
// order. Secrets are redacted.
func (c Configuration) ExportYAML() ([]byte, error) {
	storage := c.Storage
	if storage.DSN != "" {
		storage.DSN = redacted
	}
	geocoding := c.Geocoding
	if geocoding.APIKey != "" {
		geocoding.APIKey = redacted
	}

	ordered := orderedConfig{items: []orderedItem{
		{key: "server", value: c.Server},
		{key: "logging", value: c.Logging},
		{key: "storage", value: storage},
		{key: "geocoding", value: geocoding},
		{key: "analyzer", value: c.Analyzer},
	}}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}
