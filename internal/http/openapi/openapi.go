// Package openapi embeds the Item Registry OpenAPI document.
package openapi

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML contains the embedded OpenAPI document.
//
//go:embed openapi.yaml
var YAML []byte

// DocInfo is the info block of the document.
type DocInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// Info parses the info block out of YAML.
func Info() (DocInfo, error) {
	var doc struct {
		Info DocInfo `yaml:"info"`
	}
	if err := yaml.Unmarshal(YAML, &doc); err != nil {
		return DocInfo{}, fmt.Errorf("parse openapi: %w", err)
	}
	return doc.Info, nil
}
