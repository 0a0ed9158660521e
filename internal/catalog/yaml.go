package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// catalogFile is the raw YAML structure of a catalog file:
//
//	workflows:
//	  - key: rnaseq
//	    workflow_id: 0a248a1f62a0cc04
//	    label: RNA-Seq
//	    description: Paired-end RNA sequence analysis
type catalogFile struct {
	Workflows []Entry `yaml:"workflows"`
}

func readYAML(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return &Catalog{Entries: raw.Workflows}, nil
}
