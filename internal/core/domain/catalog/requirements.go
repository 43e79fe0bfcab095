package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed evidence_requirements.yaml
var defaultRequirementsYAML []byte

// Requirements maps a step to the document types that must be attached
// before the milestone can be completed.
type Requirements map[milestone.StepKey][]string

type requirementsFile struct {
	Requirements map[string][]string `yaml:"requirements"`
}

// ParseRequirements decodes a requirements document.
//
// Example document:
//
//	requirements:
//	  final_inspection: [inspection_report, packing_list]
func ParseRequirements(data []byte) (Requirements, error) {
	var file requirementsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode evidence requirements: %w", err)
	}

	reqs := make(Requirements, len(file.Requirements))
	for key, docs := range file.Requirements {
		step, err := milestone.ParseStepKey(key)
		if err != nil {
			return nil, err
		}

		cleaned := make([]string, 0, len(docs))
		for _, d := range docs {
			d = strings.TrimSpace(d)
			if d == "" {
				return nil, errs.NewValueIsRequiredErrorWithCause("document type", fmt.Errorf("empty entry for %s", key))
			}
			if !slices.Contains(cleaned, d) {
				cleaned = append(cleaned, d)
			}
		}
		reqs[step] = cleaned
	}
	return reqs, nil
}

// DefaultRequirements returns the embedded garment-export document table.
func DefaultRequirements() (Requirements, error) {
	return ParseRequirements(defaultRequirementsYAML)
}
