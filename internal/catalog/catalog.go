// Package catalog holds the bundled scholarship and university cost
// datasets used by the static stores and the seed tool.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"gradpath/internal/model"
)

//go:embed data/*.yaml
var files embed.FS

// Scholarships returns the bundled scholarship records in catalog order
func Scholarships() ([]model.Scholarship, error) {
	var out []model.Scholarship
	if err := decode("data/scholarships.yaml", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UniversityCosts returns the bundled cost records in catalog order
func UniversityCosts() ([]model.UniversityCosts, error) {
	var out []model.UniversityCosts
	if err := decode("data/university_costs.yaml", &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Order = i
		if out[i].Total != out[i].Tuition+out[i].Accommodation+out[i].Living+out[i].Other {
			return nil, fmt.Errorf("catalog: %s total does not match its components", out[i].CatalogName)
		}
	}
	return out, nil
}

func decode(name string, v interface{}) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return nil
}
