package storage

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

//go:embed seed/customers.yaml
var customersYAML []byte

type seedFile struct {
	Customers []*models.CustomerProfile `yaml:"customers"`
}

// SeedProfiles returns the bundled demo customers.
func SeedProfiles() ([]*models.CustomerProfile, error) {
	return ParseProfiles(customersYAML)
}

// ParseProfiles decodes a customers YAML document. Phones are normalized and
// duplicates rejected.
func ParseProfiles(data []byte) ([]*models.CustomerProfile, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse customer seed: %w", err)
	}

	seen := make(map[string]bool, len(f.Customers))
	for i, p := range f.Customers {
		phone, ok := extract.NormalizePhone(p.Phone)
		if !ok {
			return nil, fmt.Errorf("customer %d (%s): invalid phone %q", i, p.Name, p.Phone)
		}
		if seen[phone] {
			return nil, fmt.Errorf("customer %d (%s): duplicate phone %s", i, p.Name, phone)
		}
		seen[phone] = true
		p.Phone = phone
	}
	return f.Customers, nil
}
