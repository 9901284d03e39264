package planquery

import (
	"fmt"

	"github.com/regs08/random-sampling-generator-from-kml/plansaver"
)

// LoadIndexFromFile reads a plan file and indexes it for queries.
func LoadIndexFromFile(path string, opts ...Option) (*Index, error) {
	plan, err := plansaver.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening plan: %w", err)
	}
	return NewIndex(plan, opts...), nil
}
