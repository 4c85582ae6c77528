package properties

import (
	"errors"
	"fmt"
)

// Preset is a named set of values to write into a bag in one go.
type Preset struct {
	Name    string
	Entries []Entry
}

// Apply writes every preset value through Set, so listeners see each change.
// Unknown names are skipped and reported together.
func (b *Bag) Apply(p *Preset) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, e := range p.Entries {
		if err := b.Set(e.Name, e.Value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("preset '%s': %w", p.Name, errors.Join(errs...))
	}
	return nil
}
