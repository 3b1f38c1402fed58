package property

import "fmt"

// ValidateCollection checks the identity rules of a property collection:
// property ids are non-empty and unique, and section ids are non-empty and
// unique within their property.
func ValidateCollection(props []Property) error {
	seen := make(map[string]bool, len(props))
	for i, p := range props {
		if p.ID == "" {
			return fmt.Errorf("%w: property %d has no id", ErrInvalidProperty, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate property id %q", ErrInvalidProperty, p.ID)
		}
		seen[p.ID] = true

		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every section has a unique id and known content.
func (p Property) Validate() error {
	seen := make(map[string]bool, len(p.Sections))
	for i, s := range p.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: property %q section %d has no id", ErrInvalidProperty, p.ID, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: property %q has duplicate section id %q", ErrInvalidProperty, p.ID, s.ID)
		}
		seen[s.ID] = true

		if s.Content == nil {
			return fmt.Errorf("%w: property %q section %q", ErrUnknownSectionType, p.ID, s.ID)
		}
	}
	return nil
}
