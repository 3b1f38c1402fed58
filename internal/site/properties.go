package site

import (
	"context"
	"fmt"
	"strings"

	"github.com/viahogar/viahogar-core/internal/geo"
	"github.com/viahogar/viahogar-core/internal/property"
)

// Properties returns a copy of the collection in display order.
func (a *App) Properties() []property.Property {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]property.Property, len(a.properties))
	for i, p := range a.properties {
		out[i] = p.Clone()
	}
	return out
}

// Property returns a copy of the property with the given id.
func (a *App) Property(id string) (property.Property, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.propertyIndex(id)
	if i < 0 {
		return property.Property{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return a.properties[i].Clone(), nil
}

// CreateProperty geocodes address and appends a new property built from the
// default section set. Nearby places are added when the generator answers;
// its failure is logged and the location section starts empty. The new
// property becomes the selected one.
//
// A geocoding failure aborts with an error wrapping geo.ErrLookup. A failed
// save returns the created property together with the save error.
func (a *App) CreateProperty(ctx context.Context, address string) (property.Property, error) {
	address = strings.TrimSpace(address)

	a.mu.Lock()
	err := a.requireEditor()
	a.mu.Unlock()
	if err != nil {
		return property.Property{}, err
	}

	if a.geocoder == nil {
		return property.Property{}, fmt.Errorf("%w: no geocoder configured", geo.ErrLookup)
	}
	coords, err := a.geocoder.Geocode(ctx, address)
	if err != nil {
		a.logger.Warn("geocoding failed", "address", address, "error", err)
		return property.Property{}, err
	}
	places := a.nearbyPlaces(ctx, coords)

	p := property.NewProperty(address, coords, places)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return property.Property{}, err
	}

	a.properties = append(a.properties, p)
	a.selectedProperty = p.ID
	a.selection = nil
	a.logger.Info("property created", "property_id", p.ID, "address", address, "places", len(places))

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, p.ID, ChangeCreated)
	return p.Clone(), saveErr
}

func (a *App) nearbyPlaces(ctx context.Context, c property.Coordinates) []property.NearbyPlace {
	found, err := a.places.NearbyPlaces(ctx, c.Lat, c.Lng)
	if err != nil {
		a.logger.Warn("nearby places unavailable", "lat", c.Lat, "lng", c.Lng, "error", err)
		return []property.NearbyPlace{}
	}
	places := make([]property.NearbyPlace, 0, len(found))
	for _, f := range found {
		places = append(places, property.NewNearbyPlace(f.Category, f.Description))
	}
	return places
}

// UpdateProperty replaces the stored property that has p's id. Large inline
// images in p are moved to the Blob Store first.
func (a *App) UpdateProperty(ctx context.Context, p property.Property) (property.Property, error) {
	if err := p.Validate(); err != nil {
		return property.Property{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return property.Property{}, err
	}
	i := a.propertyIndex(p.ID)
	if i < 0 {
		return property.Property{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, p.ID)
	}

	next, err := a.offloadImages(ctx, p)
	if err != nil {
		return property.Property{}, err
	}

	a.properties[i] = next
	if a.selection != nil && a.selectedProperty == p.ID && next.SectionIndex(a.selection.SectionID) < 0 {
		a.selection = nil
	}

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, p.ID, ChangeUpdated)
	return next.Clone(), saveErr
}

// RequestDelete marks a property for deletion. Nothing is removed until
// ConfirmDelete.
func (a *App) RequestDelete(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}
	if a.propertyIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	a.pendingDelete = id
	return nil
}

// PendingDelete returns the id awaiting confirmation, if any.
func (a *App) PendingDelete() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingDelete
}

// CancelDelete drops the pending deletion.
func (a *App) CancelDelete() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingDelete = ""
}

// ConfirmDelete removes the pending property. When it was the selected
// property the view returns home.
func (a *App) ConfirmDelete(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}
	id := a.pendingDelete
	if id == "" {
		return ErrNoPendingDelete
	}
	a.pendingDelete = ""

	i := a.propertyIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}

	remaining := make([]property.Property, 0, len(a.properties)-1)
	remaining = append(remaining, a.properties[:i]...)
	remaining = append(remaining, a.properties[i+1:]...)
	a.properties = remaining

	if a.selectedProperty == id {
		a.selectedProperty = ""
		a.selection = nil
	}
	a.logger.Info("property deleted", "property_id", id)

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, id, ChangeDeleted)
	return saveErr
}

// AddSection inserts a new section of type t at index. The index is clamped
// to the section list, so a negative index prepends and a large one appends.
func (a *App) AddSection(ctx context.Context, propertyID string, index int, t property.SectionType) (property.Section, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return property.Section{}, err
	}
	i := a.propertyIndex(propertyID)
	if i < 0 {
		return property.Section{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	p := a.properties[i]
	s, err := property.NewSection(t, a.newSuffix())
	if err != nil {
		return property.Section{}, err
	}
	// Section ids must stay unique within the property or the next Load fails.
	for p.SectionIndex(s.ID) >= 0 {
		if s, err = property.NewSection(t, a.newSuffix()); err != nil {
			return property.Section{}, err
		}
	}
	index = max(0, min(index, len(p.Sections)))

	sections := make([]property.Section, 0, len(p.Sections)+1)
	sections = append(sections, p.Sections[:index]...)
	sections = append(sections, s)
	sections = append(sections, p.Sections[index:]...)
	p.Sections = sections
	a.properties[i] = p

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, propertyID, ChangeUpdated)
	return s, saveErr
}

// UpdateSection replaces the section of the property that has s's id.
func (a *App) UpdateSection(ctx context.Context, propertyID string, s property.Section) error {
	if s.Content == nil {
		return fmt.Errorf("%w: section %q", property.ErrUnknownSectionType, s.ID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}
	i := a.propertyIndex(propertyID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	j := a.properties[i].SectionIndex(s.ID)
	if j < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, s.ID)
	}

	var storeErr error
	s = s.MapStrings(fmt.Sprintf("sections[%d]", j), func(path, v string) string {
		if storeErr != nil {
			return v
		}
		key, err := a.storeInline(ctx, v)
		if err != nil {
			storeErr = fmt.Errorf("%s: %w", path, err)
			return v
		}
		return key
	})
	if storeErr != nil {
		return storeErr
	}

	a.properties[i] = a.properties[i].WithSection(j, s)

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, propertyID, ChangeUpdated)
	return saveErr
}

// DeleteSection removes a section and clears the element selection.
func (a *App) DeleteSection(ctx context.Context, propertyID, sectionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}
	i := a.propertyIndex(propertyID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	p := a.properties[i]
	j := p.SectionIndex(sectionID)
	if j < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}

	sections := make([]property.Section, 0, len(p.Sections)-1)
	sections = append(sections, p.Sections[:j]...)
	sections = append(sections, p.Sections[j+1:]...)
	p.Sections = sections
	a.properties[i] = p
	a.selection = nil

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, propertyID, ChangeUpdated)
	return saveErr
}
