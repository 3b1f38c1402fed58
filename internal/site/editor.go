package site

import (
	"context"
	"fmt"

	"github.com/viahogar/viahogar-core/internal/element"
	"github.com/viahogar/viahogar-core/internal/property"
	"github.com/viahogar/viahogar-core/internal/storage"
)

// SelectProperty opens a property page and clears the element selection.
func (a *App) SelectProperty(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.propertyIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	a.selectedProperty = id
	a.selection = nil
	return nil
}

// NavigateHome closes the property page.
func (a *App) NavigateHome() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.selectedProperty = ""
	a.selection = nil
}

// SelectedProperty returns the open property page, if any.
func (a *App) SelectedProperty() (property.Property, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.propertyIndex(a.selectedProperty)
	if i < 0 {
		return property.Property{}, false
	}
	return a.properties[i].Clone(), true
}

// SelectElement selects an element of the open property for editing.
// A reference that does not resolve clears the selection and returns
// ErrElementNotFound.
func (a *App) SelectElement(ref element.Ref) (element.Selection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return element.Selection{}, err
	}
	i := a.propertyIndex(a.selectedProperty)
	if i < 0 {
		return element.Selection{}, fmt.Errorf("%w: no property open", ErrPropertyNotFound)
	}

	sel, ok := element.Resolve(a.properties[i], ref)
	if !ok {
		a.selection = nil
		return element.Selection{}, fmt.Errorf("%w: %s/%s", ErrElementNotFound, ref.SectionID, ref.ElementKey)
	}
	a.selection = &ref
	return sel, nil
}

// ClearSelection drops the element selection.
func (a *App) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selection = nil
}

// SelectedElement returns the selected reference and its current value.
func (a *App) SelectedElement() (element.Ref, element.Selection, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selection == nil {
		return element.Ref{}, element.Selection{}, false
	}
	i := a.propertyIndex(a.selectedProperty)
	if i < 0 {
		return element.Ref{}, element.Selection{}, false
	}
	sel, ok := element.Resolve(a.properties[i], *a.selection)
	if !ok {
		return element.Ref{}, element.Selection{}, false
	}
	return *a.selection, sel, true
}

// UpdateSelectedElement applies patch to the selected element.
func (a *App) UpdateSelectedElement(ctx context.Context, patch element.Patch) (element.Selection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return element.Selection{}, err
	}
	if a.selection == nil {
		return element.Selection{}, ErrNoSelection
	}
	return a.updateElement(ctx, a.selectedProperty, *a.selection, patch)
}

// UpdateElement applies patch to the element ref addresses in a property.
// On a failed save the returned selection still reflects the change.
func (a *App) UpdateElement(ctx context.Context, propertyID string, ref element.Ref, patch element.Patch) (element.Selection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return element.Selection{}, err
	}
	return a.updateElement(ctx, propertyID, ref, patch)
}

// updateElement must be called with mu held.
func (a *App) updateElement(ctx context.Context, propertyID string, ref element.Ref, patch element.Patch) (element.Selection, error) {
	i := a.propertyIndex(propertyID)
	if i < 0 {
		return element.Selection{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	patch, err := patch.MapImages(func(v string) (string, error) {
		return a.storeInline(ctx, v)
	})
	if err != nil {
		return element.Selection{}, err
	}

	next, ok := element.Apply(a.properties[i], ref, patch)
	if !ok {
		return element.Selection{}, fmt.Errorf("%w: %s/%s", ErrElementNotFound, ref.SectionID, ref.ElementKey)
	}
	a.properties[i] = next
	sel, _ := element.Resolve(next, ref)

	saveErr := a.saveProperties(ctx)
	a.notifyProperty(ctx, propertyID, ChangeUpdated)
	return sel, saveErr
}

// StoreImage prepares an uploaded image for use in a document. Large inline
// images are moved to the Blob Store and their key returned; anything else
// is returned as is.
func (a *App) StoreImage(ctx context.Context, dataURL string) (string, error) {
	a.mu.Lock()
	err := a.requireEditor()
	a.mu.Unlock()
	if err != nil {
		return "", err
	}
	return a.storeInline(ctx, dataURL)
}

// ResolveImage returns the inline form of an image reference, reading blob
// keys from the Blob Store.
func (a *App) ResolveImage(ctx context.Context, ref string) (string, error) {
	if !storage.IsBlobKey(ref) {
		return ref, nil
	}
	data, err := a.blobs.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", ref, err)
	}
	return string(data), nil
}

func (a *App) storeInline(ctx context.Context, value string) (string, error) {
	if !storage.IsInlineImage(value, a.inlinePrefix, a.inlineThreshold) {
		return value, nil
	}
	key, err := a.blobs.Put(ctx, []byte(value))
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}
	a.logger.Debug("image moved to blob store", "key", key, "bytes", len(value))
	return key, nil
}

// offloadImages must be called with mu held.
func (a *App) offloadImages(ctx context.Context, p property.Property) (property.Property, error) {
	var storeErr error
	out := p.MapStrings("property", func(path, v string) string {
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
	return out, storeErr
}
