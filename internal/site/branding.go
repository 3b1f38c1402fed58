package site

import (
	"context"
	"fmt"
	"strings"

	"github.com/viahogar/viahogar-core/internal/storage"
)

// SiteName returns the name shown in the site header.
func (a *App) SiteName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.siteName
}

// SetSiteName renames the site. An empty name restores the default. The
// name is kept even when saving it fails.
func (a *App) SetSiteName(ctx context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = a.defaultSiteName
	}
	a.siteName = name
	return a.save(ctx, storage.KeySiteName, name)
}

// Logo returns the custom logo reference: a blob key, a small inline image
// or empty when the default logo is used.
func (a *App) Logo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logo
}

// SetLogo replaces the custom logo. Unlike other edits the logo only changes
// once it has been saved. An empty value restores the default logo.
func (a *App) SetLogo(ctx context.Context, dataURL string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return err
	}

	old := a.logo
	if dataURL == "" {
		if err := a.docs.Delete(ctx, storage.KeyCustomLogo); err != nil {
			return fmt.Errorf("%w: removing logo: %w", ErrSaveFailed, err)
		}
		a.logo = ""
		a.dropBlob(ctx, old)
		return nil
	}

	value, err := a.storeInline(ctx, dataURL)
	if err != nil {
		return err
	}
	if err := a.save(ctx, storage.KeyCustomLogo, value); err != nil {
		if value != dataURL {
			a.dropBlob(ctx, value)
		}
		return err
	}

	a.logo = value
	if old != value {
		a.dropBlob(ctx, old)
	}
	return nil
}

func (a *App) dropBlob(ctx context.Context, ref string) {
	if !storage.IsBlobKey(ref) {
		return
	}
	if err := a.blobs.Delete(ctx, ref); err != nil {
		a.logger.Warn("removing unused image failed", "key", ref, "error", err)
	}
}
