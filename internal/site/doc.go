// Package site is the application controller of the listing CMS.
//
// An App owns the in-memory application state: the property collection,
// contact submissions, site name and logo, admin mode, the property being
// viewed, the element selected in the editor and any deletion waiting for
// confirmation. Every mutation goes through an App method, which updates the
// state and immediately persists the affected document.
//
// Persistence is optimistic. When a save fails the in-memory state keeps the
// change and the method returns the error; a full Document Store surfaces as
// ErrStorageQuotaExceeded so the caller can tell the user that the change
// will not survive a reload.
//
// Thread Safety:
//
// All methods are safe for concurrent use. Mutations are serialised by a
// single mutex. Network lookups made while creating a property run outside
// the lock.
//
// Usage:
//
//	app := site.New(site.Deps{
//	    Documents: docs,
//	    Blobs:     blobs,
//	    Migrator:  migration.New(docs, blobs, logger, nil, migration.Options{}),
//	    Geocoder:  geo.NewNominatimGeocoder(url, agent, 10*time.Second),
//	    Places:    geo.Disabled{},
//	    Logger:    logger,
//	})
//	if err := app.Load(ctx); err != nil {
//	    return err
//	}
package site
