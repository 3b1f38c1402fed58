// Package migration moves inline images out of stored property documents.
//
// Older collections kept uploaded images as data URLs inside the property
// JSON, which quickly exhausts the Document Store quota. On start-up the
// Engine compares the stored data version marker with its target version.
// When they differ it walks every string of the collection, stores each
// inline image longer than the threshold in the Blob Store and replaces the
// string with the returned key. The collection is written back when at least
// one image moved, then the marker is set to the target version.
//
// A second run against an up-to-date marker returns the input unchanged and
// writes nothing. A field whose blob write fails keeps its inline value and
// the traversal continues, so a partial run never loses an image.
package migration
