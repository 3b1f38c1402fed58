// Package storage provides the two persistence primitives of the Vía Hogar core.
//
// The Document Store is a string key/value store with a total size quota. It
// holds the property collection, contact submissions, site name, custom logo
// and the data version marker under the keys declared in keys.go. Writes that
// would push the store past its quota fail with ErrQuotaExceeded and leave the
// previous value in place.
//
// The Blob Store holds large binary payloads (images) under opaque generated
// keys. Documents refer to blobs by key, so an image field is either an
// inline data URL or a blob key and both are valid at rest.
//
// Backends:
//   - SQLite (default): documents and blobs tables in the core database
//   - Redis: documents only, keys under a configurable prefix
//   - MinIO / S3: blobs only, one object per key
//   - Memory: both, for tests and ephemeral deployments
//
// All backends are safe for concurrent use.
package storage
