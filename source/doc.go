// Package source defines the asset-source contract the picker consumes
// and a filesystem-backed implementation of it.
//
// An asset source enumerates albums and assets, produces thumbnails,
// streams original bytes for export, and answers the platform
// permission check. The core treats Asset values as opaque handles with
// stable identity; pixel data only ever flows through Thumbnail and
// Open.
//
// DirSource serves a directory of image files as a single album. It is
// the reference implementation used by the demo CLI and by tests; a
// real deployment wraps the device media library behind the same
// interface.
package source
