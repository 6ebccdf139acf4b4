// Package selection holds the single source of truth for a picking
// session: which assets are selected, in what order, and how each one
// should be cropped.
//
// The Store is an ordered set keyed by asset ID. It is mutated from the
// UI interaction goroutine while being snapshotted for export; every
// operation is atomic under the store's lock, so a snapshot is always a
// consistent point-in-time copy, immune to edits made after it is
// taken.
//
// CropParams, CropConfig, and the aspect-ratio refit geometry
// (FitRatio) live here as well, shared by the crop controller and the
// export pipeline.
package selection
