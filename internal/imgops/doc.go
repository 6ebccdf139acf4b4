// Package imgops provides the pixel-level primitives behind the export
// pipeline and the filesystem asset source: decoding, 90-degree
// rotation, normalized-rect cropping, long-edge resizing, JPEG
// encoding, and average-color sampling.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner;
// X increases rightward and Y increases downward. Crop regions use an
// inclusive top-left and exclusive bottom-right corner. Normalized
// rectangles express the same region in [0,1]² relative to the image
// the user saw, i.e. after rotation has been applied.
//
// # Error Handling
//
// Functions return errors for regions that denormalize to an empty or
// out-of-bounds pixel rectangle, for undecodable input, and for
// encoding failures. Rotation and resizing cannot fail.
package imgops
