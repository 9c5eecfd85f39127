// Package tensor provides a dense n-dimensional float64 tensor used as the
// belief storage of factor nodes.
//
// Dense stores its elements in a single flat slice in row-major order: the
// last axis varies fastest, exactly as a nested Go slice literal would be
// laid out. For a shape (3, 2) tensor the flat order is
// (0,0) (0,1) (1,0) (1,1) (2,0) (2,1).
//
// All public indexers are bounds-checked and return sentinel errors rather
// than panicking:
//
//	ErrBadShape     - a requested shape has rank 0 or a non-positive axis.
//	ErrDataLength   - FromFlat data length does not match the shape.
//	ErrRankMismatch - an indexer received the wrong number of indices.
//	ErrOutOfRange   - an index is outside its axis, or a flat offset is
//	                  outside the backing slice.
//
// Tests match these via errors.Is.
package tensor
