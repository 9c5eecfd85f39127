package tensor

import "errors"

// Sentinel errors for tensor construction and indexing.
var (
	// ErrBadShape indicates a requested shape with rank 0 or an axis ≤ 0.
	ErrBadShape = errors.New("tensor: axes must be > 0")

	// ErrDataLength indicates FromFlat received a slice whose length does
	// not equal the product of the requested axes.
	ErrDataLength = errors.New("tensor: data length does not match shape")

	// ErrRankMismatch indicates an indexer received the wrong number of indices.
	ErrRankMismatch = errors.New("tensor: wrong number of indices")

	// ErrOutOfRange indicates an index outside the valid range of its axis.
	ErrOutOfRange = errors.New("tensor: index out of range")
)
