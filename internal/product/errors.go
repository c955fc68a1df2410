package product

import "errors"

var (
	// ErrHeaderKeyMissing marks a required header key (table_num,
	// compressed_bytes, row, ...) absent or non-numeric.
	ErrHeaderKeyMissing = errors.New("product: required header key missing")

	// ErrHeaderKeyDuplicateConflict marks an explicit AddHeaderInfo of a
	// key that is already present.
	ErrHeaderKeyDuplicateConflict = errors.New("product: header key already present")

	// ErrDecompressionSizeMismatch marks a compressed payload that did not
	// expand to exactly uncompressed_bytes bytes.
	ErrDecompressionSizeMismatch = errors.New("product: decompressed size mismatch")

	// ErrShapeMismatch marks a payload whose byte count does not equal the
	// declared rows x cols.
	ErrShapeMismatch = errors.New("product: buffer size does not match declared shape")

	// ErrCompressionFailure marks a save whose compressed payload came out
	// empty or larger than the raw payload.
	ErrCompressionFailure = errors.New("product: compression failure")
)
