package msx

import "errors"

var (
	// ErrInvalidFormat means the file does not start with the MSx magic.
	ErrInvalidFormat = errors.New("msx: invalid file format")

	// ErrUnsupportedVersion means the magic matched but the version byte is
	// not one this package can decode.
	ErrUnsupportedVersion = errors.New("msx: unsupported file version")

	// ErrUnexpectedEndOfStream means the stream ended inside a fixed-layout
	// record. During the ray read loop this terminates the load with the
	// rays parsed so far; inside the sweep header it fails the whole load.
	ErrUnexpectedEndOfStream = errors.New("msx: unexpected end of stream")

	// ErrUnrecognizedDataFormat means a moment declared a data-format code
	// other than fixed-8, float-32 or fixed-16. Always fatal for the load.
	ErrUnrecognizedDataFormat = errors.New("msx: unrecognized moment data format")

	// ErrUnknownMoment means a moment id or name lookup found nothing.
	ErrUnknownMoment = errors.New("msx: unknown moment")
)
