package msx

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const (
	// fileMagic opens every MSx file.
	fileMagic = "EDPF"

	// commonPrefixSize covers fileid (4), version (1), spare (3), length (4).
	commonPrefixSize = 12
)

// Load reads an MSx volume-sweep file. It peeks the common prefix to
// validate the magic and pick the versioned layout, then decodes the whole
// file into a PolarSweep. The file handle is closed on every return path.
//
// All state for a load is local to the call, so concurrent loads of
// different files are safe.
func Load(path string) (*PolarSweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader decodes an MSx stream. See Load.
func LoadReader(r io.Reader) (*PolarSweep, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(commonPrefixSize)
	if err != nil {
		return nil, fmt.Errorf("%w: short common prefix", ErrUnexpectedEndOfStream)
	}
	if string(prefix[0:4]) != fileMagic {
		return nil, fmt.Errorf("%w: bad file id %q", ErrInvalidFormat, prefix[0:4])
	}

	switch version := prefix[4]; version {
	case 1:
		return loadSweep(br, v1Serializer{})
	case 2:
		return loadSweep(br, v2Serializer{})
	default:
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
}
