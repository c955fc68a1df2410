package lzw

import (
	"errors"
	"fmt"
)

// ErrCorruptStream is returned by Decompress when the input is not a valid
// LZW stream (truncated mid-code, undefined dictionary code, or a code width
// bumped past the 15-bit limit).
var ErrCorruptStream = errors.New("lzw: corrupt stream")

const (
	maxBits   = 15
	maxCode   = 1<<maxBits - 1
	tableSize = 35023 // prime, leaves slack above maxCode for open addressing

	endOfStream = 256
	bumpCode    = 257
	flushCode   = 258
	firstCode   = 259

	unused = -1
)

// entry is one dictionary slot. The compressor addresses the table through
// the hash probe in findChildNode; the decompressor indexes it directly by
// code value. Codes below 256 are plain bytes and never stored.
type entry struct {
	codeValue  int
	parentCode int
	character  byte
}

type dict struct {
	table        [tableSize]entry
	nextCode     int
	codeBits     int
	nextBumpCode int
}

// reset clears the dictionary and returns the code width to its initial
// 9 bits. Called at start-up and whenever a flush happens.
func (d *dict) reset() {
	for i := range d.table {
		d.table[i].codeValue = unused
	}
	d.nextCode = firstCode
	d.codeBits = 9
	d.nextBumpCode = 511
}

// findChildNode locates the table slot for a parent-code/character pair,
// probing with the reference implementation's offset scheme so that hash
// placement (and therefore code assignment) is identical to the C tool's.
func (d *dict) findChildNode(parentCode, childChar int) int {
	index := (childChar << (maxBits - 8)) ^ parentCode
	var offset int
	if index == 0 {
		offset = 1
	} else {
		offset = tableSize - index
	}
	for {
		if d.table[index].codeValue == unused {
			return index
		}
		if d.table[index].parentCode == parentCode && d.table[index].character == byte(childChar) {
			return index
		}
		if index >= offset {
			index -= offset
		} else {
			index += tableSize - offset
		}
	}
}

// decodeString walks the parent chain of code, appending the characters in
// reverse order onto stack. The caller emits the stack back-to-front.
func (d *dict) decodeString(stack []byte, code int) ([]byte, error) {
	for code > 255 {
		if code < firstCode || code >= d.nextCode {
			return nil, fmt.Errorf("%w: undefined code %d", ErrCorruptStream, code)
		}
		stack = append(stack, d.table[code].character)
		code = d.table[code].parentCode
		if len(stack) > tableSize {
			return nil, fmt.Errorf("%w: dictionary cycle", ErrCorruptStream)
		}
	}
	stack = append(stack, byte(code))
	return stack, nil
}

// Compress encodes src as an LZW 15-bit variable-rate stream. The output is
// byte-for-byte identical to the reference encoder's, including for empty
// input (which encodes to a bare END_OF_STREAM pair).
func Compress(src []byte) []byte {
	w := newBitWriter()
	d := &dict{}
	d.reset()

	pos := 0
	stringCode := endOfStream
	if len(src) > 0 {
		stringCode = int(src[0])
		pos = 1
	}
	for ; pos < len(src); pos++ {
		character := int(src[pos])
		index := d.findChildNode(stringCode, character)
		if d.table[index].codeValue != unused {
			stringCode = d.table[index].codeValue
			continue
		}
		d.table[index].codeValue = d.nextCode
		d.table[index].parentCode = stringCode
		d.table[index].character = byte(character)
		d.nextCode++
		w.writeBits(uint32(stringCode), d.codeBits)
		stringCode = character
		if d.nextCode > maxCode {
			w.writeBits(flushCode, d.codeBits)
			d.reset()
		} else if d.nextCode > d.nextBumpCode {
			w.writeBits(bumpCode, d.codeBits)
			d.codeBits++
			d.nextBumpCode = d.nextBumpCode<<1 | 1
		}
	}
	w.writeBits(uint32(stringCode), d.codeBits)
	w.writeBits(endOfStream, d.codeBits)
	return w.finish()
}

// Decompress decodes an LZW stream produced by Compress or by the reference
// tool. It fails with ErrCorruptStream rather than returning partial or
// silently-wrong output.
func Decompress(src []byte) ([]byte, error) {
	r := newBitReader(src)
	d := &dict{}
	var out []byte
	var stack []byte

	for {
		// A fresh dictionary: the first code after start-up or a flush is
		// always a plain byte.
		d.reset()
		oldCode, err := r.readBits(d.codeBits)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated stream", ErrCorruptStream)
		}
		if oldCode == endOfStream {
			return out, nil
		}
		if oldCode > 255 {
			return nil, fmt.Errorf("%w: expected literal, got code %d", ErrCorruptStream, oldCode)
		}
		character := byte(oldCode)
		out = append(out, character)

		for {
			newCode, err := r.readBits(d.codeBits)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated stream", ErrCorruptStream)
			}
			if newCode == endOfStream {
				return out, nil
			}
			if newCode == flushCode {
				break
			}
			if newCode == bumpCode {
				d.codeBits++
				if d.codeBits > maxBits {
					return nil, fmt.Errorf("%w: code width exceeds %d bits", ErrCorruptStream, maxBits)
				}
				continue
			}
			if newCode > d.nextCode {
				return nil, fmt.Errorf("%w: code %d ahead of dictionary", ErrCorruptStream, newCode)
			}

			stack = stack[:0]
			if newCode == d.nextCode {
				// KwKwK case: the encoder used a code it only just defined.
				stack = append(stack, character)
				stack, err = d.decodeString(stack, oldCode)
			} else {
				stack, err = d.decodeString(stack, newCode)
			}
			if err != nil {
				return nil, err
			}
			character = stack[len(stack)-1]
			for i := len(stack) - 1; i >= 0; i-- {
				out = append(out, stack[i])
			}

			if d.nextCode > maxCode {
				// A well-formed stream flushes before overflowing.
				return nil, fmt.Errorf("%w: dictionary overflow", ErrCorruptStream)
			}
			d.table[d.nextCode].parentCode = oldCode
			d.table[d.nextCode].character = character
			d.nextCode++
			oldCode = newCode
		}
	}
}
