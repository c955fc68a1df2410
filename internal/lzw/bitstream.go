package lzw

import "io"

// bitWriter packs codes MSB-first into a growing byte buffer. The final
// partially-filled byte is zero-padded, matching the reference encoder.
type bitWriter struct {
	buf  []byte
	rack byte
	mask byte
}

func newBitWriter() *bitWriter {
	return &bitWriter{mask: 0x80}
}

func (w *bitWriter) writeBits(code uint32, count int) {
	for m := uint32(1) << (count - 1); m != 0; m >>= 1 {
		if code&m != 0 {
			w.rack |= w.mask
		}
		w.mask >>= 1
		if w.mask == 0 {
			w.buf = append(w.buf, w.rack)
			w.rack = 0
			w.mask = 0x80
		}
	}
}

// finish flushes the pending rack byte and returns the packed stream.
func (w *bitWriter) finish() []byte {
	if w.mask != 0x80 {
		w.buf = append(w.buf, w.rack)
		w.rack = 0
		w.mask = 0x80
	}
	return w.buf
}

// bitReader unpacks MSB-first codes from a byte slice.
type bitReader struct {
	buf  []byte
	pos  int
	rack byte
	mask byte
}

func newBitReader(buf []byte) *bitReader {
	return &bitReader{buf: buf, mask: 0x80}
}

// readBits reads count bits as a single right-aligned code. It returns
// io.ErrUnexpectedEOF if the underlying buffer runs out mid-code.
func (r *bitReader) readBits(count int) (int, error) {
	var code int
	for m := 1 << (count - 1); m != 0; m >>= 1 {
		if r.mask == 0x80 {
			if r.pos >= len(r.buf) {
				return 0, io.ErrUnexpectedEOF
			}
			r.rack = r.buf[r.pos]
			r.pos++
		}
		if r.rack&r.mask != 0 {
			code |= m
		}
		r.mask >>= 1
		if r.mask == 0 {
			r.mask = 0x80
		}
	}
	return code, nil
}
