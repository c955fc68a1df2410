// Package lzw implements the LZW 15-bit variable-rate codec used by the
// product-file container.
//
// The bit-level format matches the historical Lassen Research lzw.c/bitx.c
// implementation: codes start at 9 bits and grow one bit at a time (announced
// in-band with a BUMP code) up to 15 bits, the dictionary is flushed in-band
// with a FLUSH code when it fills, and the stream is terminated with an
// END_OF_STREAM code. Bits are packed MSB-first. Streams produced by this
// package decompress with the reference tool and vice versa.
package lzw
