// Package msx reads MSx volume-sweep files: little-endian binary files
// carrying one antenna sweep as a self-describing sequence of fixed-layout
// headers, variable-length metadata blocks, and per-gate sample arrays.
//
// A file opens with a 12-byte common prefix (magic "EDPF", a version byte,
// and a record length) followed by a version-specific sweep header, one
// MomentInfo record per recorded moment, and then ray records until the end
// of the stream. Load dispatches on the version byte to the v1 or v2 layout.
//
// The package also derives per-sweep radar parameters (polarization mode,
// PRF pair, Nyquist velocity/width) from the sweep's embedded XML metadata,
// falling back to the first ray header when no metadata is present; see
// PolarSweepInfo.
package msx
