// Package polar builds Plan Position Indicator matrices from loaded sweeps
// and resamples them onto Cartesian rasters.
//
// A PPI is a 360-azimuth by N-gate matrix of decoded physical values for one
// moment. The azimuth-matrix build rounds each ray onto integer degree bins,
// handling the 0/360 seam and overlapping ray edges. The polar-to-rect
// resampler inverse-maps every raster pixel to its nearest gate; it comes in
// a per-pixel and a row-vectorized form that produce bitwise-identical
// output.
package polar
