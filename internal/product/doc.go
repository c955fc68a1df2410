// Package product reads and writes radar product files: a line-oriented
// key=value text header terminated by "end_header", followed by fixed-size
// binary side tables and a 2D sample payload that is usually LZW-compressed.
//
// Repeated header keys (table_name, param_name, ...) are stored under
// synthetic numeric-suffix keys (table_name, table_name2, ...) in order of
// appearance, and folded back to their canonical spelling on save. The
// payload shape (polar, rectangular, or vertical-levels) is inferred from
// the pid and format header tags.
package product
