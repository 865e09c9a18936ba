// Package dng turns one decoded frame into a complete DNG byte stream:
// CFA resolution, working-precision selection, per-block linearization and
// optional lens-shading correction, narrowest-fit bit packing, and TIFF/DNG
// tag assembly.
package dng
