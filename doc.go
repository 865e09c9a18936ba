// Package main provides the mcrawfs command-line interface.
//
// mcrawfs projects a MotionCam RAW (.mcraw) container as a directory tree
// of DNG frame files plus an optional synthesized audio.wav, decoding and
// encoding each frame on demand as it is read through a FUSE mount.
//
// The main binary supports the following subcommands:
//   - mount: mount a .mcraw container at a destination path
//   - unmount: unmount a previously mounted destination path
//   - list: preview the entries a container would project, without mounting
//   - info: print frame-rate, dimensions, and dropped-frame counts
package main
