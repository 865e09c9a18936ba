// Package cmd provides the command-line interface implementation for
// mcrawfs.
//
// This package contains all the subcommand implementations for the mcrawfs
// CLI tool. It uses the Cobra library for command structure and Fang for
// styled help/error output.
//
// The package is organized into the following commands:
//   - root: command coordinator and entry point
//   - mount: mounts a .mcraw container as a directory of DNG frames
//   - unmount: unmounts a previously mounted directory
//   - list: previews the entries a container would project, without mounting
//   - info: prints frame-rate, dimensions, and dropped-frame counts
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The root command coordinates all
// subcommands.
//
// .mcraw byte-layout decoding is not implemented in this package (or
// anywhere in this module — see decoder.go's ContainerOpener). A build that
// links a real decoder replaces ContainerOpener in an init func; none of
// the subcommands need to change.
package cmd
