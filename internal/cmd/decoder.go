package cmd

import (
	"fmt"

	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/vfserr"
)

// ContainerOpener is the container.Opener every subcommand uses to open a
// .mcraw source path. Container byte-layout decoding is treated as an
// external collaborator ("a library providing frame enumeration, per-frame
// raw-pixel loading, and audio-chunk loading is assumed") — this package
// never parses the format itself. ContainerOpener is a package variable
// rather than a constant specifically so a build that links a real decoder
// can replace it in an init func.
var ContainerOpener container.Opener = unimplementedOpener

func unimplementedOpener(sourcePath string) (container.Decoder, error) {
	return nil, fmt.Errorf("%w: no .mcraw container reader is linked into this build; see internal/cmd.ContainerOpener", vfserr.ErrInvalidFormat)
}
