package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/mcrawfs/version"
)

// NewRootCmd creates and returns the root cobra command for the mcrawfs CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcrawfs",
		Short: "mcrawfs - projects a .mcraw container as a directory of DNG frames and a WAV",
		Long: `mcrawfs mounts a MotionCam RAW (.mcraw) container as a directory tree of
DNG frame files plus an optional synthesized audio.wav, decoding and encoding
each frame on demand as it is read.

Use subcommands to perform different operations:
  - mount: mount a .mcraw container at a destination path
  - unmount: unmount a previously mounted destination path
  - list: preview the entries a container would project, without mounting
  - info: print frame-rate, dimensions, and dropped-frame counts for a container`,
		Version: version.GetFullVersion(),
	}

	groupFilesystem := "filesystem"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	unmountCmd := NewUnmountCmd()
	listCmd := NewListCmd()
	infoCmd := NewInfoCmd()

	mountCmd.GroupID = groupFilesystem
	unmountCmd.GroupID = groupFilesystem
	listCmd.GroupID = groupUtilities
	infoCmd.GroupID = groupUtilities

	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(unmountCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)

	return rootCmd
}
