package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/mcrawfs/cache"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/registry"
	"github.com/dendrascience/mcrawfs/vfs"
)

// NewInfoCmd creates and returns the info subcommand: prints the frame
// rate, dimensions, and dropped-frame count mount construction derives for
// a container, without mounting it.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info SRC",
		Short: "Print frame-rate, dimensions, and dropped-frame counts for a .mcraw container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]

			c := cache.New(registry.DefaultCacheCapacityBytes)
			pools := vfs.NewPools(vfs.DefaultIOPoolSize)

			core, err := vfs.NewCore(src, ContainerOpener, c, pools, dng.OptNone, 1, "")
			if err != nil {
				return fmt.Errorf("opening %s: %w", src, err)
			}
			defer core.Close()

			info := core.FileInfo()
			fmt.Printf("fps:            %.3f\n", info.FPS)
			fmt.Printf("total frames:   %d\n", info.TotalFrames)
			fmt.Printf("dropped frames: %d\n", info.DroppedFrames)
			fmt.Printf("width:          %d\n", info.Width)
			fmt.Printf("height:         %d\n", info.Height)
			return nil
		},
	}
	return cmd
}
