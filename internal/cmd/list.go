package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/mcrawfs/cache"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/registry"
	"github.com/dendrascience/mcrawfs/vfs"
)

// NewListCmd creates and returns the list subcommand: a dry-run preview of
// the entries a container would project, without mounting it.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list SRC",
		Short: "List the files a .mcraw container would project, without mounting",
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

			for _, e := range core.ListFiles("") {
				fmt.Printf("%s\t%d bytes\n", e.Path(), e.Size)
			}
			return nil
		},
	}
	return cmd
}
