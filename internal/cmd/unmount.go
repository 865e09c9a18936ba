package cmd

import (
	"fmt"

	"bazil.org/fuse"
	"github.com/spf13/cobra"
)

// NewUnmountCmd creates and returns the unmount subcommand for the mcrawfs
// CLI. Unlike mount, unmount is a standalone utility: it does not go through
// a Registry (there is none to go through — it may be run from a different
// process than the one that mounted), it just asks the kernel to drop the
// mount at the given path, since the CLI surface sits outside the core.
func NewUnmountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmount MOUNTPOINT",
		Short: "Unmount a previously mounted mcrawfs directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mountPath := args[0]
			if err := fuse.Unmount(mountPath); err != nil {
				return fmt.Errorf("unmount %s: %w", mountPath, err)
			}
			fmt.Printf("unmounted %s\n", mountPath)
			return nil
		},
	}
	return cmd
}
