package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendrascience/mcrawfs/cache"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/internal/logging"
	"github.com/dendrascience/mcrawfs/registry"
	"github.com/dendrascience/mcrawfs/version"
)

// NewMountCmd creates and returns the mount subcommand for the mcrawfs CLI.
func NewMountCmd() *cobra.Command {
	var (
		draft            bool
		applyVignette    bool
		normalizeShading bool
		draftScale       int
		customModel      string
		cacheCapacityMiB int64
		ioPoolSize       int64
		cacheWait        time.Duration
		verbose          bool
	)

	cmd := &cobra.Command{
		Use:   "mount SRC DST",
		Short: "Mount a .mcraw container as a directory of DNG frames",
		Long: `Mount projects SRC (a .mcraw container) as a directory tree of DNG frame
files plus an optional audio.wav at DST, decoding and encoding frames on
demand as they are read. Runs in the foreground until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			if pathsOverlap(src, dst) {
				return fmt.Errorf("source %q and destination %q overlap", src, dst)
			}
			if verbose {
				logging.SetLevel(logging.LevelDebug)
			}

			opts := dng.OptNone
			if draft {
				opts |= dng.OptDraft
			}
			if applyVignette {
				opts |= dng.OptApplyVignette
			}
			if normalizeShading {
				opts |= dng.OptNormalizeShading
			}

			reg := registry.New(ContainerOpener, cacheCapacityMiB*1024*1024, ioPoolSize)
			if cacheWait > 0 {
				reg.SetCacheWaitTimeout(cacheWait)
			}

			fmt.Printf("mcrawfs %s starting...\n", version.GetFullVersion())
			id, err := reg.Mount(opts, draftScale, src, dst, customModel)
			if err != nil {
				return fmt.Errorf("mount failed: %w", err)
			}
			logging.Infof("mounted %s at %s as id %d", src, dst, id)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt)
			<-sigChan
			logging.Infof("received interrupt signal, shutting down...")

			if err := reg.Close(); err != nil {
				logging.Warnf("error during shutdown: %v", err)
			}
			logging.Infof("shutdown complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&draft, "draft", false, "Enable draft-scale downsampling")
	cmd.Flags().BoolVar(&applyVignette, "vignette", false, "Apply lens-shading (vignette) correction")
	cmd.Flags().BoolVar(&normalizeShading, "normalize-shading", false, "Normalize the lens-shading map before applying it")
	cmd.Flags().IntVar(&draftScale, "draft-scale", 1, "Spatial downscale factor when --draft is set (1, 2, 4, or 8)")
	cmd.Flags().StringVar(&customModel, "custom-camera-model", "", "Override the DNG UniqueCameraModel tag")
	cmd.Flags().Int64Var(&cacheCapacityMiB, "cache-capacity-mib", registry.DefaultCacheCapacityBytes/(1024*1024), "Content cache capacity, in MiB")
	cmd.Flags().Int64Var(&ioPoolSize, "io-pool-size", 0, "I/O pool worker count (0 selects the default)")
	cmd.Flags().DurationVar(&cacheWait, "cache-wait-timeout", cache.DefaultTimeout, "How long a read waits for a peer's in-progress render before rendering itself")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// pathsOverlap reports whether one of src or dst is the other, or a parent
// directory of the other — mounting a container at (or under) its own
// source path, or vice versa, would make the projected tree and the real
// file observe each other.
func pathsOverlap(path1, path2 string) bool {
	p1 := filepath.Clean(path1)
	p2 := filepath.Clean(path2)
	if p1 == p2 {
		return true
	}
	rel, err := filepath.Rel(p1, p2)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	rel, err = filepath.Rel(p2, p1)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	return false
}
