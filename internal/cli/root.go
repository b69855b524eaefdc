// Package cli implements the vcinventory command.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/obinnaokechukwu/vidcapinv"
	"github.com/obinnaokechukwu/vidcapinv/internal/config"
	"github.com/obinnaokechukwu/vidcapinv/internal/logging"
)

const appName = "vcinventory"

type app struct {
	cfgFile string
	cfg     *config.Config
	// extra is appended after the configured options.
	extra []vidcapinv.Option
}

// NewRootCmd builds the command tree. opts are applied to every inventory
// request after the configured ones.
func NewRootCmd(opts ...vidcapinv.Option) *cobra.Command {
	a := &app{extra: opts}
	d := config.Default()

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "List the video capture devices attached to this machine and the frame sizes they support",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			base := logging.New(cmd.ErrOrStderr(), appName, cfg.Log.Level, cfg.Log.Format)
			cmd.SetContext(base.WithContext(cmd.Context()))

			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "Path to config file (default: ./vidcapinv.yaml)")
	pf.String("log-level", d.Log.Level, "Log level: trace, debug, info, warn, error")
	pf.String("log-format", d.Log.Format, "Log format: console, json")
	pf.String("platform", "", "Platform name to use instead of the detected one")
	pf.String("backend", d.Backend, "Linux backend: auto, v4l2, native")
	pf.String("library-path", "", "Extra directory searched for the native library")
	pf.String("device-dir", d.DeviceDir, "Directory scanned for video device nodes")
	pf.Int("probe-concurrency", d.ProbeConcurrency, "Device nodes probed at once")
	pf.Duration("timeout", d.Timeout, "Give up on an inventory after this long (0 waits forever)")

	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newWatchCmd())

	return rootCmd
}

// inventory takes one inventory with the configured options.
func (a *app) inventory(ctx context.Context) (*vidcapinv.Inventory, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	opts := append(a.cfg.Options(), vidcapinv.WithLogger(*zerolog.Ctx(ctx)))
	opts = append(opts, a.extra...)

	return vidcapinv.GetContext(ctx, opts...)
}

func Execute() {
	ExecuteContext(context.Background())
}

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
