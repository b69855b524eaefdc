package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/obinnaokechukwu/vidcapinv/internal/hotplug"
)

func (a *app) newWatchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the inventory again whenever a video device node is added or removed",
		Long: "Watches the device directory for videoN nodes. Each change triggers a fresh, " +
			"independent inventory. Useful with the v4l2 backend on Linux.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)
			out := cmd.OutOrStdout()

			w, err := hotplug.New(a.cfg.DeviceDir, 0)
			if err != nil {
				return err
			}

			if err := a.printInventory(ctx, cmd, output); err != nil {
				_ = w.Close()
				return err
			}

			logger.Info().Str("dir", a.cfg.DeviceDir).Msg("watching for video devices")
			return w.Run(ctx, func(ctx context.Context, changes []hotplug.Change) {
				for _, c := range changes {
					logger.Info().Str("node", c.Node).Bool("added", c.Added).Msg("video device changed")
				}
				fmt.Fprintln(out)
				if err := a.printInventory(ctx, cmd, output); err != nil {
					logger.Error().Err(err).Msg("inventory failed")
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json, yaml")

	return cmd
}

func (a *app) printInventory(ctx context.Context, cmd *cobra.Command, output string) error {
	inv, err := a.inventory(ctx)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), inv, output)
}
