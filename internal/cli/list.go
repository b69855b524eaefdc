package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the attached video capture devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			inv, err := a.inventory(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), inv, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json, yaml")

	return cmd
}
