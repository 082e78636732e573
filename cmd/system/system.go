package system

import "github.com/spf13/cobra"

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewKeygenCommand())
	cmd.AddCommand(NewHashCommand())
	cmd.AddCommand(NewGenDocsCommand())

	return cmd
}
