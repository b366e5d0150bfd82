package cmd

import (
	"github.com/dnitsch/s3-credentials/internal/inventory"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var callerIdentity bool
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Identify currently authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			var rec output.Record
			if callerIdentity {
				rec, err = inventory.CallerIdentity(cmd.Context(), clients.STS)
			} else {
				rec, err = inventory.Whoami(cmd.Context(), clients.IAM)
			}
			if err != nil {
				return err
			}
			return output.WritePretty(cmd.OutOrStdout(), rec)
		},
	}
	whoamiCmd.Flags().BoolVarP(&callerIdentity, "caller-identity", "", false, "Use STS GetCallerIdentity, which also works for assumed roles")
	return whoamiCmd
}
