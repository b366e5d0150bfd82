package cmd

import (
	"github.com/dnitsch/s3-credentials/internal/provision"
	"github.com/spf13/cobra"
)

func newDeleteUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username> [usernames...]",
		Short: "Delete users with their access keys and inline policies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			return provision.New(clients.IAM, clients.S3, cmd.OutOrStdout(), cmd.ErrOrStderr()).DeleteUsers(cmd.Context(), args)
		},
	}
}
