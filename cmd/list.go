package cmd

import (
	"github.com/dnitsch/s3-credentials/internal/inventory"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/spf13/cobra"
)

type listFlags struct {
	array bool
	nl    bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.array, "array", "", false, "Output a single JSON array")
	cmd.Flags().BoolVarP(&f.nl, "nl", "", false, "Output newline-delimited JSON")
}

func newListUsersCmd(opts *rootOptions) *cobra.Command {
	flags := &listFlags{}
	listUsersCmd := &cobra.Command{
		Use:   "list-users",
		Short: "List all users for this account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := output.ModeFromFlags(flags.array, flags.nl)
			if err != nil {
				return err
			}
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), inventory.Users(cmd.Context(), clients.IAM), mode)
		},
	}
	flags.register(listUsersCmd)
	return listUsersCmd
}

func newListBucketsCmd(opts *rootOptions) *cobra.Command {
	flags := &listFlags{}
	listBucketsCmd := &cobra.Command{
		Use:   "list-buckets",
		Short: "List all buckets owned by this account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := output.ModeFromFlags(flags.array, flags.nl)
			if err != nil {
				return err
			}
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), inventory.Buckets(cmd.Context(), clients.S3), mode)
		},
	}
	flags.register(listBucketsCmd)
	return listBucketsCmd
}

func newListUserPoliciesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-user-policies [usernames...]",
		Short: "List inline policies for the given users, or for every user",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			return inventory.WriteUserPolicies(cmd.Context(), clients.IAM, cmd.OutOrStdout(), args)
		},
	}
}
