package cmd

import (
	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/dnitsch/s3-credentials/internal/policy"
	"github.com/spf13/cobra"
)

func newPolicyCmd() *cobra.Command {
	var readOnly, writeOnly bool
	policyCmd := &cobra.Command{
		Use:   "policy <bucket> [buckets...]",
		Short: "Output the policy create would attach for the given buckets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := config.ModeFromFlags(readOnly, writeOnly)
			if err != nil {
				return err
			}
			doc, err := policy.Build(args, mode)
			if err != nil {
				return err
			}
			return output.WritePretty(cmd.OutOrStdout(), doc)
		},
	}
	policyCmd.Flags().BoolVarP(&readOnly, "read-only", "", false, "Only allow reading from the bucket, also accepted as -ro")
	policyCmd.Flags().BoolVarP(&writeOnly, "write-only", "", false, "Only allow writing to the bucket")
	return policyCmd
}
