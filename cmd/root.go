package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/dnitsch/s3-credentials/internal/awsclient"
	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/util"
	"github.com/spf13/cobra"
)

type clientFactory func(ctx context.Context, auth config.AuthConfig) (*awsclient.Clients, error)

// rootOptions carries the global flags down to every sub command.
type rootOptions struct {
	auth       config.AuthConfig
	verbose    bool
	newClients clientFactory
}

func (o *rootOptions) clients(cmd *cobra.Command) (*awsclient.Clients, error) {
	return o.newClients(cmd.Context(), o.auth)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(awsclient.New)
}

func newRootCmd(factory clientFactory) *cobra.Command {
	opts := &rootOptions{newClients: factory}
	rootCmd := &cobra.Command{
		Use:   config.SELF_NAME,
		Short: "CLI tool for creating credentials to access specific S3 buckets",
		Long: `CLI tool for creating AWS credentials scoped to specific S3 buckets.
Creates an IAM user per bucket selection, attaches an inline policy granting
read-write, read-only or write-only access and returns a new access key.
Also lists users, buckets and the inline policies attached to users.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.InitLogger(cmd.ErrOrStderr(), opts.verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.auth.AccessKey, "access-key", "", "", "AWS access key ID")
	rootCmd.PersistentFlags().StringVarP(&opts.auth.SecretKey, "secret-key", "", "", "AWS secret access key")
	rootCmd.PersistentFlags().StringVarP(&opts.auth.SessionToken, "session-token", "", "", "AWS session token")
	rootCmd.PersistentFlags().StringVarP(&opts.auth.EndpointUrl, "endpoint-url", "", "", "Custom endpoint URL, e.g. for an S3 compatible service")
	rootCmd.PersistentFlags().StringVarP(&opts.auth.AuthFile, "auth", "a", "", "Path to a JSON or INI file containing credentials to use")
	rootCmd.PersistentFlags().StringVarP(&opts.auth.Region, "region", "", "", "AWS region, defaults to the SDK default chain then "+config.DEFAULT_REGION)
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newWhoamiCmd(opts),
		newListUsersCmd(opts),
		newListBucketsCmd(opts),
		newListUserPoliciesCmd(opts),
		newCreateCmd(opts),
		newPolicyCmd(),
		newDeleteUserCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := run(context.Background(), NewRootCmd(), os.Args[1:]); err != nil {
		util.Exit(errors.New(awsclient.Describe(err)))
	}
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(normaliseArgs(args))
	return rootCmd.ExecuteContext(ctx)
}

// normaliseArgs rewrites the single dash "-ro" spelling, which pflag would
// read as the shorthands -r -o, to --read-only.
func normaliseArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		if a == "-ro" {
			a = "--read-only"
		}
		out = append(out, a)
	}
	return out
}
