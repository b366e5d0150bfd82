package cmd

import (
	"fmt"
	"os"

	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/policy"
	"github.com/dnitsch/s3-credentials/internal/provision"
	"github.com/spf13/cobra"
)

type createFlags struct {
	createBucket   bool
	bucketRegion   string
	readOnly       bool
	writeOnly      bool
	noUserCreate   bool
	noAccessKey    bool
	username       string
	usernameFormat string
	policyFile     string
	format         string
	dryRun         bool
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	flags := &createFlags{}
	createCmd := &cobra.Command{
		Use:   "create <bucket> [buckets...]",
		Short: "Create and return new AWS credentials for specified S3 buckets",
		Long: `Create an IAM user with an inline policy granting access to the given
buckets, then create and print an access key for that user.
Progress is written to stderr, the access key to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := flags.createConfig(args)
			if err != nil {
				return err
			}
			clients, err := opts.clients(cmd)
			if err != nil {
				return err
			}
			return provision.New(clients.IAM, clients.S3, cmd.OutOrStdout(), cmd.ErrOrStderr()).Create(cmd.Context(), conf)
		},
	}
	createCmd.Flags().BoolVarP(&flags.createBucket, "create-bucket", "c", false, "Create buckets if they do not already exist")
	createCmd.Flags().StringVarP(&flags.bucketRegion, "bucket-region", "", "", "Region in which to create buckets")
	createCmd.Flags().BoolVarP(&flags.readOnly, "read-only", "", false, "Only allow reading from the bucket, also accepted as -ro")
	createCmd.Flags().BoolVarP(&flags.writeOnly, "write-only", "", false, "Only allow writing to the bucket")
	createCmd.Flags().BoolVarP(&flags.noUserCreate, "no-user-create", "", false, "Fail instead of creating the user when it does not exist")
	createCmd.Flags().BoolVarP(&flags.noAccessKey, "no-access-key", "", false, "Attach the policy without creating an access key")
	createCmd.Flags().StringVarP(&flags.username, "username", "", "", "Username to create or existing user to use")
	createCmd.Flags().StringVarP(&flags.usernameFormat, "username-format", "", "", "Format for generated usernames, placeholders {permission} and {buckets}")
	createCmd.Flags().StringVarP(&flags.policyFile, "policy", "", "", "Path to a custom policy document, "+policy.BucketPlaceholder+" is replaced with the bucket")
	createCmd.Flags().StringVarP(&flags.format, "format", "f", string(config.KeyFormatJSON), "Output format for the access key: json or ini")
	createCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "", false, "Show what would be done without calling AWS")
	return createCmd
}

func (f *createFlags) createConfig(buckets []string) (config.CreateConfig, error) {
	mode, err := config.ModeFromFlags(f.readOnly, f.writeOnly)
	if err != nil {
		return config.CreateConfig{}, err
	}
	if f.username != "" && f.usernameFormat != "" {
		return config.CreateConfig{}, fmt.Errorf("--username and --username-format cannot be used together, %w", config.ErrConflictingFlags)
	}
	format, err := config.ParseKeyFormat(f.format)
	if err != nil {
		return config.CreateConfig{}, err
	}

	conf := config.CreateConfig{
		Buckets:        buckets,
		Mode:           mode,
		CreateBucket:   f.createBucket,
		BucketRegion:   f.bucketRegion,
		NoUserCreate:   f.noUserCreate,
		CreateKey:      !f.noAccessKey,
		Username:       f.username,
		UsernameFormat: f.usernameFormat,
		KeyFormat:      format,
		DryRun:         f.dryRun,
	}
	if f.policyFile != "" {
		if f.readOnly || f.writeOnly {
			return config.CreateConfig{}, fmt.Errorf("--policy cannot be combined with --read-only or --write-only, %w", config.ErrConflictingFlags)
		}
		b, err := os.ReadFile(f.policyFile)
		if err != nil {
			return config.CreateConfig{}, fmt.Errorf("reading policy file: %s, %w", err, config.ErrMissingArg)
		}
		conf.PolicyText = string(b)
	}
	return conf, conf.Validate()
}
