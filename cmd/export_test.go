package cmd

import (
	"context"

	"github.com/dnitsch/s3-credentials/internal/awsclient"
	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/spf13/cobra"
)

var NormaliseArgs = normaliseArgs

// NewTestRootCmd wires every command to clients instead of real AWS ones.
func NewTestRootCmd(clients *awsclient.Clients) *cobra.Command {
	return newRootCmd(func(ctx context.Context, auth config.AuthConfig) (*awsclient.Clients, error) {
		return clients, nil
	})
}

func Run(rootCmd *cobra.Command, args []string) error {
	return run(context.TODO(), rootCmd, args)
}
