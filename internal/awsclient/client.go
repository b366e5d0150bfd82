package awsclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/dnitsch/s3-credentials/internal/config"
)

var ErrUnableToLoadConfig = errors.New("unable to load aws config")

// Clients holds one client per service, all built from the same aws.Config.
type Clients struct {
	IAM IAMApi
	S3  S3Api
	STS STSApi
}

// New resolves credentials from auth, falling back to the default
// credential chain, and builds the service clients.
func New(ctx context.Context, auth config.AuthConfig) (*Clients, error) {
	cfg, err := LoadConfig(ctx, auth)
	if err != nil {
		return nil, err
	}
	return &Clients{
		IAM: iam.NewFromConfig(cfg),
		S3: s3.NewFromConfig(cfg, func(o *s3.Options) {
			// S3 compatible endpoints rarely support virtual hosted buckets
			o.UsePathStyle = auth.EndpointUrl != ""
		}),
		STS: sts.NewFromConfig(cfg),
	}, nil
}

func LoadConfig(ctx context.Context, auth config.AuthConfig) (aws.Config, error) {
	if err := auth.Validate(); err != nil {
		return aws.Config{}, err
	}

	creds := Credentials{
		AccessKeyId:     auth.AccessKey,
		SecretAccessKey: auth.SecretKey,
		SessionToken:    auth.SessionToken,
	}
	if auth.AuthFile != "" {
		fileCreds, err := LoadAuthFile(auth.AuthFile)
		if err != nil {
			return aws.Config{}, err
		}
		creds = fileCreds
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if auth.Region != "" {
		opts = append(opts, awsconfig.WithRegion(auth.Region))
	}
	if creds.AccessKeyId != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyId, creds.SecretAccessKey, creds.SessionToken)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%s, %w", err, ErrUnableToLoadConfig)
	}
	if cfg.Region == "" {
		// IAM is global, S3 needs a region to sign requests
		cfg.Region = config.DEFAULT_REGION
	}
	if auth.EndpointUrl != "" {
		cfg.BaseEndpoint = aws.String(auth.EndpointUrl)
	}
	return cfg, nil
}
