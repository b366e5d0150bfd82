package config

import (
	"errors"
	"fmt"

	"github.com/dnitsch/s3-credentials/internal/policy"
)

const (
	SELF_NAME       = "s3-credentials"
	DEFAULT_REGION  = "us-east-1"
	DEFAULT_SECTION = "default"
)

var (
	ErrConflictingFlags = errors.New("conflicting flags")
	ErrMissingArg       = errors.New("missing arg")
)

// KeyFormat is how a newly created access key is printed.
type KeyFormat string

const (
	KeyFormatJSON KeyFormat = "json"
	KeyFormatINI  KeyFormat = "ini"
)

func ParseKeyFormat(s string) (KeyFormat, error) {
	switch f := KeyFormat(s); f {
	case KeyFormatJSON, KeyFormatINI:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q, expected json or ini, %w", s, ErrConflictingFlags)
}

// AuthConfig overrides the default AWS credential chain.
type AuthConfig struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	EndpointUrl  string
	AuthFile     string
	Region       string
}

func (a AuthConfig) Validate() error {
	if a.AuthFile != "" && (a.AccessKey != "" || a.SecretKey != "" || a.SessionToken != "") {
		return fmt.Errorf("--auth cannot be combined with --access-key, --secret-key or --session-token, %w", ErrConflictingFlags)
	}
	if (a.AccessKey == "") != (a.SecretKey == "") {
		return fmt.Errorf("--access-key and --secret-key must be passed together, %w", ErrMissingArg)
	}
	return nil
}

// CreateConfig holds every option of the create flow.
type CreateConfig struct {
	Buckets        []string
	Mode           policy.Mode
	CreateBucket   bool
	BucketRegion   string
	NoUserCreate   bool
	CreateKey      bool
	Username       string
	UsernameFormat string
	// PolicyText replaces the generated policy when set
	PolicyText string
	KeyFormat  KeyFormat
	DryRun     bool
}

// UserName is the explicit --username or one derived from the buckets and mode.
func (c CreateConfig) UserName() string {
	if c.Username != "" {
		return c.Username
	}
	return policy.UserName(c.UsernameFormat, c.Mode, c.Buckets)
}

func (c CreateConfig) Validate() error {
	if len(c.Buckets) == 0 {
		return fmt.Errorf("bucket name, %w", ErrMissingArg)
	}
	if _, err := policy.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.BucketRegion != "" && !c.CreateBucket {
		return fmt.Errorf("--bucket-region can only be used with --create-bucket, %w", ErrConflictingFlags)
	}
	if c.KeyFormat != "" {
		if _, err := ParseKeyFormat(string(c.KeyFormat)); err != nil {
			return err
		}
	}
	return nil
}

// ModeFromFlags maps --read-only and --write-only onto a policy mode,
// read-write when neither is set.
func ModeFromFlags(readOnly, writeOnly bool) (policy.Mode, error) {
	switch {
	case readOnly && writeOnly:
		return "", fmt.Errorf("--read-only and --write-only cannot be used together, %w", ErrConflictingFlags)
	case readOnly:
		return policy.ReadOnly, nil
	case writeOnly:
		return policy.WriteOnly, nil
	}
	return policy.ReadWrite, nil
}
