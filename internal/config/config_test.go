package config_test

import (
	"testing"

	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/policy"
	"github.com/stretchr/testify/assert"
)

func Test_CreateConfig_Validate_with(t *testing.T) {
	ttests := map[string]struct {
		conf      config.CreateConfig
		expectErr error
	}{
		"minimal": {
			conf: config.CreateConfig{Buckets: []string{"b"}, Mode: policy.ReadWrite},
		},
		"no bucket": {
			conf:      config.CreateConfig{Mode: policy.ReadWrite},
			expectErr: config.ErrMissingArg,
		},
		"bad mode": {
			conf:      config.CreateConfig{Buckets: []string{"b"}, Mode: "all"},
			expectErr: policy.ErrUnknownMode,
		},
		"region without create": {
			conf:      config.CreateConfig{Buckets: []string{"b"}, Mode: policy.ReadWrite, BucketRegion: "eu-west-1"},
			expectErr: config.ErrConflictingFlags,
		},
		"bad key format": {
			conf:      config.CreateConfig{Buckets: []string{"b"}, Mode: policy.ReadWrite, KeyFormat: "yaml"},
			expectErr: config.ErrConflictingFlags,
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}
}

func Test_CreateConfig_UserName(t *testing.T) {
	conf := config.CreateConfig{Buckets: []string{"pytest-bucket-simonw-1"}, Mode: policy.ReadWrite}
	assert.Equal(t, "s3.read-write.pytest-bucket-simonw-1", conf.UserName())
	conf.Username = "explicit"
	assert.Equal(t, "explicit", conf.UserName())
}

func Test_AuthConfig_Validate(t *testing.T) {
	assert.NoError(t, config.AuthConfig{}.Validate())
	assert.NoError(t, config.AuthConfig{AccessKey: "a", SecretKey: "s"}.Validate())
	assert.ErrorIs(t, config.AuthConfig{AccessKey: "a"}.Validate(), config.ErrMissingArg)
	assert.ErrorIs(t, config.AuthConfig{AuthFile: "f", AccessKey: "a", SecretKey: "s"}.Validate(), config.ErrConflictingFlags)
}

func Test_ModeFromFlags(t *testing.T) {
	ttests := map[string]struct {
		readOnly, writeOnly bool
		expect              policy.Mode
		expectErr           error
	}{
		"neither":    {expect: policy.ReadWrite},
		"read only":  {readOnly: true, expect: policy.ReadOnly},
		"write only": {writeOnly: true, expect: policy.WriteOnly},
		"both":       {readOnly: true, writeOnly: true, expectErr: config.ErrConflictingFlags},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			got, err := config.ModeFromFlags(tt.readOnly, tt.writeOnly)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}
