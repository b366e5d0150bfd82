package awsclient_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/dnitsch/s3-credentials/internal/awsclient"
	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Classify_with(t *testing.T) {
	ttests := map[string]struct {
		err    error
		expect awsclient.Kind
	}{
		"iam no such entity": {
			err:    &smithy.OperationError{ServiceID: "IAM", OperationName: "GetUser", Err: &iamtypes.NoSuchEntityException{Message: aws.String("nope")}},
			expect: awsclient.KindNotFound,
		},
		"s3 head bucket not found": {
			err:    &smithy.OperationError{ServiceID: "S3", OperationName: "HeadBucket", Err: &s3types.NotFound{}},
			expect: awsclient.KindNotFound,
		},
		"generic code": {
			err:    &smithy.GenericAPIError{Code: "NoSuchBucket"},
			expect: awsclient.KindNotFound,
		},
		"entity exists": {
			err:    &iamtypes.EntityAlreadyExistsException{},
			expect: awsclient.KindConflict,
		},
		"access denied": {
			err:    &smithy.GenericAPIError{Code: "AccessDenied"},
			expect: awsclient.KindAccessDenied,
		},
		"http 403 without code": {
			err:    &smithyhttp.ResponseError{Response: &smithyhttp.Response{Response: &http.Response{StatusCode: 403}}, Err: errors.New("forbidden")},
			expect: awsclient.KindAccessDenied,
		},
		"unknown api error": {
			err:    &smithy.GenericAPIError{Code: "Throttling"},
			expect: awsclient.KindOther,
		},
		"plain error": {
			err:    errors.New("dial tcp: i/o timeout"),
			expect: awsclient.KindTransport,
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expect, awsclient.Classify(tt.err))
		})
	}
	assert.True(t, awsclient.IsNotFound(&iamtypes.NoSuchEntityException{}))
	assert.True(t, awsclient.IsConflict(&s3types.BucketAlreadyOwnedByYou{}))
	assert.False(t, awsclient.IsServiceError(errors.New("no credentials")))
	assert.True(t, awsclient.IsServiceError(&smithy.GenericAPIError{Code: "Throttling"}))
}

func Test_ParseAuth_with(t *testing.T) {
	ttests := map[string]struct {
		input     string
		expect    awsclient.Credentials
		expectErr error
	}{
		"json": {
			input:  `{"AccessKeyId": "access", "SecretAccessKey": "secret"}`,
			expect: awsclient.Credentials{AccessKeyId: "access", SecretAccessKey: "secret"},
		},
		"json with token": {
			input:  "  \n{\"AccessKeyId\": \"a\", \"SecretAccessKey\": \"s\", \"SessionToken\": \"t\"}",
			expect: awsclient.Credentials{AccessKeyId: "a", SecretAccessKey: "s", SessionToken: "t"},
		},
		"ini default section": {
			input:  "[other]\naws_access_key_id = o\naws_secret_access_key = os\n[default]\naws_access_key_id = d\naws_secret_access_key = ds\n",
			expect: awsclient.Credentials{AccessKeyId: "d", SecretAccessKey: "ds"},
		},
		"ini first section with a key": {
			input:  "[empty]\nregion = eu-west-1\n[ci]\naws_access_key_id = c\naws_secret_access_key = cs\naws_session_token = ct\n",
			expect: awsclient.Credentials{AccessKeyId: "c", SecretAccessKey: "cs", SessionToken: "ct"},
		},
		"ini without keys": {
			input:     "[default]\nregion = eu-west-1\n",
			expectErr: awsclient.ErrInvalidAuth,
		},
		"json missing secret": {
			input:     `{"AccessKeyId": "access"}`,
			expectErr: awsclient.ErrInvalidAuth,
		},
		"broken json": {
			input:     `{"AccessKeyId": `,
			expectErr: awsclient.ErrInvalidAuth,
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			got, err := awsclient.ParseAuth([]byte(tt.input))
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func Test_LoadAuthFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"AccessKeyId": "a", "SecretAccessKey": "s"}`), 0600))
	got, err := awsclient.LoadAuthFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessKeyId)

	_, err = awsclient.LoadAuthFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, awsclient.ErrInvalidAuth)
}

func Test_WriteINI_is_readable_by_ParseAuth(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, awsclient.WriteINI(buf, awsclient.Credentials{AccessKeyId: "access", SecretAccessKey: "secret"}, config.DEFAULT_SECTION))
	assert.Contains(t, buf.String(), "[default]\n")
	assert.Contains(t, buf.String(), "aws_secret_access_key = secret\n")
	assert.NotContains(t, buf.String(), "aws_session_token")

	got, err := awsclient.ParseAuth(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, awsclient.Credentials{AccessKeyId: "access", SecretAccessKey: "secret"}, got)
}

func Test_LoadConfig_static_credentials(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")

	cfg, err := awsclient.LoadConfig(context.TODO(), config.AuthConfig{
		AccessKey:   "access",
		SecretKey:   "secret",
		Region:      "eu-west-2",
		EndpointUrl: "http://localhost:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-2", cfg.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(cfg.BaseEndpoint))

	creds, err := cfg.Credentials.Retrieve(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "access", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	_, err = awsclient.LoadConfig(context.TODO(), config.AuthConfig{AccessKey: "only"})
	assert.ErrorIs(t, err, config.ErrMissingArg)
}

func Test_UserRecord(t *testing.T) {
	created := time.Date(2021, 11, 3, 18, 21, 5, 0, time.UTC)
	r := awsclient.UserRecord(iamtypes.User{
		Path:       aws.String("/"),
		UserName:   aws.String("one"),
		UserId:     aws.String("AID1"),
		Arn:        aws.String("arn:aws:iam::1:user/one"),
		CreateDate: &created,
		Tags:       []iamtypes.Tag{{Key: aws.String("team"), Value: aws.String("data")}},
	})
	b, err := output.CompactJSON(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Path": "/", "UserName": "one", "UserId": "AID1", "Arn": "arn:aws:iam::1:user/one", "CreateDate": "2021-11-03 18:21:05+00:00", "Tags": [{"Key": "team", "Value": "data"}]}`, string(b))
}

func Test_Describe(t *testing.T) {
	ttests := map[string]struct {
		err    error
		expect string
	}{
		"operation wrapping api error": {
			err: &smithy.OperationError{
				ServiceID:     "IAM",
				OperationName: "GetUser",
				Err:           &smithy.GenericAPIError{Code: "AccessDenied", Message: "not allowed"},
			},
			expect: "IAM GetUser: AccessDenied: not allowed",
		},
		"bare api error": {
			err:    &smithy.GenericAPIError{Code: "Throttling", Message: "slow down"},
			expect: "Throttling: slow down",
		},
		"wrapped operation error keeps context": {
			err: fmt.Errorf("looking up user one: %w", &smithy.OperationError{
				ServiceID:     "IAM",
				OperationName: "GetUser",
				Err:           &smithy.GenericAPIError{Code: "AccessDenied", Message: "not allowed"},
			}),
			expect: "looking up user one: IAM GetUser: AccessDenied: not allowed",
		},
		"plain error": {
			err:    errors.New("boom"),
			expect: "boom",
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expect, awsclient.Describe(tt.err))
		})
	}
}
