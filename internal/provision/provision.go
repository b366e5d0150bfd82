package provision

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dnitsch/s3-credentials/internal/awsclient"
	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/listing"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/dnitsch/s3-credentials/internal/policy"
	"github.com/dnitsch/s3-credentials/internal/util"
)

var (
	ErrBucketNotFound    = errors.New("bucket does not exist")
	ErrUserNotFound      = errors.New("user does not exist")
	ErrUnableToProvision = errors.New("unable to provision")
	ErrUnableToDelete    = errors.New("unable to delete")
)

type Provisioner struct {
	iam awsclient.IAMApi
	s3  awsclient.S3Api
	// out receives the machine readable payload, progress the status lines
	out      io.Writer
	progress io.Writer
}

func New(iamApi awsclient.IAMApi, s3Api awsclient.S3Api, out, progress io.Writer) *Provisioner {
	return &Provisioner{iam: iamApi, s3: s3Api, out: out, progress: progress}
}

// Create runs VerifyBucket, ResolveUser, AttachPolicy and, when
// conf.CreateKey is set, ProvisionKey. The first failing step aborts.
func (p *Provisioner) Create(ctx context.Context, conf config.CreateConfig) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	username := conf.UserName()

	doc, err := policyDocument(conf)
	if err != nil {
		return err
	}
	policyText, err := output.CompactJSON(doc)
	if err != nil {
		return fmt.Errorf("%s, %w", err, policy.ErrInvalidPolicy)
	}

	if conf.DryRun {
		return p.dryRun(conf, username, doc)
	}

	for _, bucket := range conf.Buckets {
		if err := p.verifyBucket(ctx, bucket, conf); err != nil {
			return err
		}
	}
	if err := p.resolveUser(ctx, username, conf.NoUserCreate); err != nil {
		return err
	}
	if err := p.attachPolicy(ctx, username, string(policyText)); err != nil {
		return err
	}
	if !conf.CreateKey {
		return nil
	}
	return p.provisionKey(ctx, username, conf.KeyFormat)
}

func policyDocument(conf config.CreateConfig) (any, error) {
	if conf.PolicyText != "" {
		return policy.FromTemplate(conf.PolicyText, conf.Buckets)
	}
	return policy.Build(conf.Buckets, conf.Mode)
}

func (p *Provisioner) verifyBucket(ctx context.Context, bucket string, conf config.CreateConfig) error {
	_, err := p.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if !awsclient.IsServiceError(err) {
		return fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	util.Debug("head bucket failed", "bucket", bucket, "kind", awsclient.Classify(err), "error", err)

	if !conf.CreateBucket {
		return fmt.Errorf("%s, pass --create-bucket to create it: %w", bucket, ErrBucketNotFound)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if conf.BucketRegion != "" && conf.BucketRegion != config.DEFAULT_REGION {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(conf.BucketRegion),
		}
	}
	if _, err := p.s3.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	util.Writeln(p.progress, "Created bucket: %s", bucket)
	return nil
}

// resolveUser reuses an existing user, creating it only when it is absent.
func (p *Provisioner) resolveUser(ctx context.Context, username string, noCreate bool) error {
	_, err := p.iam.GetUser(ctx, &iam.GetUserInput{UserName: aws.String(username)})
	if err == nil {
		return nil
	}
	if !awsclient.IsNotFound(err) {
		return fmt.Errorf("looking up user %s: %w", username, err)
	}
	if noCreate {
		return fmt.Errorf("%s, remove --no-user-create to create it: %w", username, ErrUserNotFound)
	}

	if _, err := p.iam.CreateUser(ctx, &iam.CreateUserInput{UserName: aws.String(username)}); err != nil {
		if awsclient.IsConflict(err) {
			util.Debug("user created concurrently, reusing", "user", username)
			return nil
		}
		return fmt.Errorf("creating user %s: %w", username, err)
	}
	util.Writeln(p.progress, "Created user: %s", username)
	return nil
}

// attachPolicy names the inline policy after the user, so re-running create
// for the same buckets replaces the policy instead of adding one.
func (p *Provisioner) attachPolicy(ctx context.Context, username, document string) error {
	if _, err := p.iam.PutUserPolicy(ctx, &iam.PutUserPolicyInput{
		PolicyDocument: aws.String(document),
		PolicyName:     aws.String(username),
		UserName:       aws.String(username),
	}); err != nil {
		return fmt.Errorf("attaching policy to %s: %w", username, err)
	}
	util.Writeln(p.progress, "Attached policy %s to user %s", username, username)
	return nil
}

func (p *Provisioner) provisionKey(ctx context.Context, username string, format config.KeyFormat) error {
	resp, err := p.iam.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{UserName: aws.String(username)})
	if err != nil {
		return fmt.Errorf("creating access key for %s: %w", username, err)
	}
	if resp.AccessKey == nil {
		return fmt.Errorf("empty access key for %s, %w", username, ErrUnableToProvision)
	}
	util.Writeln(p.progress, "Created access key for user: %s", username)

	if format == config.KeyFormatINI {
		return awsclient.WriteINI(p.out, awsclient.Credentials{
			AccessKeyId:     aws.ToString(resp.AccessKey.AccessKeyId),
			SecretAccessKey: aws.ToString(resp.AccessKey.SecretAccessKey),
		}, config.DEFAULT_SECTION)
	}
	return output.WritePretty(p.out, awsclient.AccessKeyRecord(*resp.AccessKey))
}

func (p *Provisioner) dryRun(conf config.CreateConfig, username string, doc any) error {
	if conf.CreateBucket {
		for _, bucket := range conf.Buckets {
			util.Writeln(p.progress, "Would create bucket: %s", bucket)
		}
	}
	if !conf.NoUserCreate {
		util.Writeln(p.progress, "Would create user: %s", username)
	}
	util.Writeln(p.progress, "Would attach policy called %s to user %s:", username, username)
	if err := output.WritePretty(p.progress, doc); err != nil {
		return err
	}
	if conf.CreateKey {
		util.Writeln(p.progress, "Would call create access key for user: %s", username)
	}
	return nil
}

// DeleteUsers removes every access key and inline policy of each user, then
// the user. Users are processed in order and the first failure stops.
func (p *Provisioner) DeleteUsers(ctx context.Context, usernames []string) error {
	for _, username := range usernames {
		if err := p.deleteUser(ctx, username); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) deleteUser(ctx context.Context, username string) error {
	if _, err := p.iam.GetUser(ctx, &iam.GetUserInput{UserName: aws.String(username)}); err != nil {
		if awsclient.IsNotFound(err) {
			return fmt.Errorf("%s: %w", username, ErrUserNotFound)
		}
		return fmt.Errorf("looking up user %s: %w", username, err)
	}

	// drain the listings before deleting so markers stay valid
	keys, err := listing.Collect(listing.Flatten[*iam.ListAccessKeysOutput, *iam.Options](ctx,
		iam.NewListAccessKeysPaginator(p.iam, &iam.ListAccessKeysInput{UserName: aws.String(username)}),
		func(o *iam.ListAccessKeysOutput) []iamtypes.AccessKeyMetadata { return o.AccessKeyMetadata }))
	if err != nil {
		return fmt.Errorf("listing access keys of %s: %s, %w", username, err, ErrUnableToDelete)
	}
	for _, key := range keys {
		if _, err := p.iam.DeleteAccessKey(ctx, &iam.DeleteAccessKeyInput{
			UserName:    aws.String(username),
			AccessKeyId: key.AccessKeyId,
		}); err != nil {
			return fmt.Errorf("deleting access key %s of %s: %s, %w", aws.ToString(key.AccessKeyId), username, err, ErrUnableToDelete)
		}
		util.Writeln(p.progress, "Deleted access key %s for user %s", aws.ToString(key.AccessKeyId), username)
	}

	policies, err := listing.Collect(listing.Flatten[*iam.ListUserPoliciesOutput, *iam.Options](ctx,
		iam.NewListUserPoliciesPaginator(p.iam, &iam.ListUserPoliciesInput{UserName: aws.String(username)}),
		func(o *iam.ListUserPoliciesOutput) []string { return o.PolicyNames }))
	if err != nil {
		return fmt.Errorf("listing policies of %s: %s, %w", username, err, ErrUnableToDelete)
	}
	for _, name := range policies {
		if _, err := p.iam.DeleteUserPolicy(ctx, &iam.DeleteUserPolicyInput{
			UserName:   aws.String(username),
			PolicyName: aws.String(name),
		}); err != nil {
			return fmt.Errorf("deleting policy %s of %s: %s, %w", name, username, err, ErrUnableToDelete)
		}
		util.Writeln(p.progress, "Deleted policy %s for user %s", name, username)
	}

	if _, err := p.iam.DeleteUser(ctx, &iam.DeleteUserInput{UserName: aws.String(username)}); err != nil {
		return fmt.Errorf("deleting user %s: %s, %w", username, err, ErrUnableToDelete)
	}
	util.Writeln(p.progress, "Deleted user: %s", username)
	return nil
}
