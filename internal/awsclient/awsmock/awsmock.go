// Package awsmock provides recording test doubles for the awsclient
// interfaces. Every call is appended to a shared Recorder so tests can
// assert on the exact order of API calls across services. Unset funcs
// return a successful, mostly empty response.
package awsmock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/dnitsch/s3-credentials/internal/awsclient"
)

type Call struct {
	Op    string
	Input any
}

// String renders the call like "GetUser(UserName=x)" using the fields that
// identify the target of the call.
func (c Call) String() string {
	switch in := c.Input.(type) {
	case *s3.HeadBucketInput:
		return fmt.Sprintf("%s(Bucket=%s)", c.Op, aws.ToString(in.Bucket))
	case *s3.CreateBucketInput:
		return fmt.Sprintf("%s(Bucket=%s)", c.Op, aws.ToString(in.Bucket))
	case *iam.GetUserInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.CreateUserInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.DeleteUserInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.PutUserPolicyInput:
		return fmt.Sprintf("%s(PolicyDocument=%s, PolicyName=%s, UserName=%s)", c.Op, aws.ToString(in.PolicyDocument), aws.ToString(in.PolicyName), aws.ToString(in.UserName))
	case *iam.GetUserPolicyInput:
		return fmt.Sprintf("%s(UserName=%s, PolicyName=%s)", c.Op, aws.ToString(in.UserName), aws.ToString(in.PolicyName))
	case *iam.DeleteUserPolicyInput:
		return fmt.Sprintf("%s(UserName=%s, PolicyName=%s)", c.Op, aws.ToString(in.UserName), aws.ToString(in.PolicyName))
	case *iam.ListUserPoliciesInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.CreateAccessKeyInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.ListAccessKeysInput:
		return fmt.Sprintf("%s(UserName=%s)", c.Op, aws.ToString(in.UserName))
	case *iam.DeleteAccessKeyInput:
		return fmt.Sprintf("%s(UserName=%s, AccessKeyId=%s)", c.Op, aws.ToString(in.UserName), aws.ToString(in.AccessKeyId))
	}
	return c.Op + "()"
}

type Recorder struct {
	Calls []Call
}

func (r *Recorder) record(op string, input any) {
	if r != nil {
		r.Calls = append(r.Calls, Call{Op: op, Input: input})
	}
}

// Strings returns every recorded call rendered with Call.String.
func (r *Recorder) Strings() []string {
	out := []string{}
	for _, c := range r.Calls {
		out = append(out, c.String())
	}
	return out
}

// Ops returns the operation names in call order.
func (r *Recorder) Ops() []string {
	out := []string{}
	for _, c := range r.Calls {
		out = append(out, c.Op)
	}
	return out
}

func (r *Recorder) IAM() *IAM { return &IAM{rec: r} }

func (r *Recorder) S3() *S3 { return &S3{rec: r} }

func (r *Recorder) STS() *STS { return &STS{rec: r} }

var (
	_ awsclient.IAMApi = (*IAM)(nil)
	_ awsclient.S3Api  = (*S3)(nil)
	_ awsclient.STSApi = (*STS)(nil)
)

type IAM struct {
	rec *Recorder

	GetUserFn          func(ctx context.Context, params *iam.GetUserInput) (*iam.GetUserOutput, error)
	CreateUserFn       func(ctx context.Context, params *iam.CreateUserInput) (*iam.CreateUserOutput, error)
	DeleteUserFn       func(ctx context.Context, params *iam.DeleteUserInput) (*iam.DeleteUserOutput, error)
	ListUsersFn        func(ctx context.Context, params *iam.ListUsersInput) (*iam.ListUsersOutput, error)
	PutUserPolicyFn    func(ctx context.Context, params *iam.PutUserPolicyInput) (*iam.PutUserPolicyOutput, error)
	GetUserPolicyFn    func(ctx context.Context, params *iam.GetUserPolicyInput) (*iam.GetUserPolicyOutput, error)
	DeleteUserPolicyFn func(ctx context.Context, params *iam.DeleteUserPolicyInput) (*iam.DeleteUserPolicyOutput, error)
	ListUserPoliciesFn func(ctx context.Context, params *iam.ListUserPoliciesInput) (*iam.ListUserPoliciesOutput, error)
	CreateAccessKeyFn  func(ctx context.Context, params *iam.CreateAccessKeyInput) (*iam.CreateAccessKeyOutput, error)
	DeleteAccessKeyFn  func(ctx context.Context, params *iam.DeleteAccessKeyInput) (*iam.DeleteAccessKeyOutput, error)
	ListAccessKeysFn   func(ctx context.Context, params *iam.ListAccessKeysInput) (*iam.ListAccessKeysOutput, error)
}

func (m *IAM) GetUser(ctx context.Context, params *iam.GetUserInput, optFns ...func(*iam.Options)) (*iam.GetUserOutput, error) {
	m.rec.record("GetUser", params)
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, params)
	}
	return &iam.GetUserOutput{User: &iamtypes.User{UserName: params.UserName}}, nil
}

func (m *IAM) CreateUser(ctx context.Context, params *iam.CreateUserInput, optFns ...func(*iam.Options)) (*iam.CreateUserOutput, error) {
	m.rec.record("CreateUser", params)
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, params)
	}
	return &iam.CreateUserOutput{User: &iamtypes.User{UserName: params.UserName}}, nil
}

func (m *IAM) DeleteUser(ctx context.Context, params *iam.DeleteUserInput, optFns ...func(*iam.Options)) (*iam.DeleteUserOutput, error) {
	m.rec.record("DeleteUser", params)
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, params)
	}
	return &iam.DeleteUserOutput{}, nil
}

func (m *IAM) ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error) {
	m.rec.record("ListUsers", params)
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, params)
	}
	return &iam.ListUsersOutput{}, nil
}

func (m *IAM) PutUserPolicy(ctx context.Context, params *iam.PutUserPolicyInput, optFns ...func(*iam.Options)) (*iam.PutUserPolicyOutput, error) {
	m.rec.record("PutUserPolicy", params)
	if m.PutUserPolicyFn != nil {
		return m.PutUserPolicyFn(ctx, params)
	}
	return &iam.PutUserPolicyOutput{}, nil
}

func (m *IAM) GetUserPolicy(ctx context.Context, params *iam.GetUserPolicyInput, optFns ...func(*iam.Options)) (*iam.GetUserPolicyOutput, error) {
	m.rec.record("GetUserPolicy", params)
	if m.GetUserPolicyFn != nil {
		return m.GetUserPolicyFn(ctx, params)
	}
	return &iam.GetUserPolicyOutput{
		UserName:       params.UserName,
		PolicyName:     params.PolicyName,
		PolicyDocument: aws.String("%7B%7D"),
	}, nil
}

func (m *IAM) DeleteUserPolicy(ctx context.Context, params *iam.DeleteUserPolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteUserPolicyOutput, error) {
	m.rec.record("DeleteUserPolicy", params)
	if m.DeleteUserPolicyFn != nil {
		return m.DeleteUserPolicyFn(ctx, params)
	}
	return &iam.DeleteUserPolicyOutput{}, nil
}

func (m *IAM) ListUserPolicies(ctx context.Context, params *iam.ListUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListUserPoliciesOutput, error) {
	m.rec.record("ListUserPolicies", params)
	if m.ListUserPoliciesFn != nil {
		return m.ListUserPoliciesFn(ctx, params)
	}
	return &iam.ListUserPoliciesOutput{}, nil
}

func (m *IAM) CreateAccessKey(ctx context.Context, params *iam.CreateAccessKeyInput, optFns ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error) {
	m.rec.record("CreateAccessKey", params)
	if m.CreateAccessKeyFn != nil {
		return m.CreateAccessKeyFn(ctx, params)
	}
	return &iam.CreateAccessKeyOutput{AccessKey: &iamtypes.AccessKey{
		UserName:        params.UserName,
		AccessKeyId:     aws.String("access"),
		SecretAccessKey: aws.String("secret"),
		Status:          iamtypes.StatusTypeActive,
	}}, nil
}

func (m *IAM) DeleteAccessKey(ctx context.Context, params *iam.DeleteAccessKeyInput, optFns ...func(*iam.Options)) (*iam.DeleteAccessKeyOutput, error) {
	m.rec.record("DeleteAccessKey", params)
	if m.DeleteAccessKeyFn != nil {
		return m.DeleteAccessKeyFn(ctx, params)
	}
	return &iam.DeleteAccessKeyOutput{}, nil
}

func (m *IAM) ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error) {
	m.rec.record("ListAccessKeys", params)
	if m.ListAccessKeysFn != nil {
		return m.ListAccessKeysFn(ctx, params)
	}
	return &iam.ListAccessKeysOutput{}, nil
}

type S3 struct {
	rec *Recorder

	HeadBucketFn   func(ctx context.Context, params *s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	CreateBucketFn func(ctx context.Context, params *s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
	ListBucketsFn  func(ctx context.Context, params *s3.ListBucketsInput) (*s3.ListBucketsOutput, error)
}

func (m *S3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	m.rec.record("HeadBucket", params)
	if m.HeadBucketFn != nil {
		return m.HeadBucketFn(ctx, params)
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *S3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.rec.record("CreateBucket", params)
	if m.CreateBucketFn != nil {
		return m.CreateBucketFn(ctx, params)
	}
	return &s3.CreateBucketOutput{Location: aws.String("/" + aws.ToString(params.Bucket))}, nil
}

func (m *S3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	m.rec.record("ListBuckets", params)
	if m.ListBucketsFn != nil {
		return m.ListBucketsFn(ctx, params)
	}
	return &s3.ListBucketsOutput{}, nil
}

type STS struct {
	rec *Recorder

	GetCallerIdentityFn func(ctx context.Context, params *sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error)
}

func (m *STS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.rec.record("GetCallerIdentity", params)
	if m.GetCallerIdentityFn != nil {
		return m.GetCallerIdentityFn(ctx, params)
	}
	return &sts.GetCallerIdentityOutput{
		UserId:  aws.String("AIDAEXAMPLE"),
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/example"),
	}, nil
}
