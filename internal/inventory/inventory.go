// Package inventory reads users, buckets and inline policies from the
// account and turns them into output records.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/dnitsch/s3-credentials/internal/awsclient"
	"github.com/dnitsch/s3-credentials/internal/listing"
	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/dnitsch/s3-credentials/internal/util"
)

var (
	ErrUnableToList      = errors.New("unable to list")
	ErrMalformedDocument = errors.New("policy document is not valid JSON")
)

// Users yields every IAM user in listing order.
func Users(ctx context.Context, api awsclient.IAMApi) iter.Seq2[output.Record, error] {
	return listing.Map(userNames(ctx, api), awsclient.UserRecord)
}

func userNames(ctx context.Context, api awsclient.IAMApi) iter.Seq2[iamtypes.User, error] {
	return listing.Flatten[*iam.ListUsersOutput, *iam.Options](ctx,
		iam.NewListUsersPaginator(api, &iam.ListUsersInput{}),
		func(o *iam.ListUsersOutput) []iamtypes.User { return o.Users })
}

// Buckets yields every bucket the caller owns.
func Buckets(ctx context.Context, api awsclient.S3Api) iter.Seq2[output.Record, error] {
	return listing.Map(
		listing.Flatten[*s3.ListBucketsOutput, *s3.Options](ctx,
			s3.NewListBucketsPaginator(api, &s3.ListBucketsInput{}),
			func(o *s3.ListBucketsOutput) []s3types.Bucket { return o.Buckets }),
		awsclient.BucketRecord)
}

// WriteUserPolicies prints the inline policies of the named users, or of
// every user when usernames is empty. Output is written as it is fetched:
//
//	User: <name>
//	PolicyName: <policy>
//	<pretty document>
func WriteUserPolicies(ctx context.Context, api awsclient.IAMApi, w io.Writer, usernames []string) error {
	users := namedUsers(usernames)
	if len(usernames) == 0 {
		users = listing.Map(userNames(ctx, api), func(u iamtypes.User) string { return aws.ToString(u.UserName) })
	}

	for username, err := range users {
		if err != nil {
			return fmt.Errorf("listing users: %s, %w", err, ErrUnableToList)
		}
		util.Writeln(w, "User: %s", username)

		policies := listing.Flatten[*iam.ListUserPoliciesOutput, *iam.Options](ctx,
			iam.NewListUserPoliciesPaginator(api, &iam.ListUserPoliciesInput{UserName: aws.String(username)}),
			func(o *iam.ListUserPoliciesOutput) []string { return o.PolicyNames })
		for policyName, err := range policies {
			if err != nil {
				return fmt.Errorf("listing policies of %s: %s, %w", username, err, ErrUnableToList)
			}
			util.Writeln(w, "PolicyName: %s", policyName)
			if err := writePolicy(ctx, api, w, username, policyName); err != nil {
				return err
			}
		}
	}
	return nil
}

func namedUsers(usernames []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, u := range usernames {
			if !yield(u, nil) {
				return
			}
		}
	}
}

func writePolicy(ctx context.Context, api awsclient.IAMApi, w io.Writer, username, policyName string) error {
	resp, err := api.GetUserPolicy(ctx, &iam.GetUserPolicyInput{
		UserName:   aws.String(username),
		PolicyName: aws.String(policyName),
	})
	if err != nil {
		return fmt.Errorf("user %s, policy %s: %w", username, policyName, err)
	}
	doc, err := DecodeDocument(aws.ToString(resp.PolicyDocument))
	if err != nil {
		return fmt.Errorf("user %s, policy %s: %w", username, policyName, err)
	}
	return output.WritePretty(w, doc)
}

// DecodeDocument undoes the URL encoding IAM applies to policy documents
// and parses the result, keeping the document's key order.
func DecodeDocument(encoded string) (output.Record, error) {
	text, err := url.QueryUnescape(encoded)
	if err != nil {
		return output.Record{}, fmt.Errorf("%s, %w", err, ErrMalformedDocument)
	}
	doc, err := output.ParseRecord([]byte(text))
	if err != nil {
		return output.Record{}, fmt.Errorf("%s, %w", err, ErrMalformedDocument)
	}
	return doc, nil
}

// Whoami describes the IAM user owning the credentials in use.
func Whoami(ctx context.Context, api awsclient.IAMApi) (output.Record, error) {
	resp, err := api.GetUser(ctx, &iam.GetUserInput{})
	if err != nil {
		return output.Record{}, err
	}
	if resp.User == nil {
		return output.NewRecord(), nil
	}
	return awsclient.UserRecord(*resp.User), nil
}

// CallerIdentity works for any principal, including assumed roles that
// GetUser rejects.
func CallerIdentity(ctx context.Context, api awsclient.STSApi) (output.Record, error) {
	resp, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return output.Record{}, err
	}
	return awsclient.CallerRecord(resp), nil
}
