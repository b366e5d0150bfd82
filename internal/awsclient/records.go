package awsclient

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/dnitsch/s3-credentials/internal/output"
)

// TimeFormat renders timestamps as "2021-11-03 18:21:05+00:00".
const TimeFormat = "2006-01-02 15:04:05-07:00"

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(TimeFormat)
}

// UserRecord keeps the field order of the IAM API documentation. Like the
// raw API response, fields the service left out are absent.
func UserRecord(u iamtypes.User) output.Record {
	r := output.NewRecord()
	setString(&r, "Path", u.Path)
	setString(&r, "UserName", u.UserName)
	setString(&r, "UserId", u.UserId)
	setString(&r, "Arn", u.Arn)
	if u.CreateDate != nil {
		r.Set("CreateDate", formatTime(u.CreateDate))
	}
	if u.PasswordLastUsed != nil {
		r.Set("PasswordLastUsed", formatTime(u.PasswordLastUsed))
	}
	if pb := u.PermissionsBoundary; pb != nil {
		r.Set("PermissionsBoundary", output.NewRecord(
			"PermissionsBoundaryType", string(pb.PermissionsBoundaryType),
			"PermissionsBoundaryArn", aws.ToString(pb.PermissionsBoundaryArn),
		))
	}
	if len(u.Tags) > 0 {
		tags := make([]any, 0, len(u.Tags))
		for _, t := range u.Tags {
			tags = append(tags, output.NewRecord("Key", aws.ToString(t.Key), "Value", aws.ToString(t.Value)))
		}
		r.Set("Tags", tags)
	}
	return r
}

func BucketRecord(b s3types.Bucket) output.Record {
	r := output.NewRecord()
	setString(&r, "Name", b.Name)
	if b.CreationDate != nil {
		r.Set("CreationDate", formatTime(b.CreationDate))
	}
	setString(&r, "BucketRegion", b.BucketRegion)
	return r
}

func setString(r *output.Record, key string, v *string) {
	if v != nil {
		r.Set(key, *v)
	}
}

// AccessKeyRecord only carries the key pair, which is all a caller needs
// to authenticate.
func AccessKeyRecord(k iamtypes.AccessKey) output.Record {
	return output.NewRecord(
		"AccessKeyId", aws.ToString(k.AccessKeyId),
		"SecretAccessKey", aws.ToString(k.SecretAccessKey),
	)
}

func CallerRecord(out *sts.GetCallerIdentityOutput) output.Record {
	return output.NewRecord(
		"UserId", aws.ToString(out.UserId),
		"Account", aws.ToString(out.Account),
		"Arn", aws.ToString(out.Arn),
	)
}
