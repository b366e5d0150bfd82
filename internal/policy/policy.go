// Package policy builds the inline IAM policy documents attached to the
// users created for a bucket.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dnitsch/s3-credentials/internal/output"
)

const (
	Version = "2012-10-17"

	// BucketPlaceholder is replaced with the bucket name in custom policy files.
	BucketPlaceholder = "$!BUCKET_NAME!$"

	DefaultUsernameFormat = "s3.{permission}.{buckets}"
)

var (
	ErrUnknownMode     = errors.New("unknown access mode")
	ErrNoBuckets       = errors.New("at least one bucket is required")
	ErrInvalidPolicy   = errors.New("invalid policy document")
	ErrTemplateBuckets = errors.New("policy templates using " + BucketPlaceholder + " only support a single bucket")
)

// Mode is the level of access a policy grants on its buckets.
type Mode string

const (
	ReadWrite Mode = "read-write"
	ReadOnly  Mode = "read-only"
	WriteOnly Mode = "write-only"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ReadWrite, ReadOnly, WriteOnly:
		return m, nil
	}
	return "", fmt.Errorf("%q, %w", s, ErrUnknownMode)
}

// Statement Action is either a string or a []string, both shapes appear in
// the generated documents.
type Statement struct {
	Sid      string   `json:"Sid,omitempty"`
	Effect   string   `json:"Effect"`
	Action   any      `json:"Action"`
	Resource []string `json:"Resource"`
}

type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

var readOnlyObjectActions = []string{
	"s3:GetObject",
	"s3:GetObjectAcl",
	"s3:GetObjectLegalHold",
	"s3:GetObjectRetention",
	"s3:GetObjectTagging",
}

// Build returns the document granting mode on buckets. Statements always
// list the bucket before the objects inside it.
func Build(buckets []string, mode Mode) (Document, error) {
	if len(buckets) == 0 {
		return Document{}, ErrNoBuckets
	}
	bucketArns, objectArns := arns(buckets)

	var statements []Statement
	switch mode {
	case ReadWrite:
		statements = []Statement{
			{Sid: "ListObjectsInBucket", Effect: "Allow", Action: []string{"s3:ListBucket"}, Resource: bucketArns},
			{Sid: "AllObjectActions", Effect: "Allow", Action: "s3:*Object", Resource: objectArns},
		}
	case ReadOnly:
		statements = []Statement{
			{Sid: "ListObjectsInBucket", Effect: "Allow", Action: []string{"s3:ListBucket", "s3:GetBucketLocation"}, Resource: bucketArns},
			{Sid: "ReadObjectActions", Effect: "Allow", Action: readOnlyObjectActions, Resource: objectArns},
		}
	case WriteOnly:
		statements = []Statement{
			{Sid: "WriteObjectActions", Effect: "Allow", Action: []string{"s3:PutObject"}, Resource: objectArns},
		}
	default:
		return Document{}, fmt.Errorf("%q, %w", mode, ErrUnknownMode)
	}
	return Document{Version: Version, Statement: statements}, nil
}

func arns(buckets []string) (bucketArns, objectArns []string) {
	for _, b := range buckets {
		bucketArns = append(bucketArns, "arn:aws:s3:::"+b)
		objectArns = append(objectArns, "arn:aws:s3:::"+b+"/*")
	}
	return bucketArns, objectArns
}

// String is the single-line form passed as PolicyDocument to PutUserPolicy.
func (d Document) String() string {
	b, err := output.CompactJSON(d)
	if err != nil {
		// Document only holds strings and string slices
		panic(err)
	}
	return string(b)
}

// Text builds the policy for buckets and returns its single-line form.
func Text(buckets []string, mode Mode) (string, error) {
	doc, err := Build(buckets, mode)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// FromTemplate validates a user supplied policy, substituting
// BucketPlaceholder when present, and returns it as an ordered record.
func FromTemplate(text string, buckets []string) (output.Record, error) {
	if strings.Contains(text, BucketPlaceholder) {
		if len(buckets) != 1 {
			return output.Record{}, ErrTemplateBuckets
		}
		text = strings.ReplaceAll(text, BucketPlaceholder, buckets[0])
	}
	r, err := output.ParseRecord([]byte(text))
	if err != nil {
		return output.Record{}, fmt.Errorf("%s, %w", err, ErrInvalidPolicy)
	}
	if _, ok := r.Get("Statement"); !ok {
		return output.Record{}, fmt.Errorf("missing Statement, %w", ErrInvalidPolicy)
	}
	return r, nil
}

// UserName expands the {permission} and {buckets} fields of format.
func UserName(format string, mode Mode, buckets []string) string {
	if format == "" {
		format = DefaultUsernameFormat
	}
	return strings.NewReplacer(
		"{permission}", string(mode),
		"{buckets}", strings.Join(buckets, ","),
	).Replace(format)
}
