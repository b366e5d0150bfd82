package awsclient

import (
	"errors"
	"net/http"
	"strings"

	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// Kind groups AWS errors by how the commands react to them.
type Kind int

const (
	KindOther Kind = iota
	// KindNotFound the bucket or user does not exist
	KindNotFound
	// KindConflict the entity already exists
	KindConflict
	// KindAccessDenied the caller lacks permission
	KindAccessDenied
	// KindTransport the request never produced a service response
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindAccessDenied:
		return "access-denied"
	case KindTransport:
		return "transport"
	}
	return "other"
}

// Classify inspects the typed service errors first, then the generic API
// error code, then the HTTP status.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var noSuchEntity *iamtypes.NoSuchEntityException
	var notFound *s3types.NotFound
	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchEntity) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return KindNotFound
	}

	var entityExists *iamtypes.EntityAlreadyExistsException
	var ownedByYou *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &entityExists) || errors.As(err, &ownedByYou) {
		return KindConflict
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchEntity", "NotFound", "NoSuchBucket":
			return KindNotFound
		case "EntityAlreadyExists", "BucketAlreadyOwnedByYou":
			return KindConflict
		case "AccessDenied", "Forbidden", "AccessDeniedException":
			return KindAccessDenied
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusForbidden:
			return KindAccessDenied
		case http.StatusConflict:
			return KindConflict
		}
		return KindOther
	}

	if apiErr != nil {
		return KindOther
	}
	return KindTransport
}

func IsNotFound(err error) bool { return Classify(err) == KindNotFound }

func IsConflict(err error) bool { return Classify(err) == KindConflict }

// IsServiceError reports whether the service answered the request, as
// opposed to a network, signing or credential resolution failure.
func IsServiceError(err error) bool {
	k := Classify(err)
	return err != nil && k != KindTransport
}

// Describe renders err for the terminal. An AWS operation error anywhere in
// the chain is shortened to "IAM GetUser: Code: message", keeping any
// context the callers added around it.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	full := err.Error()
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return full
	}
	short := apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()

	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		return strings.Replace(full, opErr.Error(), opErr.Service()+" "+opErr.Operation()+": "+short, 1)
	}
	return strings.Replace(full, apiErr.Error(), short, 1)
}
