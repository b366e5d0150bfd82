// provision
//
// Runs the multi step flows that change IAM and S3 state.
//
// Create checks (and optionally creates) the buckets, resolves or creates
// the IAM user derived from the buckets and access mode, attaches the
// inline bucket policy and optionally issues an access key.
//
// DeleteUsers removes the access keys and inline policies of users before
// deleting them. Neither flow rolls back completed steps on failure.
package provision
