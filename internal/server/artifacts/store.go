// Package artifacts places imported activity files in durable storage.
// Two backends exist: a local directory tree and an S3-compatible bucket.
package artifacts

import "context"

// Store writes the file at srcPath to durable storage under the user's
// namespace. Implementations must not remove srcPath; temp-file ownership
// stays with the import pipeline. Delete compensates a placement whose
// follow-up bookkeeping failed; deleting an absent artifact is not an error.
type Store interface {
	Put(ctx context.Context, userID, filename, srcPath string) error
	Delete(ctx context.Context, userID, filename string) error
}

// Backend names accepted in configuration.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)
