// Package storage abstracts where submission images live. The workflow only
// ever talks to BlobStore; whether blobs end up on local disk or Cloudinary is
// a deployment decision.
package storage

import (
	"context"
	"io"
)

type BlobStore interface {
	// Save stores the blob and returns the path callers persist alongside the
	// owning row.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
