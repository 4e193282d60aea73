// Package storage persists generated artifacts in S3-compatible object
// storage and issues private and presigned links for them.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// Links locates a stored artifact. PrivateLink is a stable opaque locator;
// PresignedLink, when present, is a time-bounded retrieval URL built
// against the public endpoint.
type Links struct {
	PrivateLink   string `json:"private_link"`
	PresignedLink string `json:"presigned_link,omitempty"`
}

// ObjectStore is the narrow object-storage surface the gateway consumes.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
	PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// Gateway resolves buckets, persists artifacts, and issues links.
type Gateway struct {
	store         ObjectStore
	defaultBucket string
	linkExpiry    time.Duration
}

// NewGateway creates a gateway with the configured default bucket and
// presigned-link expiry.
func NewGateway(store ObjectStore, defaultBucket string, linkExpiry time.Duration) *Gateway {
	return &Gateway{store: store, defaultBucket: defaultBucket, linkExpiry: linkExpiry}
}

// BucketFor resolves the target bucket from an optional s3:// locator.
// An empty locator selects the default bucket.
func (g *Gateway) BucketFor(locator string) (string, error) {
	if locator == "" {
		return g.defaultBucket, nil
	}
	u, err := url.Parse(locator)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", domain.ErrValidation(fmt.Sprintf("storage locator %q must use the s3://bucket form", locator), "storage")
	}
	return u.Host, nil
}

// Put stores the artifact bytes under key. Concurrent puts to the same key
// are last-write-wins; the gateway makes no uniqueness guarantee.
func (g *Gateway) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := g.store.Put(ctx, bucket, key, data, "application/pdf"); err != nil {
		return domain.ErrStorage(fmt.Sprintf("put object %s/%s", bucket, key)).WithCause(err)
	}
	return nil
}

// Exists reports whether the object is present.
func (g *Gateway) Exists(ctx context.Context, bucket, key string) (bool, error) {
	ok, err := g.store.Exists(ctx, bucket, key)
	if err != nil {
		return false, domain.ErrStorage(fmt.Sprintf("head object %s/%s", bucket, key)).WithCause(err)
	}
	return ok, nil
}

// Locate issues the private link and, when requested, a presigned link.
func (g *Gateway) Locate(ctx context.Context, bucket, key string, includePresigned bool) (Links, error) {
	links := Links{PrivateLink: PrivateLink(bucket, key)}
	if !includePresigned {
		return links, nil
	}
	presigned, err := g.store.PresignedGetURL(ctx, bucket, key, g.linkExpiry)
	if err != nil {
		return Links{}, domain.ErrStorage(fmt.Sprintf("presign object %s/%s", bucket, key)).WithCause(err)
	}
	links.PresignedLink = presigned
	return links, nil
}

// PrivateLink is the opaque s3://bucket/key locator for a stored object.
func PrivateLink(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, strings.TrimPrefix(key, "/"))
}
