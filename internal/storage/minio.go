package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configure the S3 clients. Endpoint is used for put and head
// operations; PublicEndpoint, when set, is used only for presigned URLs so
// the links work from outside the deployment network (for example
// minio:9000 inside a compose network vs localhost:9003 on the host).
type MinioOptions struct {
	Region         string
	AccessKey      string
	SecretKey      string
	Endpoint       string
	PublicEndpoint string
}

// MinioStore is the minio-go implementation of ObjectStore. It holds two
// clients when the internal and public endpoints differ; presigning always
// goes through the public client.
type MinioStore struct {
	client  *minio.Client
	presign *minio.Client
}

// NewMinioStore connects the internal and, when configured, public clients.
func NewMinioStore(opts MinioOptions) (*MinioStore, error) {
	client, err := newClient(opts.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	presign := client
	if opts.PublicEndpoint != "" && opts.PublicEndpoint != opts.Endpoint {
		presign, err = newClient(opts.PublicEndpoint, opts)
		if err != nil {
			return nil, fmt.Errorf("public storage client: %w", err)
		}
	}

	return &MinioStore{client: client, presign: presign}, nil
}

func newClient(endpoint string, opts MinioOptions) (*minio.Client, error) {
	host, secure, err := splitEndpoint(endpoint, opts.Region)
	if err != nil {
		return nil, err
	}
	return minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
}

// splitEndpoint turns a configured endpoint URL into the host[:port] and
// TLS flag minio-go expects. An empty endpoint targets AWS S3 in the
// configured region.
func splitEndpoint(endpoint, region string) (host string, secure bool, err error) {
	if endpoint == "" {
		return fmt.Sprintf("s3.%s.amazonaws.com", region), true, nil
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse storage endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("storage endpoint %q has no host", endpoint)
	}
	return u.Host, u.Scheme != "http", nil
}

// Put uploads the object.
func (s *MinioStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Exists head-checks the object. A missing object is (false, nil), not an
// error.
func (s *MinioStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignedGetURL issues a time-bounded retrieval URL via the public
// endpoint client. Signing is local; no request is made.
func (s *MinioStore) PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	u, err := s.presign.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
