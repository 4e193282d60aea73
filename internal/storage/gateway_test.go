package storage

import (
	"context"
	"testing"
	"time"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

type memStore struct {
	objects  map[string][]byte
	presigns int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func (m *memStore) PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	m.presigns++
	return "https://public.example.com/" + bucket + "/" + key + "?X-Amz-Expires=3600", nil
}

func TestBucketFor(t *testing.T) {
	g := NewGateway(newMemStore(), "default-bucket", time.Hour)

	tests := []struct {
		name    string
		locator string
		want    string
		wantErr bool
	}{
		{"empty selects default", "", "default-bucket", false},
		{"s3 locator", "s3://other-bucket", "other-bucket", false},
		{"s3 locator with key", "s3://other-bucket/some/key", "other-bucket", false},
		{"wrong scheme", "gs://bucket", "", true},
		{"bare name", "just-a-bucket", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.BucketFor(tt.locator)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BucketFor(%q) expected error", tt.locator)
				}
				if kind := domain.KindOf(err); kind != domain.ErrorKindValidation {
					t.Errorf("error kind = %v, want validation", kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("BucketFor(%q) error = %v", tt.locator, err)
			}
			if got != tt.want {
				t.Errorf("BucketFor(%q) = %q, want %q", tt.locator, got, tt.want)
			}
		})
	}
}

func TestPrivateLink(t *testing.T) {
	if got := PrivateLink("bucket", "my-artifact"); got != "s3://bucket/my-artifact" {
		t.Errorf("PrivateLink() = %q", got)
	}
}

func TestLocate(t *testing.T) {
	store := newMemStore()
	g := NewGateway(store, "artifacts", time.Hour)

	links, err := g.Locate(context.Background(), "artifacts", "doc-1", false)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if links.PrivateLink != "s3://artifacts/doc-1" {
		t.Errorf("private link = %q", links.PrivateLink)
	}
	if links.PresignedLink != "" || store.presigns != 0 {
		t.Errorf("presigned link issued without being requested")
	}

	links, err = g.Locate(context.Background(), "artifacts", "doc-1", true)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if links.PresignedLink == "" || store.presigns != 1 {
		t.Errorf("expected presigned link, got %+v", links)
	}
}

func TestPutAndExists(t *testing.T) {
	store := newMemStore()
	g := NewGateway(store, "artifacts", time.Hour)

	if err := g.Put(context.Background(), "artifacts", "doc-1", []byte("%PDF-")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err := g.Exists(context.Background(), "artifacts", "doc-1")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v; want true", ok, err)
	}

	ok, err = g.Exists(context.Background(), "artifacts", "missing")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false", ok, err)
	}
}
