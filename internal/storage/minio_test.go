package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		region     string
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"empty targets aws", "", "us-gov-west-1", "s3.us-gov-west-1.amazonaws.com", true, false},
		{"http endpoint", "http://minio:9000", "us-east-1", "minio:9000", false, false},
		{"https endpoint", "https://storage.example.com", "us-east-1", "storage.example.com", true, false},
		{"schemeless defaults to https", "storage.example.com:9000", "us-east-1", "storage.example.com:9000", true, false},
		{"garbage", "http://", "us-east-1", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := splitEndpoint(tt.endpoint, tt.region)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitEndpoint(%q) expected error", tt.endpoint)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitEndpoint(%q) error = %v", tt.endpoint, err)
			}
			if host != tt.wantHost || secure != tt.wantSecure {
				t.Errorf("splitEndpoint(%q) = %q, %v; want %q, %v", tt.endpoint, host, secure, tt.wantHost, tt.wantSecure)
			}
		})
	}
}

// fakeS3 is just enough of the S3 API for PutObject and StatObject.
type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"fake-etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("ETag", `"fake-etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeStore(t *testing.T) (*MinioStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewMinioStore(MinioOptions{
		Region:         "us-east-1",
		AccessKey:      "test-access",
		SecretKey:      "test-secret",
		Endpoint:       srv.URL,
		PublicEndpoint: "https://public.example.com",
	})
	if err != nil {
		t.Fatalf("NewMinioStore() error = %v", err)
	}
	return store, fake
}

func TestMinioPutAndExists(t *testing.T) {
	store, fake := newFakeStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "artifacts", "doc-1", []byte("%PDF-fake"), "application/pdf"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := fake.objects["artifacts/doc-1"]; !ok {
		t.Fatalf("object not stored, have %v", fake.objects)
	}

	ok, err := store.Exists(ctx, "artifacts", "doc-1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("Exists() = false for stored object")
	}

	ok, err = store.Exists(ctx, "artifacts", "missing")
	if err != nil {
		t.Fatalf("Exists(missing) error = %v", err)
	}
	if ok {
		t.Error("Exists(missing) = true")
	}
}

func TestMinioPresignUsesPublicEndpoint(t *testing.T) {
	store, _ := newFakeStore(t)

	u, err := store.PresignedGetURL(context.Background(), "artifacts", "doc-1", time.Hour)
	if err != nil {
		t.Fatalf("PresignedGetURL() error = %v", err)
	}
	if !strings.Contains(u, "public.example.com") {
		t.Errorf("presigned URL %q not built against the public endpoint", u)
	}
	if !strings.Contains(u, "X-Amz-Expires=3600") {
		t.Errorf("presigned URL %q missing expiry", u)
	}
}
