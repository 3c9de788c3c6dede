package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakeUploader struct {
	bucket      string
	key         string
	body        []byte
	size        int64
	contentType string
	err         error
}

func (f *fakeUploader) PutObject(_ context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.key, f.body, f.size, f.contentType = bucket, key, body, size, opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestObjectSinkUploadsJSON(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{}
	sink := newObjectSink(up, "artworks", "")

	if err := sink.Store(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if up.bucket != "artworks" || up.key != "behance_artworks.json" {
		t.Fatalf("unexpected destination %s/%s", up.bucket, up.key)
	}
	if up.contentType != "application/json" {
		t.Fatalf("unexpected content type: %s", up.contentType)
	}
	if int64(len(up.body)) != up.size {
		t.Fatalf("size %d does not match body length %d", up.size, len(up.body))
	}

	want, _ := EncodeArtifact(sampleRecords())
	if string(up.body) != string(want) {
		t.Fatalf("uploaded bytes differ from encoded artifact")
	}
	if sink.Describe() != "s3://artworks/behance_artworks.json" {
		t.Fatalf("unexpected description: %s", sink.Describe())
	}
}

func TestObjectSinkUploadFailure(t *testing.T) {
	t.Parallel()

	sink := newObjectSink(&fakeUploader{err: errors.New("AccessDenied")}, "artworks", "custom.json")
	err := sink.Store(context.Background(), nil)

	var sinkErr *Error
	if !errors.As(err, &sinkErr) || sinkErr.Op != "upload" {
		t.Fatalf("expected upload *Error, got %v", err)
	}
	if !strings.Contains(err.Error(), "s3://artworks/custom.json") {
		t.Fatalf("error should name the destination: %v", err)
	}
}

func TestObjectSinkAgainstS3Endpoint(t *testing.T) {
	t.Parallel()

	var gotPath, gotType, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink, err := NewObjectSink(ObjectStoreOptions{
		EndpointURL: server.URL,
		AccessKey:   "key-id",
		SecretKey:   "application-key",
		Region:      "us-west-004",
		Bucket:      "artworks",
	})
	if err != nil {
		t.Fatalf("NewObjectSink error: %v", err)
	}

	if err := sink.Store(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if gotPath != "/artworks/behance_artworks.json" {
		t.Fatalf("unexpected object path: %s", gotPath)
	}
	if gotType != "application/json" {
		t.Fatalf("unexpected content type: %s", gotType)
	}
	if !strings.HasPrefix(gotAuth, "AWS4-HMAC-SHA256") {
		t.Fatalf("expected s3v4 signature, got %q", gotAuth)
	}
}

func TestNewObjectSinkValidation(t *testing.T) {
	t.Parallel()

	cases := []ObjectStoreOptions{
		{EndpointURL: "https://s3.example.org", AccessKey: "a", SecretKey: "b"},
		{EndpointURL: "https://s3.example.org", Bucket: "x"},
		{AccessKey: "a", SecretKey: "b", Bucket: "x"},
		{EndpointURL: "ftp://s3.example.org", AccessKey: "a", SecretKey: "b", Bucket: "x"},
	}
	for i, opts := range cases {
		if _, err := NewObjectSink(opts); err == nil {
			t.Fatalf("case %d: expected configuration error", i)
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		host   string
		secure bool
	}{
		{"https://s3.us-west-004.backblazeb2.com", "s3.us-west-004.backblazeb2.com", true},
		{"http://127.0.0.1:9000/", "127.0.0.1:9000", false},
		{"s3.eu-central-003.backblazeb2.com", "s3.eu-central-003.backblazeb2.com", true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.in)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error: %v", tc.in, err)
		}
		if host != tc.host || secure != tc.secure {
			t.Fatalf("parseEndpoint(%q) = %s,%v want %s,%v", tc.in, host, secure, tc.host, tc.secure)
		}
	}
}
