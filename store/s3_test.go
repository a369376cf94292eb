package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/always-cache/fwserve/resource"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var s3Modified = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// fakeS3 answers path-style object requests for a single bucket.
type fakeS3 struct {
	mutex   sync.Mutex
	bucket  string
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, ok := strings.CutPrefix(r.URL.Path, "/"+f.bucket+"/")
	if !ok {
		http.Error(w, "no such bucket", http.StatusNotFound)
		return
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"`+contentVersion(body)+`"`)
	case http.MethodHead, http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			}
			return
		}
		w.Header().Set("ETag", `"`+contentVersion(body)+`"`)
		w.Header().Set("Last-Modified", s3Modified.Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodGet {
			w.Write(body)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T, prefix string) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{bucket: "framework", objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:          "framework",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		Prefix:          prefix,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Store(t, "builds/42/")
	fake.objects["builds/42/resources/aura/resetCSS.css"] = []byte("body{}")

	d, err := s.Lookup(ctx, "resources/aura/resetCSS.css")
	require.NoError(t, err)
	assert.Equal(t, "text/css", d.MimeType)
	assert.Equal(t, resource.Stylesheet, d.Kind)
	assert.EqualValues(t, 6, d.Size)
	assert.True(t, d.Modified.Equal(s3Modified))
	assert.Equal(t, contentVersion([]byte("body{}")), d.Version)

	rc, err := s.Open(ctx, d)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(body))
}

func TestS3StoreNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestS3Store(t, "")

	_, err := s.Lookup(ctx, "resources/aura/missing.css")
	assert.ErrorIs(t, err, resource.ErrNotFound)
	_, err = s.Lookup(ctx, "resources/aura/")
	assert.ErrorIs(t, err, resource.ErrNotFound)
	_, err = s.Open(ctx, resource.Descriptor{Name: "resources/aura/missing.css"})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestS3StorePut(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Store(t, "")

	count, err := Copy(ctx, testTree(), s, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []byte("var $A;"), fake.objects["javascript/aura_dev.js"])
}

func TestS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
