package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lexfirm_api_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())
	assert.Equal(t, "local", storage.Name())

	key := CaseDocumentKey("case-1", "Demanda.PDF")
	assert.True(t, strings.HasPrefix(key, "cases/case-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	n, err := storage.Put(ctx, key, strings.NewReader("contenido"), "application/pdf", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	rc, err := storage.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(body))

	require.NoError(t, storage.Delete(ctx, key))
	_, err = storage.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, storage.Delete(ctx, key), "deleting twice is fine")
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())

	_, err := storage.Put(ctx, "../escape.txt", strings.NewReader("x"), "text/plain", 1)
	assert.Error(t, err)
	_, err = storage.Get(ctx, "../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, storage.Delete(ctx, "../escape.txt"))
}

func TestGenerateStorageKeyIsUnique(t *testing.T) {
	a := GenerateStorageKey("docs", "a.txt")
	b := GenerateStorageKey("docs", "a.txt")
	assert.NotEqual(t, a, b)
}

func TestNewStorageFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir()}
	storage := NewStorage(context.Background(), cfg)
	assert.Equal(t, "local", storage.Name())
}

func TestR2GetError(t *testing.T) {
	err := r2GetError("cases/x.pdf", fmt.Errorf("operation error S3: GetObject: %w", &types.NoSuchKey{}))
	assert.True(t, errors.Is(err, ErrObjectNotFound))

	err = r2GetError("cases/x.pdf", errors.New("connection reset"))
	assert.False(t, errors.Is(err, ErrObjectNotFound))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestR2StorageMissingObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
	}))
	defer srv.Close()

	storage := &R2Storage{
		client: s3.New(s3.Options{
			Region:       "auto",
			BaseEndpoint: aws.String(srv.URL),
			UsePathStyle: true,
			Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		}),
		bucket: "documents",
	}

	_, err := storage.Get(context.Background(), "cases/missing.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound), "got %v", err)
}
