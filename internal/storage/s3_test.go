package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billboardhub/billboard-market/internal/config"
)

type fakeObjects struct {
	puts    map[string]string
	types   map[string]string
	deletes []string
	failPut bool
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, errors.New("access denied")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = string(data)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit", config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"path style endpoint", config.StorageConfig{Bucket: "b", Endpoint: "http://localhost:9000", UsePathStyle: true}, "http://localhost:9000/b"},
		{"virtual host endpoint", config.StorageConfig{Bucket: "b", Endpoint: "https://storage.example.com"}, "https://b.storage.example.com"},
		{"aws", config.StorageConfig{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, publicBaseURL(tc.cfg))
		})
	}
}

func TestS3ImageStore_UploadAndDelete(t *testing.T) {
	objects := &fakeObjects{puts: map[string]string{}, types: map[string]string{}}
	store := NewImageStore(objects, config.StorageConfig{Bucket: "billboards", PublicBaseURL: "https://cdn.example.com"}, nil)
	ctx := context.Background()

	url, err := store.Upload(ctx, "products/p1/a.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/p1/a.png", url)
	assert.Equal(t, "png", objects.puts["products/p1/a.png"])
	assert.Equal(t, "image/png", objects.types["products/p1/a.png"])

	key, ok := store.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "products/p1/a.png", key)

	_, ok = store.KeyFromURL("https://elsewhere.example.com/products/p1/a.png")
	assert.False(t, ok)
	_, ok = store.KeyFromURL("")
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, key))
	assert.Equal(t, []string{key}, objects.deletes)

	objects.failPut = true
	_, err = store.Upload(ctx, "k", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "access denied")
}
