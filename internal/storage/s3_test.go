package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/config"
)

func TestHasScheme(t *testing.T) {
	assert.True(t, hasScheme("http://minio:9000"))
	assert.True(t, hasScheme("https://s3.example.com"))
	assert.False(t, hasScheme("minio:9000"))
}

func TestS3Storage_PresignUsesPathStyleEndpoint(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "minio:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "exports",
		UseSSL:          false,
	})
	require.NoError(t, err)

	url, err := fs.GeneratePresignedDownloadURL(context.Background(), "plans/p1.json", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://minio:9000/exports/plans/p1.json?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
}
