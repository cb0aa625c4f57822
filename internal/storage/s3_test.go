package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "jpeg", filename: "pano.JPG", want: "user-1/abc.jpg"},
		{name: "multiple dots", filename: "lobby.final.png", want: "user-1/abc.png"},
		{name: "no extension", filename: "pano", want: "user-1/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ImageKey("user-1", "abc", tt.filename))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/webp", ContentTypeFor("a/b.webp", "image/webp"))
	assert.Equal(t, "image/png", ContentTypeFor("a/b.png", ""))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a/b", ""))
}

func TestSplitPublicEndpoint(t *testing.T) {
	base, prefix, err := splitPublicEndpoint("https://cdn.example.org/s3/")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org", base)
	assert.Equal(t, "/s3", prefix)

	base, prefix, err = splitPublicEndpoint("http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", base)
	assert.Empty(t, prefix)

	_, _, err = splitPublicEndpoint("not a url")
	assert.Error(t, err)
}

func TestWithPathPrefix(t *testing.T) {
	got, err := withPathPrefix("https://cdn.example.org/bucket/u/a.jpg?X-Amz-Signature=abc", "/s3")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/s3/bucket/u/a.jpg?X-Amz-Signature=abc", got)

	got, err = withPathPrefix("https://cdn.example.org/bucket/a.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/bucket/a.jpg", got)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Bucket: "images", Endpoint: "http://minio:9000"}.Enabled())
}
