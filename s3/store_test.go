package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"bare host port", "minio:9000", "minio:9000", false, false},
		{"http scheme", "http://minio:9000", "minio:9000", false, false},
		{"https scheme", "https://s3.example.com", "s3.example.com", true, false},
		{"trailing slash ok", "https://s3.example.com/", "s3.example.com", true, false},
		{"surrounding whitespace", "  minio:9000  ", "minio:9000", false, false},
		{"empty", "", "", false, true},
		{"path not allowed", "https://s3.example.com/bucket", "", false, true},
		{"missing host", "https://", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := normalizeEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestCanonicalMetadata(t *testing.T) {
	got := canonicalMetadata(map[string]string{
		"user-id":   "42",
		"File-name": "a.txt",
	})
	assert.Equal(t, map[string]string{
		"User-Id":   "42",
		"File-Name": "a.txt",
	}, got)

	assert.Nil(t, canonicalMetadata(nil))
	assert.Nil(t, canonicalMetadata(map[string]string{}))
}

func TestWrapMinioError_PassthroughUnknown(t *testing.T) {
	err := assert.AnError
	assert.Equal(t, err, wrapMinioError(err))
}
